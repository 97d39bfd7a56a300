package pipeline

import (
	"sort"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
	"github.com/geldfluss/geldfluss/pkg/recurring"
)

// CategoryTotal is one aggregation line of a processed batch.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Summary aggregates a batch the way the export boundary consumes it:
// excluded rows and transfers never count toward income or expenses.
type Summary struct {
	TotalIncome      float64         `json:"totalIncome"`
	TotalExpenses    float64         `json:"totalExpenses"`
	ByCategory       []CategoryTotal `json:"byCategory"`
	RecurringMonthly float64         `json:"recurringMonthly"`
}

// Summarize computes per-category totals over expense rows plus the overall
// income/expense totals. Rows with isExcluded or category Transfer are
// skipped entirely; recurring expenses additionally contribute their
// monthly-equivalent value.
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	perCategory := make(map[string]*CategoryTotal)
	recurringSeen := make(map[string]bool)

	for i := range txs {
		tx := &txs[i]
		if tx.IsExcluded || tx.Category == categorizer.CategoryTransfer {
			continue
		}
		if tx.Type == models.TypeIncome {
			s.TotalIncome += tx.Amount
			continue
		}

		s.TotalExpenses += tx.Amount
		ct, ok := perCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category}
			perCategory[tx.Category] = ct
		}
		ct.Total += tx.Amount
		ct.Count++

		// One monthly-equivalent contribution per recurring cluster, keyed
		// by counterparty and frequency.
		if tx.IsRecurring {
			key := tx.Counterparty() + "|" + string(tx.RecurringFrequency)
			if !recurringSeen[key] {
				recurringSeen[key] = true
				s.RecurringMonthly += recurring.MonthlyEquivalent(tx.Amount, tx.RecurringFrequency)
			}
		}
	}

	s.ByCategory = make([]CategoryTotal, 0, len(perCategory))
	for _, ct := range perCategory {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(a, b int) bool {
		if s.ByCategory[a].Total != s.ByCategory[b].Total {
			return s.ByCategory[a].Total > s.ByCategory[b].Total
		}
		return s.ByCategory[a].Category < s.ByCategory[b].Category
	})
	return s
}
