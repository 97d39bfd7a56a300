package recurring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
)

const (
	// amountTolerance is the relative spread allowed inside one group,
	// against the first amount.
	amountTolerance = 0.05
	// dayTolerance bounds how far individual gaps may stray from the
	// average gap (applied as 2x).
	dayTolerance = 3
	// descriptionKeyLen truncates descriptions used as a grouping key when
	// no merchant or recipient is available.
	descriptionKeyLen = 24
)

// bucket is one inclusive day-gap range mapping to a frequency.
type bucket struct {
	freq     models.Frequency
	min, max float64
}

var buckets = []bucket{
	{models.Weekly, 5, 9},
	{models.Monthly, 25, 35},
	{models.Quarterly, 80, 100},
	{models.Yearly, 350, 380},
}

// Detector tags expense transactions that recur at a steady interval with
// a roughly constant amount.
type Detector struct {
	logger *log.Logger
}

// New returns a recurrence Detector.
func New(logger *log.Logger) *Detector {
	return &Detector{logger: logger}
}

// groupKey builds the approximate-equality clustering key: merchant (or
// recipient, or truncated description) plus the amount rounded to a whole
// currency unit, so small price fluctuations land in the same group.
func groupKey(tx *models.Transaction) string {
	label := tx.Merchant
	if label == "" {
		label = tx.Recipient
	}
	if label == "" {
		label = tx.Description
		if len(label) > descriptionKeyLen {
			label = label[:descriptionKeyLen]
		}
	}
	return fmt.Sprintf("%s|%.0f", strings.ToLower(strings.TrimSpace(label)), math.Round(tx.Amount))
}

// Detect tags recurring expenses in place and returns the batch. Income and
// transfers never participate.
func (d *Detector) Detect(txs []models.Transaction) []models.Transaction {
	groups := make(map[string][]int)
	for i := range txs {
		if txs[i].Type != models.TypeExpense || txs[i].Category == categorizer.CategoryTransfer {
			continue
		}
		key := groupKey(&txs[i])
		groups[key] = append(groups[key], i)
	}

	tagged := 0
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		freq, ok := d.classify(txs, group)
		if !ok {
			continue
		}
		for _, i := range group {
			txs[i].IsRecurring = true
			txs[i].RecurringFrequency = freq
		}
		tagged += len(group)
		d.logger.Debug("recurring group", "key", key, "frequency", freq, "size", len(group))
	}

	d.logger.Info("detected recurring transactions", "tagged", tagged)
	return txs
}

// classify decides whether one group is recurring and at which frequency.
func (d *Detector) classify(txs []models.Transaction, group []int) (models.Frequency, bool) {
	sorted := make([]int, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(a, b int) bool {
		return txs[sorted[a]].Date.Before(txs[sorted[b]].Date)
	})

	// All amounts must stay within the relative tolerance of the first.
	first := txs[sorted[0]].Amount
	for _, i := range sorted[1:] {
		if first == 0 || math.Abs(txs[i].Amount-first)/first > amountTolerance {
			return "", false
		}
	}

	gaps := make([]float64, 0, len(sorted)-1)
	for k := 1; k < len(sorted); k++ {
		gap := txs[sorted[k]].Date.Sub(txs[sorted[k-1]].Date).Hours() / 24
		gaps = append(gaps, gap)
	}

	avg := 0.0
	for _, g := range gaps {
		avg += g
	}
	avg /= float64(len(gaps))

	var freq models.Frequency
	for _, b := range buckets {
		if avg >= b.min && avg <= b.max {
			freq = b.freq
			break
		}
	}
	if freq == "" {
		return "", false
	}

	if len(gaps) > 1 {
		for _, g := range gaps {
			if math.Abs(g-avg) > 2*dayTolerance {
				return "", false
			}
		}
	}
	return freq, true
}

// MonthlyEquivalent converts an amount at a detected frequency into its
// monthly-equivalent value for aggregate reporting. It is never stored on
// the transaction.
func MonthlyEquivalent(amount float64, freq models.Frequency) float64 {
	switch freq {
	case models.Weekly:
		return amount * 4.33
	case models.Monthly:
		return amount
	case models.Quarterly:
		return amount / 3
	case models.Yearly:
		return amount / 12
	default:
		return 0
	}
}
