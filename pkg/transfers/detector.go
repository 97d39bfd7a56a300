package transfers

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
)

// amountTolerance is the maximum difference for two legs to count as the
// same moved amount.
const amountTolerance = 0.01

// DefaultKeywords covers common neobank and German-bank transfer phrasing.
// Overridable from configuration.
var DefaultKeywords = []string{
	"umbuchung", "übertrag", "uebertrag", "eigenübertragung", "eigenuebertragung",
	"kontoübertrag", "kontouebertrag", "dauerauftrag eigenes konto",
	"transfer to", "transfer from", "own transfer", "internal transfer",
	"from main account", "to savings", "n26 empfehlung", "top up", "topup",
	"money beam", "moneybeam", "added money", "auto top-up",
}

// Pair links the two legs of one matched internal transfer.
type Pair struct {
	OutgoingID string    `json:"outgoingId"`
	IncomingID string    `json:"incomingId"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
}

// Detector flags money moving between the user's own accounts and pairs
// the matching debit/credit legs.
type Detector struct {
	logger   *log.Logger
	keywords []string
}

// New returns a Detector with the default keyword list.
func New(logger *log.Logger) *Detector {
	return &Detector{logger: logger, keywords: lowerAll(DefaultKeywords)}
}

// SetKeywords replaces the transfer keyword list (configuration override).
func (d *Detector) SetKeywords(keywords []string) {
	d.keywords = lowerAll(keywords)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Detect annotates internal transfers and pairs same-day equal-amount legs.
// Every internal transaction gets category Transfer; only the income leg is
// excluded from totals so unmatched inbound transfers can never inflate
// income, while the expense leg stays counted.
func (d *Detector) Detect(txs []models.Transaction) ([]models.Transaction, []Pair) {
	ownAccounts := collectOwnAccounts(txs)

	internal := make([]int, 0)
	for i := range txs {
		if d.isInternal(&txs[i], ownAccounts) {
			txs[i].Category = categorizer.CategoryTransfer
			txs[i].IsTransfer = true
			if txs[i].Type == models.TypeIncome {
				txs[i].IsExcluded = true
			}
			internal = append(internal, i)
		}
	}

	pairs := d.pair(txs, internal)
	d.logger.Info("detected internal transfers", "internal", len(internal), "pairs", len(pairs))
	return txs, pairs
}

// collectOwnAccounts scans the whole batch for the user's own account
// identifiers before any per-transaction decision is made.
func collectOwnAccounts(txs []models.Transaction) map[string]bool {
	own := make(map[string]bool)
	for i := range txs {
		for _, id := range []string{txs[i].ReferenceAccount, txs[i].ReferenceAccountName} {
			id = strings.ToLower(strings.TrimSpace(id))
			if len(id) >= 3 {
				own[id] = true
			}
		}
	}
	return own
}

// isInternal combines the structural signals: own-account identifier in the
// counterparty fields or narration, a transfer keyword phrase, or a
// source-asserted flag.
func (d *Detector) isInternal(tx *models.Transaction, ownAccounts map[string]bool) bool {
	if tx.IsTransfer {
		return true
	}

	recipient := strings.ToLower(strings.TrimSpace(tx.Recipient))
	iban := strings.ToLower(strings.TrimSpace(tx.RecipientIBAN))
	description := strings.ToLower(tx.Description)

	// A row naming its own source account is not evidence of a transfer;
	// only the counterparty side counts.
	self := map[string]bool{
		strings.ToLower(strings.TrimSpace(tx.ReferenceAccount)):     true,
		strings.ToLower(strings.TrimSpace(tx.ReferenceAccountName)): true,
	}
	for account := range ownAccounts {
		if self[account] {
			continue
		}
		if recipient == account || iban == account {
			return true
		}
		if strings.Contains(description, account) {
			return true
		}
	}

	for _, keyword := range d.keywords {
		if strings.Contains(description, keyword) || strings.Contains(recipient, keyword) {
			return true
		}
	}
	return false
}

// pair greedily matches expense and income legs flagged internal within the
// same calendar date. Candidates are walked in id order so the outcome does
// not depend on input iteration order.
func (d *Detector) pair(txs []models.Transaction, internal []int) []Pair {
	byDate := make(map[string][]int)
	for _, i := range internal {
		key := txs[i].Date.Format(time.DateOnly)
		byDate[key] = append(byDate[key], i)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var pairs []Pair
	for _, date := range dates {
		group := byDate[date]
		sort.Slice(group, func(a, b int) bool {
			return txs[group[a]].ID < txs[group[b]].ID
		})

		paired := make(map[int]bool, len(group))
		for _, out := range group {
			if paired[out] || txs[out].Type != models.TypeExpense {
				continue
			}
			for _, in := range group {
				if paired[in] || txs[in].Type != models.TypeIncome {
					continue
				}
				if math.Abs(txs[out].Amount-txs[in].Amount) > amountTolerance {
					continue
				}
				paired[out], paired[in] = true, true
				txs[out].DoubleBookingMatch = txs[in].ID
				txs[in].DoubleBookingMatch = txs[out].ID
				pairs = append(pairs, Pair{
					OutgoingID: txs[out].ID,
					IncomingID: txs[in].ID,
					Amount:     txs[out].Amount,
					Date:       txs[out].Date,
				})
				break
			}
		}
	}
	return pairs
}
