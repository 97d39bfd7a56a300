package categorizer

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// DefaultTransferKeywords matches transfer vocabulary across English and
// German narration. Overridable from configuration.
var DefaultTransferKeywords = []string{
	"umbuchung", "übertrag", "uebertrag", "eigenübertragung", "eigenuebertragung",
	"kontoübertrag", "kontouebertrag", "geldtransfer",
	"transfer to", "transfer from", "own transfer", "internal transfer",
	"money transfer", "sent from", "moved to",
}

// Categorizer assigns one canonical category per transaction through a
// priority chain: transfer keywords, learned user corrections, source
// category translation, merchant rules, fallback.
type Categorizer struct {
	logger       *log.Logger
	rules        []Rule
	learned      *LearnedTable
	translations map[string]string
	transferRe   *regexp.Regexp
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithRules replaces the built-in merchant rule table.
func WithRules(rules []Rule) Option {
	return func(c *Categorizer) { c.rules = rules }
}

// WithLearned injects the learned merchant -> category table.
func WithLearned(table *LearnedTable) Option {
	return func(c *Categorizer) { c.learned = table }
}

// WithTranslations replaces the source-category translation table.
func WithTranslations(table map[string]string) Option {
	return func(c *Categorizer) { c.translations = table }
}

// WithTransferKeywords replaces the transfer keyword list.
func WithTransferKeywords(keywords []string) Option {
	return func(c *Categorizer) { c.transferRe = compileKeywords(keywords) }
}

// New returns a Categorizer with the built-in tables.
func New(logger *log.Logger, opts ...Option) *Categorizer {
	rules, err := CompileRules(DefaultRuleSpecs())
	if err != nil {
		// The built-in table is static; a bad pattern is a programming error.
		panic(err)
	}
	c := &Categorizer{
		logger:       logger,
		rules:        rules,
		learned:      NewLearnedTable(nil),
		translations: defaultTranslations,
		transferRe:   compileKeywords(DefaultTransferKeywords),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func compileKeywords(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(k)))
		}
	}
	if len(quoted) == 0 {
		quoted = []string{`\b\B`} // matches nothing
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// MatchesTransferKeyword reports whether text contains transfer vocabulary.
func (c *Categorizer) MatchesTransferKeyword(text string) bool {
	return c.transferRe.MatchString(text)
}

// Categorize populates Category, CategorySource and possibly Merchant on
// every transaction. Input order is preserved.
func (c *Categorizer) Categorize(txs []models.Transaction) []models.Transaction {
	counts := map[models.CategorySource]int{}
	for i := range txs {
		c.categorizeOne(&txs[i])
		counts[txs[i].CategorySource]++
	}
	c.logger.Info("categorized batch",
		"transactions", len(txs),
		"rule", counts[models.SourceRule],
		"learned", counts[models.SourceLearned],
		"uncategorized", counts[models.CategorySource("")])
	return txs
}

func (c *Categorizer) categorizeOne(tx *models.Transaction) {
	// 1. Transfers beat everything; the transfer detector refines pairing
	// later but the category is already decided here.
	if tx.IsTransfer || c.MatchesTransferKeyword(tx.Description) {
		tx.Category = CategoryTransfer
		tx.CategorySource = models.SourceRule
		return
	}

	// 2. Learned user corrections.
	if cat, ok := c.learned.Lookup(tx.Merchant, tx.Recipient, tx.Description); ok {
		tx.Category = cat
		tx.CategorySource = models.SourceLearned
		return
	}

	// 3. Source-provided category translation.
	if cat, ok := TranslateSource(c.translations, tx.RawTransaction.Category, tx.Subcategory); ok {
		tx.Category = cat
		tx.CategorySource = models.SourceRule
		return
	}

	// 4. Merchant rule table over all textual fields.
	haystack := strings.ToLower(strings.Join([]string{
		tx.Description, tx.Recipient, tx.RawTransaction.Category, tx.Subcategory,
	}, " "))
	if cat, merchant, ok := matchRules(c.rules, haystack); ok {
		tx.Category = cat
		if tx.Merchant == "" {
			tx.Merchant = merchant
		}
		tx.CategorySource = models.SourceRule
		return
	}

	// 5. Fallback: keep a source category when one exists, otherwise Other
	// with the source left unset so the AI fallback can pick the row up.
	if src := strings.TrimSpace(tx.RawTransaction.Category); src != "" {
		tx.Category = capitalize(src)
		tx.CategorySource = models.SourceRule
		return
	}
	tx.Category = CategoryOther
	tx.CategorySource = ""
}
