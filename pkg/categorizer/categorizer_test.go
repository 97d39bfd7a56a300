package categorizer

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geldfluss/geldfluss/pkg/models"
)

func tx(desc, recipient string, amount float64) models.Transaction {
	return models.FromRaw(models.RawTransaction{
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Recipient:   recipient,
		Amount:      amount,
		Currency:    "EUR",
	})
}

func TestGermanGroceryRule(t *testing.T) {
	c := New(log.New(io.Discard))
	out := c.Categorize([]models.Transaction{tx("REWE SAGT DANKE", "", -23.45)})

	require.Len(t, out, 1)
	assert.Equal(t, CategoryGroceries, out[0].Category)
	assert.Equal(t, "REWE", out[0].Merchant)
	assert.Equal(t, models.SourceRule, out[0].CategorySource)
}

func TestTransferKeywordWins(t *testing.T) {
	c := New(log.New(io.Discard))

	// Keyword in narration beats every other signal, including rules.
	keyword := tx("Umbuchung REWE Haushaltsgeld", "", -200)
	flagged := tx("whatever", "", -50)
	flagged.IsTransfer = true

	out := c.Categorize([]models.Transaction{keyword, flagged})
	assert.Equal(t, CategoryTransfer, out[0].Category)
	assert.Equal(t, CategoryTransfer, out[1].Category)
}

func TestLearnedMappingsBeatRules(t *testing.T) {
	learned := NewLearnedTable([]LearnedMapping{
		{Merchant: "Rewe", Category: CategoryHousehold},
	})
	c := New(log.New(io.Discard), WithLearned(learned))

	out := c.Categorize([]models.Transaction{tx("REWE SAGT DANKE", "", -23.45)})
	assert.Equal(t, CategoryHousehold, out[0].Category)
	assert.Equal(t, models.SourceLearned, out[0].CategorySource)
}

func TestLearnedLookupVariations(t *testing.T) {
	table := NewLearnedTable([]LearnedMapping{
		{Merchant: "Stadtwerke Musterstadt GmbH", Category: CategoryUtilities},
		{Merchant: "Boulderhalle", Category: CategoryEntertainment},
	})

	// Exact normalized match survives punctuation noise.
	cat, ok := table.Lookup("stadtwerke musterstadt gmbh", "", "")
	require.True(t, ok)
	assert.Equal(t, CategoryUtilities, cat)

	// Key contained in the normalized description.
	cat, ok = table.Lookup("", "", "Lastschrift BOULDERHALLE Mitgliedsbeitrag")
	require.True(t, ok)
	assert.Equal(t, CategoryEntertainment, cat)

	// Legal suffix stripped on the learned side.
	cat, ok = table.Lookup("Stadtwerke Musterstadt", "", "")
	require.True(t, ok)
	assert.Equal(t, CategoryUtilities, cat)

	// Payment-processor prefix stripped on the transaction side.
	cat, ok = table.Lookup("PayPal Boulderhalle", "", "")
	require.True(t, ok)
	assert.Equal(t, CategoryEntertainment, cat)

	_, ok = table.Lookup("Unbekannter Laden", "", "")
	assert.False(t, ok)
}

func TestSourceCategoryTranslation(t *testing.T) {
	c := New(log.New(io.Discard))

	in := tx("Dauerauftrag 4711", "", -30)
	in.RawTransaction.Category = "Sparen & Anlegen"
	in.Subcategory = "Wertpapiere"

	out := c.Categorize([]models.Transaction{in})
	assert.Equal(t, CategoryInvestment, out[0].Category)
	assert.Equal(t, models.SourceRule, out[0].CategorySource)
}

func TestBareSourceCategoryTranslation(t *testing.T) {
	c := New(log.New(io.Discard))

	in := tx("Dauerauftrag 4711", "", -30)
	in.RawTransaction.Category = "Mobilität"

	out := c.Categorize([]models.Transaction{in})
	assert.Equal(t, CategoryTransport, out[0].Category)
}

func TestFallbacks(t *testing.T) {
	c := New(log.New(io.Discard))

	// Untranslatable source category is kept as-is.
	withSource := tx("XYZZY 123", "", -5)
	withSource.RawTransaction.Category = "frobnication"

	// Nothing at all ends up Other with the source left unset so the AI
	// fallback can pick it up.
	blank := tx("XYZZY 123", "", -5)

	out := c.Categorize([]models.Transaction{withSource, blank})
	assert.Equal(t, "Frobnication", out[0].Category)
	assert.Equal(t, models.SourceRule, out[0].CategorySource)
	assert.Equal(t, CategoryOther, out[1].Category)
	assert.Empty(t, out[1].CategorySource)
}

func TestRuleMerchantCapitalizationFallback(t *testing.T) {
	c := New(log.New(io.Discard))
	out := c.Categorize([]models.Transaction{tx("LIEFERANDO.DE Bestellung", "", -19.90)})

	assert.Equal(t, CategoryRestaurants, out[0].Category)
	assert.Equal(t, "Lieferando", out[0].Merchant)
}

func TestNormalizeMerchant(t *testing.T) {
	assert.Equal(t, "rewe sagt danke", NormalizeMerchant("REWE*SAGT-DANKE!!"))
	assert.Equal(t, "paypal spotify", NormalizeMerchant("  PayPal  (Spotify)  "))
	assert.Equal(t, "", NormalizeMerchant("***"))
}

func TestCompileRulesRejectsUnknownCategory(t *testing.T) {
	_, err := CompileRules([]RuleSpec{{Pattern: "x", Category: "Nonsense"}})
	assert.Error(t, err)

	_, err = CompileRules([]RuleSpec{{Pattern: "(", Category: CategoryOther}})
	assert.Error(t, err)
}
