package transfers

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
)

func testDetector() *Detector {
	return New(log.New(io.Discard))
}

func tx(desc string, amount float64, day int, account string) models.Transaction {
	return models.FromRaw(models.RawTransaction{
		Date:                 time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
		Description:          desc,
		Amount:               amount,
		Currency:             "EUR",
		ReferenceAccountName: account,
	})
}

func TestPairsSameDayTransferLegs(t *testing.T) {
	out := tx("Transfer to Wise", -50, 1, "N26")
	in := tx("From N26", 50, 1, "Wise")

	txs, pairs := testDetector().Detect([]models.Transaction{out, in})

	require.Len(t, pairs, 1)
	assert.Equal(t, txs[0].ID, pairs[0].OutgoingID)
	assert.Equal(t, txs[1].ID, pairs[0].IncomingID)
	assert.InDelta(t, 50, pairs[0].Amount, 0.001)

	for _, result := range txs {
		assert.Equal(t, categorizer.CategoryTransfer, result.Category)
		assert.True(t, result.IsTransfer)
	}
	assert.False(t, txs[0].IsExcluded, "expense leg stays counted")
	assert.True(t, txs[1].IsExcluded, "income leg never counts toward income")
	assert.Equal(t, txs[1].ID, txs[0].DoubleBookingMatch)
	assert.Equal(t, txs[0].ID, txs[1].DoubleBookingMatch)
}

func TestUnpairedIncomeStillExcluded(t *testing.T) {
	in := tx("Transfer from Sparkonto", 120, 3, "Giro")

	txs, pairs := testDetector().Detect([]models.Transaction{in})

	assert.Empty(t, pairs)
	assert.True(t, txs[0].IsExcluded)
	assert.Equal(t, categorizer.CategoryTransfer, txs[0].Category)
}

func TestNoPairAcrossDates(t *testing.T) {
	out := tx("Transfer to Wise", -50, 1, "N26")
	in := tx("From N26", 50, 2, "Wise")

	txs, pairs := testDetector().Detect([]models.Transaction{out, in})

	assert.Empty(t, pairs)
	assert.Empty(t, txs[0].DoubleBookingMatch)
	assert.True(t, txs[1].IsExcluded)
}

func TestAmountToleranceBoundsPairing(t *testing.T) {
	out := tx("Transfer to Wise", -50.00, 1, "N26")
	near := tx("From N26", 50.01, 1, "Wise")
	far := tx("From N26", 50.20, 1, "Wise")

	_, pairs := testDetector().Detect([]models.Transaction{out, near, far})
	require.Len(t, pairs, 1)
	assert.InDelta(t, 50.00, pairs[0].Amount, 0.001)

	for _, p := range pairs {
		assert.LessOrEqual(t, absDiff(p.Amount, 50.01), 0.011)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSourceFlaggedTransfer(t *testing.T) {
	flagged := models.FromRaw(models.RawTransaction{
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:     -30,
		IsTransfer: true,
	})

	txs, _ := testDetector().Detect([]models.Transaction{flagged})
	assert.Equal(t, categorizer.CategoryTransfer, txs[0].Category)
	assert.False(t, txs[0].IsExcluded, "expense leg is never excluded")
}

func TestOwnIBANCounterparty(t *testing.T) {
	out := models.FromRaw(models.RawTransaction{
		Date:             time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Description:      "Dauerauftrag Sparen",
		Amount:           -200,
		RecipientIBAN:    "DE02120300000000202051",
		ReferenceAccount: "DE89370400440532013000",
	})
	other := models.FromRaw(models.RawTransaction{
		Date:             time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Description:      "Zins",
		Amount:           1.23,
		ReferenceAccount: "DE02120300000000202051",
	})

	txs, _ := testDetector().Detect([]models.Transaction{out, other})
	assert.True(t, txs[0].IsTransfer, "counterparty IBAN is one of our own accounts")
	assert.False(t, txs[1].IsTransfer, "plain interest credit is not a transfer")
}

func TestOrdinaryRowsUntouched(t *testing.T) {
	groceries := tx("REWE SAGT DANKE", -23.45, 2, "Giro")

	txs, pairs := testDetector().Detect([]models.Transaction{groceries})
	assert.Empty(t, pairs)
	assert.False(t, txs[0].IsTransfer)
	assert.False(t, txs[0].IsExcluded)
	assert.NotEqual(t, categorizer.CategoryTransfer, txs[0].Category)
}
