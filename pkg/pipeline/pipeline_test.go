package pipeline

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
)

const sampleCSV = `Date,Description,Amount,Account Name
2024-05-01,Transfer to Wise,-50.00,N26
2024-05-01,From N26,50.00,Wise
2024-05-03,REWE SAGT DANKE,-23.45,N26
2024-05-04,Gehalt April,2500.00,N26`

func newTestSession(opts ...Option) *Session {
	return NewSession(log.New(io.Discard), opts...)
}

func findByDescription(t *testing.T, txs []models.Transaction, needle string) *models.Transaction {
	t.Helper()
	for i := range txs {
		if strings.Contains(txs[i].Description, needle) {
			return &txs[i]
		}
	}
	t.Fatalf("no transaction with description containing %q", needle)
	return nil
}

func TestProcessEndToEnd(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)

	// Ordering: most recent first.
	assert.Equal(t, "Gehalt April", result.Transactions[0].Description)

	outLeg := findByDescription(t, result.Transactions, "Transfer to Wise")
	inLeg := findByDescription(t, result.Transactions, "From N26")

	assert.Equal(t, categorizer.CategoryTransfer, outLeg.Category)
	assert.Equal(t, categorizer.CategoryTransfer, inLeg.Category)
	assert.False(t, outLeg.IsExcluded)
	assert.True(t, inLeg.IsExcluded)
	assert.Equal(t, inLeg.ID, outLeg.DoubleBookingMatch)
	assert.Equal(t, outLeg.ID, inLeg.DoubleBookingMatch)
	require.Len(t, result.Pairs, 1)

	groceries := findByDescription(t, result.Transactions, "REWE")
	assert.Equal(t, categorizer.CategoryGroceries, groceries.Category)
	assert.Equal(t, "REWE", groceries.Merchant)

	salary := findByDescription(t, result.Transactions, "Gehalt")
	assert.Equal(t, categorizer.CategoryIncome, salary.Category)
	assert.Equal(t, models.TypeIncome, salary.Type)

	// Sign normalization holds across the whole batch.
	for _, tx := range result.Transactions {
		assert.GreaterOrEqual(t, tx.Amount, 0.0)
	}
}

func TestTransferExclusionInvariant(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	for _, tx := range result.Transactions {
		if tx.Category == categorizer.CategoryTransfer && tx.Type == models.TypeIncome {
			assert.True(t, tx.IsExcluded)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	groceries := findByDescription(t, result.Transactions, "REWE")
	result.ApplyOverrides([]CategoryOverride{
		{ID: groceries.ID, Category: categorizer.CategoryHousehold, Source: models.SourceAI},
		{ID: "no-such-id", Category: categorizer.CategoryOther},
	})

	groceries = findByDescription(t, result.Transactions, "REWE")
	assert.Equal(t, categorizer.CategoryHousehold, groceries.Category)
	assert.Equal(t, models.SourceAI, groceries.CategorySource)
}

func TestSummarizeExcludesTransfers(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	summary := Summarize(result.Transactions)
	assert.InDelta(t, 2500, summary.TotalIncome, 0.001)
	assert.InDelta(t, 23.45, summary.TotalExpenses, 0.001)

	for _, ct := range summary.ByCategory {
		assert.NotEqual(t, categorizer.CategoryTransfer, ct.Category)
	}
}

func TestAnonymizationDisabled(t *testing.T) {
	csv := "Date,Description,Amount,Recipient\n2024-05-01,Miete,-850.00,Erika Musterfrau\n2024-05-02,x,-1.00,y\n"

	result, err := newTestSession(WithAnonymization(false)).Process([]byte(csv), "export.csv")
	require.NoError(t, err)

	rent := findByDescription(t, result.Transactions, "Miete")
	assert.Equal(t, "Erika Musterfrau", rent.Recipient)
	assert.Empty(t, result.Mappings)
}

func TestAnonymizationEnabledByDefault(t *testing.T) {
	csv := "Date,Description,Amount,Recipient\n2024-05-01,Miete,-850.00,Erika Musterfrau\n2024-05-02,x,-1.00,ALDI SUED\n"

	result, err := newTestSession().Process([]byte(csv), "export.csv")
	require.NoError(t, err)

	rent := findByDescription(t, result.Transactions, "Miete")
	assert.True(t, strings.HasPrefix(rent.Recipient, "Person_"), "got %q", rent.Recipient)
	require.Len(t, result.Mappings, 1)

	aldi := findByDescription(t, result.Transactions, "x")
	assert.Equal(t, "ALDI SUED", aldi.Recipient)
}

func TestLearnedMappingsFlowThrough(t *testing.T) {
	session := newTestSession(WithLearnedMappings([]categorizer.LearnedMapping{
		{Merchant: "REWE", Category: categorizer.CategoryHousehold},
	}))

	result, err := session.Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	groceries := findByDescription(t, result.Transactions, "REWE")
	assert.Equal(t, categorizer.CategoryHousehold, groceries.Category)
	assert.Equal(t, models.SourceLearned, groceries.CategorySource)
}

func TestFileLevelErrorsAbort(t *testing.T) {
	_, err := newTestSession().Process([]byte("garbage"), "export.pdf")
	assert.Error(t, err)

	_, err = newTestSession().Process([]byte("Date,Amount\n"), "empty.csv")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "doubleBookingMatch")
}

func TestWriteJSON(t *testing.T) {
	result, err := newTestSession().Process([]byte(sampleCSV), "export.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"transactions"`)
}
