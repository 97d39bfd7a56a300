package parser

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return New(log.New(io.Discard))
}

const finanzguruCSV = `Buchungstag;Betrag;Beguenstigter/Auftraggeber;Verwendungszweck;IBAN;Referenzkonto;Analyse-Hauptkategorie;Analyse-Unterkategorie;Analyse-Umbuchung;Waehrung
01.03.2024;-45,67;REWE SAGT DANKE;Einkauf Filiale 123;DE89370400440532013000;DE02120300000000202051;Lebenshaltung;Lebensmittel;nein;EUR
05.03.2024;2.500,00;Acme GmbH;Gehalt Februar;;DE02120300000000202051;Einkommen;;nein;EUR
03.03.2024;-12,99;Netflix International;Abo 03/24;;DE02120300000000202051;Abonnements;;nein;EUR
;;;;;;;;;
bad-date;-1,00;X;Y;;;;;nein;EUR
06.03.2024;kaputt;X;Y;;;;;nein;EUR`

func TestProcessBytesDelimited(t *testing.T) {
	rows, err := testParser().ProcessBytes([]byte(finanzguruCSV), "export.csv")
	require.NoError(t, err)

	// Malformed and empty rows are dropped, not errors.
	require.Len(t, rows, 3)

	// Most recent first.
	assert.Equal(t, "2024-03-05", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-03-03", rows[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", rows[2].Date.Format("2006-01-02"))

	salary := rows[0]
	assert.Equal(t, 2500.0, salary.Amount)
	assert.Equal(t, "Acme GmbH", salary.Recipient)
	assert.Equal(t, "Einkommen", salary.Category)
	assert.Equal(t, "EUR", salary.Currency)

	groceries := rows[2]
	assert.Equal(t, -45.67, groceries.Amount)
	assert.Equal(t, "REWE SAGT DANKE", groceries.Recipient)
	assert.Equal(t, "Lebensmittel", groceries.Subcategory)
	assert.Equal(t, "DE89370400440532013000", groceries.RecipientIBAN)
	assert.Equal(t, "DE02120300000000202051", groceries.ReferenceAccount)
	assert.Equal(t, "Einkauf Filiale 123", groceries.RawData["verwendungszweck"])
}

func TestProcessBytesIdempotent(t *testing.T) {
	p := testParser()
	first, err := p.ProcessBytes([]byte(finanzguruCSV), "export.csv")
	require.NoError(t, err)
	second, err := p.ProcessBytes([]byte(finanzguruCSV), "export.csv")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcessBytesGenericHeaders(t *testing.T) {
	csv := "Date,Description,Amount,Currency\n2024-05-01,Coffee,-3.50,EUR\n2024-05-02,Refund,10.00,USD\n"
	rows, err := testParser().ProcessBytes([]byte(csv), "generic.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Refund", rows[0].Description)
	assert.Equal(t, "USD", rows[0].Currency)
	assert.Equal(t, -3.50, rows[1].Amount)
}

func TestProcessBytesSlugFallback(t *testing.T) {
	csv := "Weird-Datum-Col;Irgendein Betrag;Zweck-Feld\n01.02.2024;-5,00;Test\n"
	rows, err := testParser().ProcessBytes([]byte(csv), "odd.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, -5.0, rows[0].Amount)
	assert.Equal(t, "Test", rows[0].Description)
}

func TestProcessBytesOFX(t *testing.T) {
	ofx := `OFXHEADER:100
DATA:OFXSGML

<OFX>
<BANKMSGSRSV1>
<CURDEF>EUR
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240301120000
<TRNAMT>-45.67
<FITID>abc1
<NAME>REWE MARKT
<MEMO>Einkauf
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240305
<TRNAMT>2500.00
<FITID>abc2
<MEMO>Gehalt
</STMTTRN>
</BANKTRANLIST>
</BANKMSGSRSV1>
</OFX>`
	rows, err := testParser().ProcessBytes([]byte(ofx), "export.ofx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2500.0, rows[0].Amount)
	assert.Equal(t, "Gehalt", rows[0].Description)
	assert.Equal(t, -45.67, rows[1].Amount)
	assert.Equal(t, "REWE MARKT", rows[1].Recipient)
	assert.Equal(t, "EUR", rows[1].Currency)
}

func TestProcessBytesErrors(t *testing.T) {
	p := testParser()

	_, err := p.ProcessBytes([]byte("whatever"), "export.pdf")
	assert.Error(t, err)

	_, err = p.ProcessBytes([]byte("Date,Amount\n"), "empty.csv")
	assert.Error(t, err)

	_, err = p.ProcessBytes([]byte("Date,Amount\nbad,worse\n"), "all-dropped.csv")
	assert.Error(t, err)

	// Modern xlsx workbooks get a descriptive error, not a decode failure.
	_, err = p.ProcessBytes([]byte{0x50, 0x4b, 0x03, 0x04}, "umsaetze.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatOFX, DetectFormat([]byte("<OFX><STMTTRN>"), "data.txt"))
	assert.Equal(t, FormatSpreadsheet, DetectFormat(nil, "Umsaetze.XLS"))
	assert.Equal(t, FormatDelimited, DetectFormat(nil, "export.csv"))
	assert.Equal(t, FormatUnknown, DetectFormat(nil, "export.pdf"))
	assert.Equal(t, FormatUnknown, DetectFormat(nil, "umsaetze.xlsx"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter("a;b;c"))
	assert.Equal(t, ',', sniffDelimiter("a,b,c"))
	assert.Equal(t, '\t', sniffDelimiter("a\tb\tc"))
}
