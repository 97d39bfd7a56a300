package parser

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// Format identifies the physical file format of an export.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
	FormatOFX         Format = "ofx"
	FormatUnknown     Format = ""
)

// Parser turns raw export bytes into canonical raw transactions. Bank
// vocabularies are injected so callers can extend the built-in set from
// configuration.
type Parser struct {
	logger   *log.Logger
	profiles []Profile
}

// New returns a Parser with the built-in bank profiles.
func New(logger *log.Logger) *Parser {
	return NewWithProfiles(logger, DefaultProfiles())
}

// NewWithProfiles returns a Parser using the given header vocabularies.
func NewWithProfiles(logger *log.Logger, profiles []Profile) *Parser {
	return &Parser{logger: logger, profiles: profiles}
}

// DetectFormat sniffs the physical format from content and filename. OFX is
// detected by content markers regardless of extension.
func DetectFormat(data []byte, filename string) Format {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	upper := strings.ToUpper(string(head))
	if strings.Contains(upper, "<OFX>") || strings.Contains(upper, "<STMTTRN>") {
		return FormatOFX
	}

	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xls"):
		return FormatSpreadsheet
	case strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".tsv"):
		return FormatDelimited
	}
	return FormatUnknown
}

// ProcessBytes parses one export file into raw transactions, most recent
// first. File-level problems (unsupported format, zero usable rows) are
// errors; malformed rows are dropped.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.RawTransaction, error) {
	format := DetectFormat(data, filename)
	p.logger.Debug("detected file format", "format", format, "filename", filename)

	var (
		rows []models.RawTransaction
		err  error
	)
	switch format {
	case FormatDelimited:
		rows, err = p.parseDelimited(data)
	case FormatSpreadsheet:
		rows, err = p.parseSpreadsheet(data)
	case FormatOFX:
		rows, err = p.parseOFX(data)
	default:
		// The workbook reader only handles legacy BIFF; a misleading decode
		// failure helps nobody.
		if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
			return nil, fmt.Errorf("xlsx workbooks are not supported, export %q as xls, csv or ofx instead", filename)
		}
		return nil, fmt.Errorf("unsupported file format for %q", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no transactions found in %s", filename)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})

	p.logger.Info("parsed file", "filename", filename, "format", format, "transactions", len(rows))
	return rows, nil
}

// transferFlagValues are the cell values treated as a source-asserted
// transfer flag.
var transferFlagValues = map[string]bool{
	"ja": true, "yes": true, "true": true, "1": true, "wahr": true, "x": true,
}

// buildRow maps one record onto the canonical shape using a resolved column
// map. Returns false when the row must be dropped (all empty, or date/amount
// missing or unparseable).
func (p *Parser) buildRow(headers, record []string, cols columnMap) (models.RawTransaction, bool) {
	empty := true
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}
	if empty {
		return models.RawTransaction{}, false
	}

	cell := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(cell(colDate))
	if err != nil {
		p.logger.Debug("dropping row with bad date", "value", cell(colDate), "error", err)
		return models.RawTransaction{}, false
	}
	amount, err := ParseAmount(cell(colAmount))
	if err != nil {
		p.logger.Debug("dropping row with bad amount", "value", cell(colAmount), "error", err)
		return models.RawTransaction{}, false
	}

	currency := strings.ToUpper(cell(colCurrency))
	if currency == "" {
		currency = "EUR"
	}

	raw := models.RawTransaction{
		Date:                 date,
		Description:          cell(colDescription),
		Amount:               amount,
		Currency:             currency,
		Category:             cell(colCategory),
		Subcategory:          cell(colSubcategory),
		Recipient:            cell(colRecipient),
		RecipientIBAN:        cell(colRecipientIBAN),
		ReferenceAccount:     cell(colReferenceAccount),
		ReferenceAccountName: cell(colReferenceAccountName),
		IsTransfer:           transferFlagValues[strings.ToLower(cell(colIsTransfer))],
		RawData:              make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		if i < len(record) {
			raw.RawData[normalizeHeader(h)] = strings.TrimSpace(record[i])
		}
	}
	return raw, true
}

// resolveColumns fingerprints the header row, falling back to the slug guess
// when no profile fits.
func (p *Parser) resolveColumns(headers []string) (columnMap, error) {
	if profile, cols, ok := detectProfile(headers, p.profiles); ok {
		p.logger.Debug("matched bank profile", "profile", profile.Name)
		return cols, nil
	}
	if cols, ok := guessColumns(headers); ok {
		p.logger.Debug("no profile matched, using slug header guess")
		return cols, nil
	}
	return nil, fmt.Errorf("unrecognized header row: %s", strings.Join(headers, ", "))
}

func bytesToString(data []byte) string {
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
}
