package parser

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// sniffDelimiter picks the delimiter with the most occurrences in the header
// line. Only the header is inspected so decimal commas in data rows cannot
// skew the count.
func sniffDelimiter(headerLine string) rune {
	best, bestCount := ';', strings.Count(headerLine, ";")
	for _, d := range []rune{',', '\t'} {
		if c := strings.Count(headerLine, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// parseDelimited reads a delimited-text export: first line is the header,
// the bank vocabulary is fingerprinted from it, and every following record
// is mapped through the resolved columns.
func (p *Parser) parseDelimited(data []byte) ([]models.RawTransaction, error) {
	content := bytesToString(data)
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = sniffDelimiter(firstLine)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading delimited file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("file has no data rows")
	}

	headers := records[0]
	cols, err := p.resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RawTransaction, 0, len(records)-1)
	for i, record := range records[1:] {
		raw, ok := p.buildRow(headers, record, cols)
		if !ok {
			p.logger.Debug("skipping row", "line", i+2)
			continue
		}
		rows = append(rows, raw)
	}
	return rows, nil
}
