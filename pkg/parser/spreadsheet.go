package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// maxSpreadsheetRows caps how many rows are read from a sheet. Realistic
// exports stay far below this.
const maxSpreadsheetRows = 65535

// parseSpreadsheet reads the first sheet of an XLS export.
func (p *Parser) parseSpreadsheet(data []byte) ([]models.RawTransaction, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return p.rowsFromCells(workbook.ReadAllCells(maxSpreadsheetRows))
}

// rowsFromCells maps a sheet's cell grid onto canonical rows, treating the
// first row with more than one populated cell as the header.
func (p *Parser) rowsFromCells(records [][]string) ([]models.RawTransaction, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	// Exports sometimes carry preamble rows before the table; skip until a
	// row with more than one populated cell shows up.
	headerIdx := -1
	for i, record := range records {
		populated := 0
		for _, cell := range record {
			if cell != "" {
				populated++
			}
		}
		if populated > 1 {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || headerIdx == len(records)-1 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	headers := records[headerIdx]
	cols, err := p.resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RawTransaction, 0, len(records)-headerIdx-1)
	for i, record := range records[headerIdx+1:] {
		raw, ok := p.buildRow(headers, record, cols)
		if !ok {
			p.logger.Debug("skipping sheet row", "row", headerIdx+i+2)
			continue
		}
		rows = append(rows, raw)
	}
	return rows, nil
}
