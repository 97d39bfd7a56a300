package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/geldfluss/geldfluss/pkg/models"
)

// OFX is SGML-ish: tags are not reliably closed, so fields are extracted
// with regexes between paired markers rather than a full parser.
var (
	stmtTrnRegex = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	curDefRegex  = regexp.MustCompile(`<CURDEF>([^<\r\n]*)`)
)

func ofxField(block, tag string) string {
	r := regexp.MustCompile(fmt.Sprintf(`<%s>([^<\r\n]*)`, tag))
	if m := r.FindStringSubmatch(block); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseOFX extracts every <STMTTRN> block from a financial-exchange text
// export. DTPOSTED comes as YYYYMMDD with an optional time/zone suffix.
func (p *Parser) parseOFX(data []byte) ([]models.RawTransaction, error) {
	content := bytesToString(data)

	currency := "EUR"
	if m := curDefRegex.FindStringSubmatch(content); len(m) > 1 {
		if c := strings.TrimSpace(m[1]); c != "" {
			currency = strings.ToUpper(c)
		}
	}

	matches := stmtTrnRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no transaction blocks found")
	}

	rows := make([]models.RawTransaction, 0, len(matches))
	for _, match := range matches {
		block := match[1]

		dateStr := ofxField(block, "DTPOSTED")
		if len(dateStr) < 8 {
			p.logger.Debug("dropping block with bad date", "value", dateStr)
			continue
		}
		date, err := time.Parse("20060102", dateStr[:8])
		if err != nil {
			p.logger.Debug("dropping block with bad date", "value", dateStr, "error", err)
			continue
		}

		amount, err := ParseAmount(ofxField(block, "TRNAMT"))
		if err != nil {
			p.logger.Debug("dropping block with bad amount", "error", err)
			continue
		}

		raw := models.RawTransaction{
			Date:        date,
			Description: ofxField(block, "MEMO"),
			Amount:      amount,
			Currency:    currency,
			Recipient:   ofxField(block, "NAME"),
			RawData: map[string]string{
				"dtposted": dateStr,
				"trnamt":   ofxField(block, "TRNAMT"),
				"trntype":  ofxField(block, "TRNTYPE"),
				"memo":     ofxField(block, "MEMO"),
				"name":     ofxField(block, "NAME"),
				"fitid":    ofxField(block, "FITID"),
			},
		}
		if raw.Description == "" {
			raw.Description = raw.Recipient
		}
		rows = append(rows, raw)
	}
	return rows, nil
}
