package parser

import (
	"strings"
)

// Canonical column names every format adapter maps into.
const (
	colDate                 = "date"
	colDescription          = "description"
	colAmount               = "amount"
	colCurrency             = "currency"
	colCategory             = "category"
	colSubcategory          = "subcategory"
	colRecipient            = "recipient"
	colRecipientIBAN        = "recipientIban"
	colReferenceAccount     = "referenceAccount"
	colReferenceAccountName = "referenceAccountName"
	colIsTransfer           = "isTransfer"
)

// Profile is one bank's header vocabulary. Fields maps each canonical
// column to the header names the bank uses for it; Signature lists the
// headers distinctive enough to fingerprint the format.
type Profile struct {
	Name      string
	Fields    map[string][]string
	Signature []string
}

// DefaultProfiles returns the built-in bank vocabularies in priority order.
// The most distinctive matching profile wins; Generic is the final guess.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name: "finanzguru",
			Fields: map[string][]string{
				colDate:                 {"buchungstag", "buchungsdatum"},
				colDescription:          {"verwendungszweck"},
				colAmount:               {"betrag"},
				colCurrency:             {"waehrung", "währung"},
				colCategory:             {"analyse-hauptkategorie", "hauptkategorie"},
				colSubcategory:          {"analyse-unterkategorie", "unterkategorie"},
				colRecipient:            {"beguenstigter/auftraggeber", "begünstigter/auftraggeber"},
				colRecipientIBAN:        {"iban"},
				colReferenceAccount:     {"referenzkonto"},
				colReferenceAccountName: {"referenzkonto-name", "kontoname"},
				colIsTransfer:           {"analyse-umbuchung"},
			},
			Signature: []string{"analyse-hauptkategorie", "analyse-umbuchung", "referenzkonto", "beguenstigter/auftraggeber"},
		},
		{
			Name: "n26",
			Fields: map[string][]string{
				colDate:          {"date", "booking date", "value date"},
				colDescription:   {"payment reference"},
				colAmount:        {"amount (eur)"},
				colCategory:      {"category"},
				colRecipient:     {"payee", "partner name"},
				colRecipientIBAN: {"account number", "partner iban"},
			},
			Signature: []string{"amount (eur)", "payment reference", "payee"},
		},
		{
			Name: "dkb",
			Fields: map[string][]string{
				colDate:          {"buchungsdatum", "buchungstag"},
				colDescription:   {"verwendungszweck"},
				colAmount:        {"betrag (€)", "betrag (eur)", "betrag"},
				colRecipient:     {"zahlungsempfänger*in", "empfänger", "auftraggeber / begünstigter"},
				colRecipientIBAN: {"iban"},
			},
			Signature: []string{"betrag (€)", "zahlungsempfänger*in", "umsatztyp"},
		},
		{
			Name: "ing",
			Fields: map[string][]string{
				colDate:        {"buchung", "buchungstag"},
				colDescription: {"verwendungszweck", "buchungstext"},
				colAmount:      {"betrag"},
				colCurrency:    {"währung", "waehrung"},
				colRecipient:   {"auftraggeber/empfänger", "auftraggeber/empfaenger"},
			},
			Signature: []string{"auftraggeber/empfänger", "buchungstext", "saldo"},
		},
		{
			Name: "sparkasse",
			Fields: map[string][]string{
				colDate:             {"buchungstag", "valutadatum"},
				colDescription:      {"verwendungszweck"},
				colAmount:           {"betrag"},
				colCurrency:         {"waehrung", "währung"},
				colRecipient:        {"beguenstigter/zahlungspflichtiger", "begünstigter/zahlungspflichtiger"},
				colRecipientIBAN:    {"kontonummer/iban", "iban"},
				colReferenceAccount: {"auftragskonto"},
			},
			Signature: []string{"auftragskonto", "beguenstigter/zahlungspflichtiger", "valutadatum"},
		},
		{
			Name: "generic",
			Fields: map[string][]string{
				colDate:                 {"date", "datum", "booking date", "transaction date"},
				colDescription:          {"description", "memo", "reference", "details", "text"},
				colAmount:               {"amount", "value", "betrag"},
				colCurrency:             {"currency"},
				colCategory:             {"category"},
				colSubcategory:          {"subcategory"},
				colRecipient:            {"recipient", "payee", "counterparty", "name"},
				colRecipientIBAN:        {"iban", "account number"},
				colReferenceAccount:     {"account", "reference account"},
				colReferenceAccountName: {"account name"},
			},
			Signature: []string{"date", "amount", "description"},
		},
	}
}

// columnMap resolves canonical columns to indices in the header row.
type columnMap map[string]int

// normalizeHeader lowercases a raw header cell and strips BOM, quotes and
// outer whitespace so vocabulary lookups are stable.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.Trim(h, `"' `)
	return strings.ToLower(strings.TrimSpace(h))
}

// slugHeader turns an arbitrary header into a lowercase slug used by the
// last-resort column guess.
func slugHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// mapHeaders applies one profile to a header row. The returned score is the
// number of signature headers found; ok requires at least the date and
// amount columns to be resolvable.
func mapHeaders(headers []string, p Profile) (columnMap, int, bool) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	cols := columnMap{}
	for field, aliases := range p.Fields {
		for _, alias := range aliases {
			for i, h := range normalized {
				if h == alias {
					if _, taken := cols[field]; !taken {
						cols[field] = i
					}
				}
			}
		}
	}

	score := 0
	for _, sig := range p.Signature {
		for _, h := range normalized {
			if h == sig {
				score++
				break
			}
		}
	}

	_, hasDate := cols[colDate]
	_, hasAmount := cols[colAmount]
	return cols, score, hasDate && hasAmount
}

// guessColumns is the slug fallback when no profile matches: headers are
// slugged and matched by substring against a handful of multilingual hints.
func guessColumns(headers []string) (columnMap, bool) {
	cols := columnMap{}
	assign := func(field string, i int) {
		if _, taken := cols[field]; !taken {
			cols[field] = i
		}
	}
	for i, h := range headers {
		slug := slugHeader(h)
		switch {
		case strings.Contains(slug, "datum") || strings.Contains(slug, "date") || strings.Contains(slug, "tag"):
			assign(colDate, i)
		case strings.Contains(slug, "betrag") || strings.Contains(slug, "amount") || strings.Contains(slug, "summe") || strings.Contains(slug, "value"):
			assign(colAmount, i)
		case strings.Contains(slug, "zweck") || strings.Contains(slug, "desc") || strings.Contains(slug, "text") || strings.Contains(slug, "memo"):
			assign(colDescription, i)
		case strings.Contains(slug, "iban"):
			assign(colRecipientIBAN, i)
		case strings.Contains(slug, "empf") || strings.Contains(slug, "payee") || strings.Contains(slug, "recipient"):
			assign(colRecipient, i)
		}
	}
	_, hasDate := cols[colDate]
	_, hasAmount := cols[colAmount]
	return cols, hasDate && hasAmount
}

// detectProfile fingerprints a header row against the profile list and
// returns the best match. The generic profile only wins when nothing more
// distinctive matched.
func detectProfile(headers []string, profiles []Profile) (Profile, columnMap, bool) {
	var (
		best      Profile
		bestCols  columnMap
		bestScore = -1
	)
	for _, p := range profiles {
		cols, score, ok := mapHeaders(headers, p)
		if !ok {
			continue
		}
		if score > bestScore {
			best, bestCols, bestScore = p, cols, score
		}
	}
	return best, bestCols, bestScore >= 0
}
