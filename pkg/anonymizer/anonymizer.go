package anonymizer

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/models"
)

const redacted = "[REDACTED]"

var (
	ibanRegex  = regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`)
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+\d{7,15}\b|\b0\d{2,4}[\s/-]\d{5,9}\b`)
)

// Anonymizer replaces personally identifying values with stable pseudonyms
// while leaving known businesses untouched. One Anonymizer owns one Store;
// the store is reset at the start of every batch.
type Anonymizer struct {
	logger     *log.Logger
	store      *Store
	businesses []string
}

// New returns an Anonymizer over the given store using the default business
// list.
func New(logger *log.Logger, store *Store) *Anonymizer {
	return &Anonymizer{logger: logger, store: store, businesses: DefaultBusinesses}
}

// SetBusinesses replaces the known-business list (configuration override).
func (a *Anonymizer) SetBusinesses(businesses []string) {
	lowered := make([]string, 0, len(businesses))
	for _, b := range businesses {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			lowered = append(lowered, b)
		}
	}
	a.businesses = lowered
}

// Store exposes the batch mapping store for reverse lookups.
func (a *Anonymizer) Store() *Store {
	return a.store
}

// Passthrough normalizes the batch without touching any field. Same output
// shape as Anonymize with an empty mapping list, for users who opt out.
func (a *Anonymizer) Passthrough(raws []models.RawTransaction) ([]models.Transaction, []models.AnonymizationMapping) {
	txs := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		txs = append(txs, models.FromRaw(raw))
	}
	return txs, nil
}

// Anonymize scrubs the whole batch atomically: the store is reset first so
// pseudonyms never leak across batches. It never fails; anything it cannot
// classify degrades to a generic redaction marker.
func (a *Anonymizer) Anonymize(raws []models.RawTransaction) ([]models.Transaction, []models.AnonymizationMapping) {
	a.store.Reset()

	// First pass: collect personal counterparty names so they can also be
	// scrubbed out of free-text narration below.
	personalNames := make([]string, 0)
	seen := make(map[string]bool)
	for _, raw := range raws {
		name := strings.TrimSpace(raw.Recipient)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		if !IsBusiness(name, a.businesses) {
			personalNames = append(personalNames, name)
		}
	}

	txs := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		raw.Recipient = a.anonymizeName(raw.Recipient)
		raw.RecipientIBAN = a.anonymizeIBAN(raw.RecipientIBAN)
		raw.ReferenceAccount = a.anonymizeAccount(raw.ReferenceAccount)
		raw.ReferenceAccountName = a.anonymizeAccountName(raw.ReferenceAccountName)
		raw.Description = a.scrubText(raw.Description, personalNames)
		txs = append(txs, models.FromRaw(raw))
	}

	mappings := a.store.Mappings()
	a.logger.Debug("anonymized batch", "transactions", len(txs), "mappings", len(mappings))
	return txs, mappings
}

// anonymizeName pseudonymizes a counterparty unless it is a known business.
func (a *Anonymizer) anonymizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || IsBusiness(name, a.businesses) {
		return name
	}
	if existing, ok := a.store.Lookup(name); ok {
		return existing
	}
	return a.store.Put(name, a.store.NextCode("Person_", models.MappingName), models.MappingName)
}

// anonymizeIBAN keeps the country code and the last four characters and
// masks everything between.
func (a *Anonymizer) anonymizeIBAN(iban string) string {
	iban = strings.ReplaceAll(strings.TrimSpace(iban), " ", "")
	if iban == "" {
		return ""
	}
	if existing, ok := a.store.Lookup(iban); ok {
		return existing
	}
	if len(iban) < 8 {
		return a.store.Put(iban, redacted, models.MappingIBAN)
	}
	masked := iban[:2] + strings.Repeat("*", len(iban)-6) + iban[len(iban)-4:]
	return a.store.Put(iban, masked, models.MappingIBAN)
}

// anonymizeAccount maps an account identifier to a sequential Acc_ code.
func (a *Anonymizer) anonymizeAccount(account string) string {
	account = strings.TrimSpace(account)
	if account == "" {
		return ""
	}
	if existing, ok := a.store.Lookup(account); ok {
		return existing
	}
	return a.store.Put(account, a.store.NextCode("Acc_", models.MappingAccount), models.MappingAccount)
}

// anonymizeAccountName keeps bank-product names (they identify the bank,
// not the user) and pseudonymizes anything that looks personal.
func (a *Anonymizer) anonymizeAccountName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || IsBusiness(name, a.businesses) {
		return name
	}
	if existing, ok := a.store.Lookup(name); ok {
		return existing
	}
	return a.store.Put(name, a.store.NextCode("Acc_", models.MappingAccount), models.MappingAccount)
}

// scrubText replaces IBANs, emails, phone numbers and collected personal
// names inside free-text narration.
func (a *Anonymizer) scrubText(text string, personalNames []string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	text = ibanRegex.ReplaceAllStringFunc(text, a.anonymizeIBAN)
	text = emailRegex.ReplaceAllStringFunc(text, func(m string) string {
		if existing, ok := a.store.Lookup(m); ok {
			return existing
		}
		at := strings.IndexByte(m, '@')
		if at < 1 {
			return a.store.Put(m, redacted, models.MappingEmail)
		}
		masked := m[:1] + "***" + m[at:]
		return a.store.Put(m, masked, models.MappingEmail)
	})
	text = phoneRegex.ReplaceAllStringFunc(text, func(m string) string {
		if existing, ok := a.store.Lookup(m); ok {
			return existing
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, m)
		if len(digits) < 4 {
			return a.store.Put(m, redacted, models.MappingPhone)
		}
		return a.store.Put(m, "***"+digits[len(digits)-4:], models.MappingPhone)
	})

	// Whole-word, case-insensitive replacement of personal names that were
	// seen as counterparties; catches the same person inside narration.
	for _, name := range personalNames {
		pseudonym := a.anonymizeName(name)
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			a.logger.Debug("skipping unscannable name", "error", err)
			continue
		}
		text = re.ReplaceAllString(text, pseudonym)
	}
	return text
}
