package categorizer

import (
	"sort"
	"strings"
	"unicode"
)

// merchantSuffixes are stripped when building lookup variations of a
// merchant key ("Acme GmbH" should match "acme").
var merchantSuffixes = []string{
	"gmbh", "ag", "kg", "ug", "ltd", "llc", "inc", "co", "se", "ev",
}

// processorPrefixes are payment-processor prefixes that hide the actual
// merchant ("PayPal Spotify" should match "spotify").
var processorPrefixes = []string{
	"paypal", "pp", "klarna", "sumup", "sq", "zettle", "stripe",
}

// LearnedMapping is one user-confirmed merchant -> category association
// supplied at session start.
type LearnedMapping struct {
	Merchant string `yaml:"merchant" mapstructure:"merchant"`
	Category string `yaml:"category" mapstructure:"category"`
}

// LearnedTable indexes learned mappings under normalized merchant keys.
// Keys are kept sorted so containment scans resolve deterministically.
type LearnedTable struct {
	entries map[string]string
	keys    []string
}

// NewLearnedTable builds the lookup table. Later duplicates win, matching
// the intuition that the most recent correction is the right one.
func NewLearnedTable(mappings []LearnedMapping) *LearnedTable {
	t := &LearnedTable{entries: make(map[string]string, len(mappings))}
	for _, m := range mappings {
		key := NormalizeMerchant(m.Merchant)
		if key == "" || m.Category == "" {
			continue
		}
		if _, exists := t.entries[key]; !exists {
			t.keys = append(t.keys, key)
		}
		t.entries[key] = m.Category
	}
	sort.Strings(t.keys)
	return t
}

// Len returns the number of learned keys.
func (t *LearnedTable) Len() int {
	return len(t.entries)
}

// NormalizeMerchant lowercases, strips non-alphanumeric runes and collapses
// whitespace so lookups survive formatting noise.
func NormalizeMerchant(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripVariations derives suffix/prefix-stripped forms of a normalized key.
func stripVariations(key string) []string {
	variations := []string{key}
	words := strings.Fields(key)
	if len(words) > 1 {
		if contains(merchantSuffixes, words[len(words)-1]) {
			variations = append(variations, strings.Join(words[:len(words)-1], " "))
		}
		if contains(processorPrefixes, words[0]) {
			variations = append(variations, strings.Join(words[1:], " "))
		}
	}
	return variations
}

// Lookup resolves a transaction's merchant, recipient and description
// against the learned keys: exact normalized match first, then containment
// of a learned key inside the normalized description, then stripped
// variations matched exactly or by mutual containment.
func (t *LearnedTable) Lookup(merchant, recipient, description string) (string, bool) {
	if len(t.entries) == 0 {
		return "", false
	}

	candidates := make([]string, 0, 3)
	for _, s := range []string{merchant, recipient, description} {
		if n := NormalizeMerchant(s); n != "" {
			candidates = append(candidates, n)
		}
	}

	// Exact normalized match.
	for _, c := range candidates {
		if cat, ok := t.entries[c]; ok {
			return cat, true
		}
	}

	// Learned key contained in the normalized description or counterparty.
	for _, key := range t.keys {
		for _, c := range candidates {
			if strings.Contains(c, key) {
				return t.entries[key], true
			}
		}
	}

	// Suffix/prefix-stripped variations, exact or mutually containing.
	for _, key := range t.keys {
		keyVars := stripVariations(key)
		for _, c := range candidates {
			for _, cv := range stripVariations(c) {
				for _, kv := range keyVars {
					if kv == "" || cv == "" {
						continue
					}
					if cv == kv || strings.Contains(cv, kv) || strings.Contains(kv, cv) {
						return t.entries[key], true
					}
				}
			}
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
