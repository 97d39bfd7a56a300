package anonymizer

import "strings"

// legalSuffixes mark a counterparty as a legal entity rather than a person.
var legalSuffixes = []string{
	"gmbh", "ag", "kg", "ug", "ohg", "gbr", "e.v.", "ev",
	"ltd", "llc", "inc", "corp", "co", "plc", "sa", "se", "bv", "nv",
	"s.a.", "s.r.l.", "sarl", "oy", "ab",
}

// DefaultBusinesses is the curated list of merchant and bank substrings
// never treated as personal data. Matching is case-insensitive substring
// containment. Overridable from configuration.
var DefaultBusinesses = []string{
	"amazon", "amzn", "paypal", "netflix", "spotify", "apple", "google",
	"microsoft", "aldi", "lidl", "rewe", "edeka", "penny", "netto", "kaufland",
	"dm-drogerie", "dm drogerie", "rossmann", "ikea", "obi", "bauhaus",
	"zalando", "otto versand", "h&m", "deutsche bahn", "db vertrieb", "flixbus",
	"lufthansa", "ryanair", "easyjet", "shell", "aral", "esso", "total",
	"vodafone", "telekom", "o2", "telefonica", "1und1", "1&1", "congstar",
	"allianz", "axa", "huk", "techniker krankenkasse", "aok", "barmer",
	"stadtwerke", "vattenfall", "e.on", "enbw", "rwe",
	"mcdonald", "burger king", "subway", "starbucks", "dominos",
	"uber", "bolt", "lieferando", "wolt", "deliveroo",
	"n26", "wise", "transferwise", "revolut", "dkb", "ing-diba",
	"sparkasse", "volksbank", "commerzbank", "deutsche bank", "comdirect",
	"trade republic", "scalable capital", "klarna", "sumup", "stripe",
	"steam", "playstation", "nintendo", "disney", "sky", "dazn",
	"finanzamt", "bundesagentur", "arbeitsagentur",
}

// IsBusiness reports whether a counterparty name belongs to a known
// business or carries a legal-entity suffix. Unrecognized names default to
// personal, so the privacy-first path is anonymization.
func IsBusiness(name string, businesses []string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	for _, b := range businesses {
		if strings.Contains(lower, b) {
			return true
		}
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		for _, suffix := range legalSuffixes {
			if word == suffix || strings.TrimRight(word, ".") == strings.TrimRight(suffix, ".") {
				return true
			}
		}
	}
	return false
}
