package categorizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one (pattern, category) pair. Merchant, when set, is the cleaned
// display name attached on a match; otherwise the matched text is
// capitalized as a fallback.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
	Merchant string
}

// RuleSpec is the configuration form of a Rule.
type RuleSpec struct {
	Pattern  string `yaml:"pattern" mapstructure:"pattern"`
	Category string `yaml:"category" mapstructure:"category"`
	Merchant string `yaml:"merchant,omitempty" mapstructure:"merchant"`
}

// CompileRules turns rule specs into evaluable rules, preserving order.
func CompileRules(specs []RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		re, err := regexp.Compile(`(?i)` + spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", spec.Pattern, err)
		}
		if !IsKnownCategory(spec.Category) {
			return nil, fmt.Errorf("rule %q maps to unknown category %q", spec.Pattern, spec.Category)
		}
		rules = append(rules, Rule{Pattern: re, Category: spec.Category, Merchant: spec.Merchant})
	}
	return rules, nil
}

// DefaultRuleSpecs is the built-in merchant rule table, evaluated in order.
// First match wins. Overridable from configuration.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{Pattern: `\brewe\b`, Category: CategoryGroceries, Merchant: "REWE"},
		{Pattern: `\bedeka\b`, Category: CategoryGroceries, Merchant: "EDEKA"},
		{Pattern: `\baldi\b`, Category: CategoryGroceries, Merchant: "ALDI"},
		{Pattern: `\blidl\b`, Category: CategoryGroceries, Merchant: "Lidl"},
		{Pattern: `\bnetto\b`, Category: CategoryGroceries, Merchant: "Netto"},
		{Pattern: `\bpenny\b`, Category: CategoryGroceries, Merchant: "Penny"},
		{Pattern: `\bkaufland\b`, Category: CategoryGroceries, Merchant: "Kaufland"},
		{Pattern: `rossmann|dm[\s-]?drogerie`, Category: CategoryHousehold},
		{Pattern: `\bmiete\b|kaltmiete|warmmiete|\brent\b|hausverwaltung`, Category: CategoryRent},
		{Pattern: `netflix`, Category: CategorySubscriptions, Merchant: "Netflix"},
		{Pattern: `spotify`, Category: CategorySubscriptions, Merchant: "Spotify"},
		{Pattern: `disney\s?(plus|\+)|\bdazn\b|amazon\s?prime|audible`, Category: CategorySubscriptions},
		{Pattern: `amazon|amzn`, Category: CategoryShopping, Merchant: "Amazon"},
		{Pattern: `zalando`, Category: CategoryClothing, Merchant: "Zalando"},
		{Pattern: `h&m|\bc&a\b|deichmann|primark`, Category: CategoryClothing},
		{Pattern: `\bikea\b`, Category: CategoryHousehold, Merchant: "IKEA"},
		{Pattern: `\bobi\b|bauhaus|hornbach|toom`, Category: CategoryHousehold},
		{Pattern: `deutsche bahn|db vertrieb|db fernverkehr|flixbus|\bbvg\b|\bhvv\b|\bmvg\b`, Category: CategoryTransport},
		{Pattern: `shell|\baral\b|\besso\b|tankstelle|\bjet\b`, Category: CategoryTransport},
		{Pattern: `uber\s|uber\*|bolt\.eu|taxi`, Category: CategoryTransport},
		{Pattern: `apotheke|pharmacy|\barzt\b|zahnarzt|praxis|klinik`, Category: CategoryHealth},
		{Pattern: `techniker krankenkasse|\baok\b|barmer|\bdak\b|krankenkasse`, Category: CategoryHealth},
		{Pattern: `telekom|vodafone|\bo2\b|telefonica|1&1|1und1|congstar|mobilfunk`, Category: CategoryUtilities},
		{Pattern: `stadtwerke|vattenfall|e\.on|\benbw\b|\brwe\b|strom|\bgas\b|energie`, Category: CategoryUtilities},
		{Pattern: `allianz|\baxa\b|\bhuk\b|versicherung|insurance`, Category: CategoryInsurance},
		{Pattern: `restaurant|pizzeria|mcdonald|burger king|subway|starbucks`, Category: CategoryRestaurants},
		{Pattern: `lieferando|\bwolt\b|deliveroo|doordash`, Category: CategoryRestaurants},
		{Pattern: `\bkino\b|cinema|cinemaxx|theater|steam|playstation|nintendo`, Category: CategoryEntertainment},
		{Pattern: `hotel|airbnb|booking\.com|lufthansa|ryanair|easyjet|expedia`, Category: CategoryTravel},
		{Pattern: `\buni\b|universit|studierendenwerk|semesterbeitrag|udemy|coursera`, Category: CategoryEducation},
		{Pattern: `kontof(ü|ue)hrung|entgelt|geb(ü|ue)hr|\bfee\b`, Category: CategoryFees},
		{Pattern: `gehalt|\blohn\b|salary|payroll|\bbez(ü|ue)ge\b`, Category: CategoryIncome},
		{Pattern: `trade republic|scalable capital|sparplan|\betf\b|\bdepot\b`, Category: CategoryInvestment},
		{Pattern: `tagesgeld|festgeld|sparkonto|\bsavings\b`, Category: CategorySavings},
	}
}

// matchRules evaluates the ordered rule table against the haystack built
// from description, recipient and source category fields.
func matchRules(rules []Rule, haystack string) (category, merchant string, ok bool) {
	for _, rule := range rules {
		loc := rule.Pattern.FindString(haystack)
		if loc == "" {
			continue
		}
		merchant = rule.Merchant
		if merchant == "" {
			merchant = capitalize(loc)
		}
		return rule.Category, merchant, true
	}
	return "", "", false
}

func capitalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
