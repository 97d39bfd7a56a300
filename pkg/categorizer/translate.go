package categorizer

import "strings"

// defaultTranslations maps source-provided category (and
// "category/subcategory") keys to the canonical vocabulary. Keys are
// lowercased. Combined keys take precedence over bare category keys.
var defaultTranslations = map[string]string{
	"wohnen & haushalt/miete":       CategoryRent,
	"wohnen & haushalt/strom":       CategoryUtilities,
	"wohnen & haushalt/internet":    CategoryUtilities,
	"wohnen & haushalt":             CategoryHousehold,
	"lebensmittel":                  CategoryGroceries,
	"lebenshaltung/lebensmittel":    CategoryGroceries,
	"lebenshaltung/drogerie":        CategoryHousehold,
	"lebenshaltung":                 CategoryGroceries,
	"essen & trinken":               CategoryRestaurants,
	"gastronomie":                   CategoryRestaurants,
	"mobilität":                     CategoryTransport,
	"mobilitaet":                    CategoryTransport,
	"auto & verkehr":                CategoryTransport,
	"gesundheit":                    CategoryHealth,
	"gesundheit & wellness":         CategoryHealth,
	"versicherungen":                CategoryInsurance,
	"versicherung":                  CategoryInsurance,
	"freizeit & unterhaltung":       CategoryEntertainment,
	"unterhaltung":                  CategoryEntertainment,
	"abos & verträge":               CategorySubscriptions,
	"abos & vertraege":              CategorySubscriptions,
	"abonnements":                   CategorySubscriptions,
	"shopping":                      CategoryShopping,
	"einkaufen":                     CategoryShopping,
	"kleidung":                      CategoryClothing,
	"reisen":                        CategoryTravel,
	"urlaub & reisen":               CategoryTravel,
	"bildung":                       CategoryEducation,
	"gebühren":                      CategoryFees,
	"gebuehren":                     CategoryFees,
	"bankgebühren":                  CategoryFees,
	"geschenke":                     CategoryGifts,
	"geschenke & spenden":           CategoryGifts,
	"einkommen":                     CategoryIncome,
	"gehalt":                        CategoryIncome,
	"einnahmen":                     CategoryIncome,
	"sparen":                        CategorySavings,
	"sparen & anlegen/sparen":       CategorySavings,
	"sparen & anlegen/wertpapiere":  CategoryInvestment,
	"sparen & anlegen":              CategorySavings,
	"geldanlage":                    CategoryInvestment,
	"umbuchung":                     CategoryTransfer,
	"umbuchungen":                   CategoryTransfer,
	"transfer":                      CategoryTransfer,
	"sonstiges":                     CategoryOther,
	"groceries":                     CategoryGroceries,
	"food & drink":                  CategoryRestaurants,
	"bars & restaurants":            CategoryRestaurants,
	"transport & car":               CategoryTransport,
	"subscriptions & donations":     CategorySubscriptions,
	"media & electronics":           CategoryShopping,
	"household & utilities":         CategoryUtilities,
	"leisure & entertainment":       CategoryEntertainment,
	"healthcare & drug stores":      CategoryHealth,
	"insurances & finances":         CategoryInsurance,
	"salary":                        CategoryIncome,
	"income":                        CategoryIncome,
	"savings":                       CategorySavings,
	"education":                     CategoryEducation,
	"travel & holidays":             CategoryTravel,
	"shopping & services":           CategoryShopping,
}

// TranslateSource resolves a source category/subcategory pair into the
// canonical vocabulary: the combined "category/subcategory" key first, then
// the bare category.
func TranslateSource(table map[string]string, category, subcategory string) (string, bool) {
	category = strings.ToLower(strings.TrimSpace(category))
	subcategory = strings.ToLower(strings.TrimSpace(subcategory))
	if category == "" {
		return "", false
	}
	if subcategory != "" {
		if c, ok := table[category+"/"+subcategory]; ok {
			return c, true
		}
	}
	if c, ok := table[category]; ok {
		return c, true
	}
	return "", false
}
