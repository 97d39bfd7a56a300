package categorizer

// Canonical category vocabulary. Every categorization outcome maps into
// this closed set.
const (
	CategoryRent          = "Rent"
	CategoryGroceries     = "Groceries"
	CategoryRestaurants   = "Restaurants"
	CategoryTransport     = "Transport"
	CategoryUtilities     = "Utilities"
	CategoryInsurance     = "Insurance"
	CategoryHealth        = "Health"
	CategoryEntertainment = "Entertainment"
	CategorySubscriptions = "Subscriptions"
	CategoryShopping      = "Shopping"
	CategoryClothing      = "Clothing"
	CategoryHousehold     = "Household"
	CategoryTravel        = "Travel"
	CategoryEducation     = "Education"
	CategoryFees          = "Fees"
	CategoryGifts         = "Gifts"
	CategoryOther         = "Other"
	CategoryIncome        = "Income"
	CategorySavings       = "Savings"
	CategoryInvestment    = "Investment"
	CategoryTransfer      = "Transfer"
)

// Categories lists the full vocabulary in display order.
var Categories = []string{
	CategoryRent, CategoryGroceries, CategoryRestaurants, CategoryTransport,
	CategoryUtilities, CategoryInsurance, CategoryHealth, CategoryEntertainment,
	CategorySubscriptions, CategoryShopping, CategoryClothing, CategoryHousehold,
	CategoryTravel, CategoryEducation, CategoryFees, CategoryGifts, CategoryOther,
	CategoryIncome, CategorySavings, CategoryInvestment, CategoryTransfer,
}

// IsKnownCategory reports whether c belongs to the canonical vocabulary.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}
