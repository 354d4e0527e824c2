package models

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood   Category = "Food"
	CategoryTravel Category = "Travel"
	CategoryRent   Category = "Rent"
	CategoryOther  Category = "Other"
)

// Categories lists all valid categories.
var Categories = []Category{CategoryFood, CategoryTravel, CategoryRent, CategoryOther}

// ParseCategory returns the matching category, or false if s is not one
// of the known values.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
