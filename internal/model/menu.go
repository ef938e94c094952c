package model

// MenuItem represents a dish sold by one of the campus canteens. Menu
// items are seeded at startup and are read-only through the API.
type MenuItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"` // menu section, e.g. Beverages
	Canteen  string `json:"canteen"`

	// Price and PrepTime (minutes) are never negative.
	Price     float64 `json:"price"`
	PrepTime  int     `json:"prepTime"`
	Available bool    `json:"available"`
	Rating    float64 `json:"rating"`
	Calories  int     `json:"calories"`
	Image     string  `json:"image,omitempty"` // frontend image key
}

// MenuFilter narrows a menu listing. Empty Category and nil Available
// match every item.
type MenuFilter struct {
	Category  string
	Available *bool
}

// Match reports whether the item satisfies the filter.
func (f MenuFilter) Match(m MenuItem) bool {
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.Available != nil && m.Available != *f.Available {
		return false
	}
	return true
}
