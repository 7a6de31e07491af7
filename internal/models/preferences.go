// internal/models/preferences.go
package models

type Wish string

const (
	WishGarage    Wish = "has_garage"
	WishGarden    Wish = "has_garden"
	WishPool      Wish = "has_pool"
	WishBalcony   Wish = "has_balcony"
	WishFurnished Wish = "furnished"
	WishElevator  Wish = "elevator"
)

// UserPreferences are the explicit, user-edited preferences. A nil pointer or
// empty string means the criterion is not set.
type UserPreferences struct {
	BudgetMin    *int64        `json:"budgetMin,omitempty"`
	BudgetMax    *int64        `json:"budgetMax,omitempty"`
	PropertyType PropertyType  `json:"propertyType,omitempty"`
	BedroomsMin  *int          `json:"bedroomsMin,omitempty"`
	BathroomsMin *int          `json:"bathroomsMin,omitempty"`
	SurfaceMin   *int          `json:"surfaceMin,omitempty"`
	Location     string        `json:"location,omitempty"`
	Advanced     map[Wish]bool `json:"advancedCriteria,omitempty"`
}

// Wishes returns the advanced criteria set to true, in a fixed order.
func (p *UserPreferences) Wishes() []Wish {
	if p == nil {
		return nil
	}
	var out []Wish
	for _, w := range []Wish{WishGarage, WishGarden, WishPool, WishBalcony, WishFurnished, WishElevator} {
		if p.Advanced[w] {
			out = append(out, w)
		}
	}
	return out
}

func (p *UserPreferences) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.BudgetMin == nil &&
		p.BudgetMax == nil &&
		p.PropertyType == "" &&
		p.BedroomsMin == nil &&
		p.BathroomsMin == nil &&
		p.SurfaceMin == nil &&
		p.Location == "" &&
		len(p.Wishes()) == 0
}

// AsCriteria maps preferences onto catalog filters.
func (p *UserPreferences) AsCriteria() SearchCriteria {
	if p == nil {
		return SearchCriteria{}
	}
	return SearchCriteria{
		PriceMin:     p.BudgetMin,
		PriceMax:     p.BudgetMax,
		PropertyType: p.PropertyType,
		BedroomsMin:  p.BedroomsMin,
		BathroomsMin: p.BathroomsMin,
		SurfaceMin:   p.SurfaceMin,
		Location:     p.Location,
	}
}
