// internal/models/criteria.go
package models

type SortKey string

const (
	SortRelevance     SortKey = "relevance"
	SortPriceAsc      SortKey = "price_asc"
	SortPriceDesc     SortKey = "price_desc"
	SortSurfaceDesc   SortKey = "surface_desc"
	SortDateDesc      SortKey = "date_desc"
	SortPricePerM2Asc SortKey = "price_per_m2_asc"
	SortCompatibility SortKey = "compatibility"
)

func (k SortKey) Valid() bool {
	switch k {
	case "", SortRelevance, SortPriceAsc, SortPriceDesc, SortSurfaceDesc,
		SortDateDesc, SortPricePerM2Asc, SortCompatibility:
		return true
	}
	return false
}

type GeoRadius struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	RadiusKm  float64 `json:"radiusKm"`
}

// SearchCriteria is a conjunctive filter. The base part (prices, type, minimums,
// location) is pushed to the repository; Radius, Features, MaxPricePerM2 and
// YearBuiltMin are evaluated after enrichment.
type SearchCriteria struct {
	PriceMin      *int64       `json:"priceMin,omitempty"`
	PriceMax      *int64       `json:"priceMax,omitempty"`
	PropertyType  PropertyType `json:"propertyType,omitempty"`
	BedroomsMin   *int         `json:"bedroomsMin,omitempty"`
	BathroomsMin  *int         `json:"bathroomsMin,omitempty"`
	SurfaceMin    *int         `json:"surfaceMin,omitempty"`
	Location      string       `json:"location,omitempty"`
	Radius        *GeoRadius   `json:"radius,omitempty"`
	Features      []Feature    `json:"features,omitempty"`
	MaxPricePerM2 *float64     `json:"maxPricePerM2,omitempty"`
	YearBuiltMin  *int         `json:"yearBuiltMin,omitempty"`
	SortBy        SortKey      `json:"sortBy,omitempty"`
	Limit         int          `json:"limit,omitempty"`
	Offset        int          `json:"offset,omitempty"`
}

// Base strips everything the repository does not evaluate and caps the fetch.
func (c SearchCriteria) Base(fetchLimit int) SearchCriteria {
	return SearchCriteria{
		PriceMin:     c.PriceMin,
		PriceMax:     c.PriceMax,
		PropertyType: c.PropertyType,
		BedroomsMin:  c.BedroomsMin,
		BathroomsMin: c.BathroomsMin,
		SurfaceMin:   c.SurfaceMin,
		Location:     c.Location,
		Limit:        fetchLimit,
	}
}

// Merge returns c with every unset field taken from fallback. The price range
// is one unit: when c sets either bound, fallback contributes neither.
func (c SearchCriteria) Merge(fallback SearchCriteria) SearchCriteria {
	out := c
	if out.PriceMin == nil && out.PriceMax == nil {
		out.PriceMin, out.PriceMax = fallback.PriceMin, fallback.PriceMax
	}
	if out.PropertyType == "" {
		out.PropertyType = fallback.PropertyType
	}
	if out.BedroomsMin == nil {
		out.BedroomsMin = fallback.BedroomsMin
	}
	if out.BathroomsMin == nil {
		out.BathroomsMin = fallback.BathroomsMin
	}
	if out.SurfaceMin == nil {
		out.SurfaceMin = fallback.SurfaceMin
	}
	if out.Location == "" {
		out.Location = fallback.Location
	}
	if out.Radius == nil {
		out.Radius = fallback.Radius
	}
	if len(out.Features) == 0 {
		out.Features = fallback.Features
	}
	if out.MaxPricePerM2 == nil {
		out.MaxPricePerM2 = fallback.MaxPricePerM2
	}
	if out.YearBuiltMin == nil {
		out.YearBuiltMin = fallback.YearBuiltMin
	}
	if out.SortBy == "" {
		out.SortBy = fallback.SortBy
	}
	if out.Limit == 0 {
		out.Limit = fallback.Limit
	}
	if out.Offset == 0 {
		out.Offset = fallback.Offset
	}
	return out
}
