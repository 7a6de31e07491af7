// internal/models/property.go
package models

import (
	"strings"
	"time"
)

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeStudio     PropertyType = "studio"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypeLoft       PropertyType = "loft"
	PropertyTypeDuplex     PropertyType = "duplex"
	PropertyTypeTriplex    PropertyType = "triplex"
	PropertyTypePenthouse  PropertyType = "penthouse"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeOffice     PropertyType = "office"
)

var AllPropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeStudio,
	PropertyTypeVilla,
	PropertyTypeLoft,
	PropertyTypeDuplex,
	PropertyTypeTriplex,
	PropertyTypePenthouse,
	PropertyTypeLand,
	PropertyTypeCommercial,
	PropertyTypeOffice,
}

// ParsePropertyType accepts any casing of a known type tag.
func ParsePropertyType(s string) (PropertyType, bool) {
	candidate := PropertyType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AllPropertyTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// NormalizePropertyType maps stored values onto the canonical lowercase form.
// Unknown values are kept, lowercased, so they still compare equal to each other.
func NormalizePropertyType(s string) PropertyType {
	if t, ok := ParsePropertyType(s); ok {
		return t
	}
	return PropertyType(strings.ToLower(strings.TrimSpace(s)))
}

type Feature string

const (
	FeaturePool            Feature = "pool"
	FeatureSeaView         Feature = "sea_view"
	FeatureGarage          Feature = "garage"
	FeatureGarden          Feature = "garden"
	FeatureTerrace         Feature = "terrace"
	FeatureBalcony         Feature = "balcony"
	FeatureAirConditioning Feature = "air_conditioning"
	FeatureElevator        Feature = "elevator"
	FeatureFurnished       Feature = "furnished"
	FeatureParking         Feature = "parking"
)

// Property is a catalog entry. Optional numeric fields are nil when unknown.
type Property struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Price     int64        `json:"price"`
	Type      PropertyType `json:"propertyType"`
	Bedrooms  *int         `json:"bedrooms,omitempty"`
	Bathrooms *int         `json:"bathrooms,omitempty"`
	Surface   *int         `json:"surface,omitempty"`
	Location  string       `json:"location"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	Features  []Feature    `json:"features,omitempty"`
	Available bool         `json:"available"`
	YearBuilt *int         `json:"yearBuilt,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (p Property) HasFeature(f Feature) bool {
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	return false
}

func (p Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// City and District are the first two comma-separated components of Location.
func (p Property) City() string {
	parts := splitLocation(p.Location)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func (p Property) District() string {
	parts := splitLocation(p.Location)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// PricePerM2 is nil unless surface is known and positive.
func (p Property) PricePerM2() *float64 {
	if p.Surface == nil || *p.Surface <= 0 {
		return nil
	}
	v := float64(p.Price) / float64(*p.Surface)
	return &v
}

func splitLocation(location string) []string {
	raw := strings.Split(location, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func IntPtr(v int) *int             { return &v }
func Int64Ptr(v int64) *int64       { return &v }
func Float64Ptr(v float64) *float64 { return &v }
