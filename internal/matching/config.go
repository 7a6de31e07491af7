package matching

import (
	"time"

	"property-matching/internal/models"
)

// MissingPreferencePolicy decides what an unset preference contributes to the
// compatibility score.
type MissingPreferencePolicy string

const (
	// MissingDrop leaves the criterion's weight out of the normalization.
	MissingDrop MissingPreferencePolicy = "drop"
	// MissingNeutral scores the criterion at the neutral value with full weight.
	MissingNeutral MissingPreferencePolicy = "neutral"
)

type Weights struct {
	Price        float64
	Location     float64
	PropertyType float64
	Surface      float64
	Bedrooms     float64
	Bathrooms    float64
	Features     float64
}

type BehaviorBonus struct {
	FavoriteTypeWeight   float64
	SearchedLocationStep float64
	SearchedLocationCap  float64
	Cap                  float64
	Scale                float64
}

type SimilarityConfig struct {
	PriceWeight      float64
	PriceTolerance   float64
	TypeWeight       float64
	SurfaceWeight    float64
	SurfaceTolerance float64
	BedroomsWeight   float64
	GeoWeight        float64
	GeoRadiusKm      float64
	MinScore         float64
	PriceBand        float64
}

type BlendWeights struct {
	Explicit      float64
	ImplicitType  float64
	ImplicitPrice float64
}

type DiversityPenalties struct {
	SameType float64
	SameCity float64
}

type ExplanationConfig struct {
	ExcellentThreshold   float64
	GoodThreshold        float64
	AttractivePriceRatio float64
	NearCeilingRatio     float64
	LargeSurface         int
	SmallSurface         int
	LimitedAmenities     int
	MaxPros              int
	MaxCons              int
	MaxAmenitiesListed   int
}

// Config is frozen at engine construction. Zero values are not defaults; start
// from DefaultConfig and override.
type Config struct {
	Weights           Weights
	MissingPreference MissingPreferencePolicy
	NeutralScore      float64
	// OverBudgetSlope scales the excess ratio subtracted from 0.5 above budget_max.
	OverBudgetSlope float64

	TypeClasses  [][]models.PropertyType
	WishFeatures map[models.Wish][]models.Feature
	Bonus        BehaviorBonus

	Similarity SimilarityConfig
	Blend      BlendWeights
	Diversity  DiversityPenalties

	ExplicitTypeVote      float64
	ImplicitPriceHeadroom float64
	MaxCandidates         int
	RecentQueries         int
	// SlowOperation is the duration above which an operation logs a warning.
	SlowOperation time.Duration

	Explanation           ExplanationConfig
	PremiumFeatures       []models.Feature
	PrimeLocationKeywords []string

	Cities map[string]Coordinates
	Locale Locale
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Price:        0.25,
			Location:     0.20,
			PropertyType: 0.15,
			Surface:      0.15,
			Bedrooms:     0.10,
			Bathrooms:    0.05,
			Features:     0.10,
		},
		MissingPreference: MissingDrop,
		NeutralScore:      0.5,
		OverBudgetSlope:   1.0,
		TypeClasses: [][]models.PropertyType{
			{
				models.PropertyTypeApartment,
				models.PropertyTypeStudio,
				models.PropertyTypeDuplex,
				models.PropertyTypeTriplex,
				models.PropertyTypePenthouse,
				models.PropertyTypeLoft,
			},
			{models.PropertyTypeHouse, models.PropertyTypeVilla},
			{models.PropertyTypeCommercial, models.PropertyTypeOffice},
		},
		WishFeatures: map[models.Wish][]models.Feature{
			models.WishGarage:    {models.FeatureGarage, models.FeatureParking},
			models.WishGarden:    {models.FeatureGarden},
			models.WishPool:      {models.FeaturePool},
			models.WishBalcony:   {models.FeatureBalcony, models.FeatureTerrace},
			models.WishFurnished: {models.FeatureFurnished},
			models.WishElevator:  {models.FeatureElevator},
		},
		Bonus: BehaviorBonus{
			FavoriteTypeWeight:   0.2,
			SearchedLocationStep: 0.02,
			SearchedLocationCap:  0.1,
			Cap:                  0.3,
			Scale:                0.1,
		},
		Similarity: SimilarityConfig{
			PriceWeight:      0.30,
			PriceTolerance:   0.20,
			TypeWeight:       0.25,
			SurfaceWeight:    0.20,
			SurfaceTolerance: 0.30,
			BedroomsWeight:   0.15,
			GeoWeight:        0.10,
			GeoRadiusKm:      10,
			MinScore:         0.3,
			PriceBand:        0.30,
		},
		Blend: BlendWeights{
			Explicit:      0.60,
			ImplicitType:  0.25,
			ImplicitPrice: 0.15,
		},
		Diversity: DiversityPenalties{
			SameType: 0.10,
			SameCity: 0.05,
		},
		ExplicitTypeVote:      10,
		ImplicitPriceHeadroom: 1.2,
		MaxCandidates:         500,
		RecentQueries:         10,
		SlowOperation:         500 * time.Millisecond,
		Explanation: ExplanationConfig{
			ExcellentThreshold:   0.8,
			GoodThreshold:        0.6,
			AttractivePriceRatio: 0.8,
			NearCeilingRatio:     0.9,
			LargeSurface:         100,
			SmallSurface:         50,
			LimitedAmenities:     3,
			MaxPros:              4,
			MaxCons:              3,
			MaxAmenitiesListed:   2,
		},
		PremiumFeatures: []models.Feature{
			models.FeaturePool,
			models.FeatureSeaView,
			models.FeatureGarden,
			models.FeatureTerrace,
			models.FeatureGarage,
			models.FeatureAirConditioning,
		},
		PrimeLocationKeywords: []string{
			"centre", "center", "downtown", "old town", "vieille ville", "vieux",
			"port", "plage", "beach", "croisette", "promenade", "seafront", "bord de mer",
		},
		Cities: DefaultCities(),
		Locale: DefaultLocale(),
	}
}
