package matching

import (
	"sort"

	"property-matching/internal/models"
)

// ComputeStats aggregates a catalog slice. An empty slice yields a zero
// summary with an empty distribution.
func ComputeStats(properties []models.Property) models.StatsSummary {
	out := models.StatsSummary{
		Count:               len(properties),
		BedroomDistribution: make(map[int]int),
	}
	if len(properties) == 0 {
		return out
	}

	prices := make([]int64, 0, len(properties))
	var priceSum, surfaceSum, ppm2Sum float64
	withSurface := 0
	for _, p := range properties {
		prices = append(prices, p.Price)
		priceSum += float64(p.Price)
		if ppm2 := p.PricePerM2(); ppm2 != nil {
			surfaceSum += float64(*p.Surface)
			ppm2Sum += *ppm2
			withSurface++
		}
		if p.Bedrooms != nil {
			out.BedroomDistribution[*p.Bedrooms]++
		}
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	n := len(prices)
	out.MinPrice = prices[0]
	out.MaxPrice = prices[n-1]
	if n%2 == 1 {
		out.MedianPrice = float64(prices[n/2])
	} else {
		out.MedianPrice = (float64(prices[n/2-1]) + float64(prices[n/2])) / 2
	}
	out.MeanPrice = priceSum / float64(n)

	if withSurface > 0 {
		meanSurface := surfaceSum / float64(withSurface)
		meanPPM2 := ppm2Sum / float64(withSurface)
		out.MeanSurface = &meanSurface
		out.MeanPricePerM2 = &meanPPM2
	}
	return out
}
