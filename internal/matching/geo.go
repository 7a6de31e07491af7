package matching

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"property-matching/internal/models"
)

const EarthRadiusKm = 6371.0

type Coordinates struct {
	Latitude  float64 `json:"lat" mapstructure:"lat"`
	Longitude float64 `json:"lng" mapstructure:"lng"`
}

// DistanceKm is the Haversine great-circle distance on a 6371 km sphere.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// DefaultCities covers the Riviera catalog plus the largest French cities.
func DefaultCities() map[string]Coordinates {
	return map[string]Coordinates{
		"Nice":                 {43.7102, 7.2620},
		"Cannes":               {43.5528, 7.0174},
		"Antibes":              {43.5808, 7.1251},
		"Juan-les-Pins":        {43.5667, 7.1078},
		"Monaco":               {43.7384, 7.4246},
		"Menton":               {43.7747, 7.4975},
		"Grasse":               {43.6588, 6.9237},
		"Mougins":              {43.6000, 6.9950},
		"Valbonne":             {43.6411, 7.0089},
		"Cagnes-sur-Mer":       {43.6644, 7.1489},
		"Villefranche-sur-Mer": {43.7040, 7.3111},
		"Saint-Laurent-du-Var": {43.6730, 7.1900},
		"Saint-Tropez":         {43.2727, 6.6406},
		"Fréjus":               {43.4330, 6.7370},
		"Saint-Raphaël":        {43.4253, 6.7684},
		"Toulon":               {43.1242, 5.9280},
		"Marseille":            {43.2965, 5.3698},
		"Aix-en-Provence":      {43.5297, 5.4474},
		"Montpellier":          {43.6108, 3.8767},
		"Lyon":                 {45.7640, 4.8357},
		"Paris":                {48.8566, 2.3522},
		"Bordeaux":             {44.8378, -0.5792},
	}
}

// Gazetteer resolves city names to coordinates. Lookups ignore case, accents
// and punctuation. It is read-only after construction.
type Gazetteer struct {
	byKey map[string]gazetteerEntry
	// longest names first so "Saint-Laurent-du-Var" wins over a shorter prefix
	ordered []gazetteerEntry
}

type gazetteerEntry struct {
	name   string
	key    string
	coords Coordinates
}

func NewGazetteer(cities map[string]Coordinates) *Gazetteer {
	g := &Gazetteer{byKey: make(map[string]gazetteerEntry, len(cities))}
	for name, coords := range cities {
		key := foldText(name)
		if key == "" {
			continue
		}
		entry := gazetteerEntry{name: name, key: key, coords: coords}
		g.byKey[key] = entry
		g.ordered = append(g.ordered, entry)
	}
	sort.Slice(g.ordered, func(i, j int) bool {
		if len(g.ordered[i].key) != len(g.ordered[j].key) {
			return len(g.ordered[i].key) > len(g.ordered[j].key)
		}
		return g.ordered[i].key < g.ordered[j].key
	})
	return g
}

// Geocode tries the whole text, then its first comma component, then any
// known city appearing as a whole phrase inside the text.
func (g *Gazetteer) Geocode(locationText string) (Coordinates, bool) {
	if g == nil {
		return Coordinates{}, false
	}
	if entry, ok := g.byKey[foldText(locationText)]; ok {
		return entry.coords, true
	}
	if first, _, found := strings.Cut(locationText, ","); found {
		if entry, ok := g.byKey[foldText(first)]; ok {
			return entry.coords, true
		}
	}
	if name, ok := g.FindCity(locationText); ok {
		return g.byKey[foldText(name)].coords, true
	}
	return Coordinates{}, false
}

// FindCity returns the canonical name of the city mentioned earliest in text.
func (g *Gazetteer) FindCity(text string) (string, bool) {
	if g == nil {
		return "", false
	}
	haystack := " " + foldText(text) + " "
	bestIdx := -1
	bestName := ""
	for _, entry := range g.ordered {
		idx := strings.Index(haystack, " "+entry.key+" ")
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			bestIdx = idx
			bestName = entry.name
		}
	}
	return bestName, bestIdx >= 0
}

// enrichCoordinates fills missing coordinates from the gazetteer.
func (g *Gazetteer) enrichCoordinates(p models.Property) models.Property {
	if p.HasCoordinates() {
		return p
	}
	if coords, ok := g.Geocode(p.Location); ok {
		lat, lng := coords.Latitude, coords.Longitude
		p.Latitude = &lat
		p.Longitude = &lng
	}
	return p
}

// foldText lowercases, strips diacritics and collapses anything that is not a
// letter or digit into single spaces.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	fields := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

func tokenize(s string) []string {
	return strings.Fields(foldText(s))
}
