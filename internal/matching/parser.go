package matching

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"property-matching/internal/models"
)

// Locale holds the vocabulary the query parser recognizes.
type Locale struct {
	CurrencyTokens []string
	ThousandTokens []string
	RoomWords      []string
	SurfaceUnits   []string
	TypeWords      map[string]models.PropertyType
}

// DefaultLocale merges English and French vocabularies.
func DefaultLocale() Locale {
	return Locale{
		CurrencyTokens: []string{"€", "euros", "euro", "eur"},
		ThousandTokens: []string{"k€", "keur", "k euros", "k"},
		RoomWords: []string{
			"bedrooms", "bedroom", "beds", "bed", "rooms", "room",
			"chambres", "chambre", "pièces", "pièce", "pieces", "piece",
		},
		SurfaceUnits: []string{"m²", "m2", "sqm"},
		TypeWords: map[string]models.PropertyType{
			"apartment":    models.PropertyTypeApartment,
			"apartments":   models.PropertyTypeApartment,
			"flat":         models.PropertyTypeApartment,
			"flats":        models.PropertyTypeApartment,
			"appartement":  models.PropertyTypeApartment,
			"appartements": models.PropertyTypeApartment,
			"house":        models.PropertyTypeHouse,
			"houses":       models.PropertyTypeHouse,
			"maison":       models.PropertyTypeHouse,
			"maisons":      models.PropertyTypeHouse,
			"studio":       models.PropertyTypeStudio,
			"studios":      models.PropertyTypeStudio,
			"villa":        models.PropertyTypeVilla,
			"villas":       models.PropertyTypeVilla,
			"loft":         models.PropertyTypeLoft,
			"lofts":        models.PropertyTypeLoft,
			"duplex":       models.PropertyTypeDuplex,
			"triplex":      models.PropertyTypeTriplex,
			"penthouse":    models.PropertyTypePenthouse,
			"penthouses":   models.PropertyTypePenthouse,
			"land":         models.PropertyTypeLand,
			"plot":         models.PropertyTypeLand,
			"terrain":      models.PropertyTypeLand,
			"commercial":   models.PropertyTypeCommercial,
			"shop":         models.PropertyTypeCommercial,
			"commerce":     models.PropertyTypeCommercial,
			"office":       models.PropertyTypeOffice,
			"offices":      models.PropertyTypeOffice,
			"bureau":       models.PropertyTypeOffice,
			"bureaux":      models.PropertyTypeOffice,
		},
	}
}

// QueryParser turns free text into a partial SearchCriteria. It never fails.
type QueryParser struct {
	priceRe   *regexp.Regexp
	thousands map[string]bool
	roomsRe   *regexp.Regexp
	surfaceRe *regexp.Regexp
	typeWords map[string]models.PropertyType
	gazetteer *Gazetteer
}

func NewQueryParser(locale Locale, gazetteer *Gazetteer) *QueryParser {
	thousands := make(map[string]bool, len(locale.ThousandTokens))
	for _, tok := range locale.ThousandTokens {
		thousands[strings.ToLower(tok)] = true
	}

	units := append(append([]string{}, locale.ThousandTokens...), locale.CurrencyTokens...)

	typeWords := make(map[string]models.PropertyType, len(locale.TypeWords))
	for word, t := range locale.TypeWords {
		typeWords[foldText(word)] = t
	}

	return &QueryParser{
		// amount starting on a word boundary; interior spaces only between thousands groups
		priceRe:   regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+|\d+)\s*(` + alternation(units) + `)`),
		thousands: thousands,
		roomsRe:   regexp.MustCompile(`(?i)(\d+)[\s-]*(?:` + alternation(locale.RoomWords) + `)(?:[^\pL\pN]|$)`),
		surfaceRe: regexp.MustCompile(`(?i)(\d+)\s*(?:` + alternation(locale.SurfaceUnits) + `)(?:[^\pL\pN]|$)`),
		typeWords: typeWords,
		gazetteer: gazetteer,
	}
}

// alternation quotes tokens and orders them longest first.
func alternation(tokens []string) string {
	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(tok)))
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}

func (p *QueryParser) Parse(text string) models.SearchCriteria {
	var criteria models.SearchCriteria
	lower := strings.ToLower(text)

	if price, ok := p.priceCeiling(lower); ok {
		criteria.PriceMax = &price
	}

	if m := p.roomsRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			criteria.BedroomsMin = &n
		}
	}

	if m := p.surfaceRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			criteria.SurfaceMin = &n
		}
	}

	for _, token := range tokenize(text) {
		if t, ok := p.typeWords[token]; ok {
			criteria.PropertyType = t
			break
		}
	}

	if city, ok := p.gazetteer.FindCity(text); ok {
		criteria.Location = city
	}

	return criteria
}

// priceCeiling takes the largest amount when several are mentioned.
func (p *QueryParser) priceCeiling(lower string) (int64, bool) {
	var best int64
	found := false
	for _, loc := range p.priceRe.FindAllStringSubmatchIndex(lower, -1) {
		if !wordEnd(lower, loc[1]) {
			continue
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, lower[loc[2]:loc[3]])
		amount, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || amount <= 0 {
			continue
		}
		if p.thousands[lower[loc[4]:loc[5]]] {
			if amount > math.MaxInt64/1000 {
				continue
			}
			amount *= 1000
		}
		if !found || amount > best {
			best = amount
			found = true
		}
	}
	return best, found
}

// wordEnd reports whether s has no letter or digit at byte offset i.
func wordEnd(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
