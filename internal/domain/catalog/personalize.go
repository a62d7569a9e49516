package catalog

import (
	"slices"
	"sort"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

const (
	skinToneBest    = 95
	skinToneAvoid   = 30
	skinToneDefault = 70

	// Skin tone scores closer than this fall back to personality ordering.
	skinToneTieBand = 10
)

var styleCategories = map[string][]Category{
	"natural": {CategoryLips, CategoryEyes, CategoryFace, CategoryCheeks},
	"bold":    {CategoryLips, CategoryEyes},
	"minimal": {CategoryFace, CategoryLips},
}

// MatchesStyle reports whether a category belongs to a style. Styles without a category
// mapping match nothing.
func MatchesStyle(style string, category Category) bool {
	return slices.Contains(styleCategories[style], category)
}

// SkinToneMatch scores a colour against analysis recommendations.
func SkinToneMatch(color string, result skintone.Result) int {
	switch {
	case slices.Contains(result.Recommendations.BestColors, color):
		return skinToneBest
	case slices.Contains(result.Recommendations.AvoidColors, color):
		return skinToneAvoid
	default:
		return skinToneDefault
	}
}

// Personalize filters products by style, colour and budget and ranks what is left.
func Personalize(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !MatchesStyle(c.Style, p.Category) {
			continue
		}
		if len(c.Colors) > 0 && !slices.Contains(c.Colors, p.Color) {
			continue
		}
		if p.Price > c.Budget {
			continue
		}
		if c.SkinTone != nil {
			p.SkinToneMatch = SkinToneMatch(p.Color, *c.SkinTone)
		} else {
			p.SkinToneMatch = 0
		}
		out = append(out, p)
	}

	if c.SkinTone == nil {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PersonalityMatch > out[j].PersonalityMatch
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if diff := a.SkinToneMatch - b.SkinToneMatch; diff > skinToneTieBand || diff < -skinToneTieBand {
			return a.SkinToneMatch > b.SkinToneMatch
		}
		return a.PersonalityMatch > b.PersonalityMatch
	})
	return out
}
