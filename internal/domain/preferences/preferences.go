package preferences

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

// Validate rejects values the storefront does not offer.
func (p Preferences) Validate() error {
	if !slices.Contains(Styles, p.Style) {
		return fmt.Errorf("unknown style %q", p.Style)
	}
	if !slices.Contains(Sizes, p.Size) {
		return fmt.Errorf("unknown size %q", p.Size)
	}
	if p.Budget <= 0 {
		return fmt.Errorf("budget must be positive")
	}
	for _, c := range p.Colors {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("colors cannot contain blank values")
		}
	}
	for _, o := range p.Occasions {
		if !slices.Contains(Occasions, o) {
			return fmt.Errorf("unknown occasion %q", o)
		}
	}
	return nil
}

// Clone deep-copies p.
func (p Preferences) Clone() Preferences {
	out := p
	out.Colors = slices.Clone(p.Colors)
	out.Occasions = slices.Clone(p.Occasions)
	if p.SkinTone != nil {
		tone := *p.SkinTone
		tone.Recommendations.BestColors = slices.Clone(tone.Recommendations.BestColors)
		tone.Recommendations.AvoidColors = slices.Clone(tone.Recommendations.AvoidColors)
		out.SkinTone = &tone
	}
	return out
}

// ApplyAnalysis attaches an analysis result and merges its best colours into the palette.
func ApplyAnalysis(p Preferences, result skintone.Result) Preferences {
	out := p.Clone()
	tone := result
	tone.Recommendations.BestColors = slices.Clone(result.Recommendations.BestColors)
	tone.Recommendations.AvoidColors = slices.Clone(result.Recommendations.AvoidColors)
	out.SkinTone = &tone
	out.Colors = union(out.Colors, result.Recommendations.BestColors)
	return out
}

func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// FromProfile rebuilds preferences from a stored profile.
func FromProfile(profile Profile) Preferences {
	prefs := Defaults()
	if len(profile.StylePreferences) > 0 && profile.StylePreferences[0] != "" {
		prefs.Style = profile.StylePreferences[0]
	}
	if profile.ColorPreferences != nil {
		prefs.Colors = slices.Clone(profile.ColorPreferences)
	}
	if profile.BudgetMax != nil && *profile.BudgetMax > 0 {
		prefs.Budget = *profile.BudgetMax
	}
	if profile.SkinToneHex != nil && profile.SkinToneDepth != nil && profile.SkinToneUndertone != nil {
		tone := skintone.Reconstruct(*profile.SkinToneHex, *profile.SkinToneDepth, *profile.SkinToneUndertone)
		prefs.SkinTone = &tone
	}
	return prefs
}

// ToUpdate projects preferences onto profile columns.
func ToUpdate(email string, p Preferences) ProfileUpdate {
	update := ProfileUpdate{
		Email:            &email,
		StylePreferences: []string{p.Style},
		ColorPreferences: nonNil(p.Colors),
		BudgetMin:        ptr(int64(0)),
		BudgetMax:        ptr(p.Budget),
	}
	if p.SkinTone != nil {
		update.SkinToneHex = ptr(p.SkinTone.Hex)
		update.SkinToneDepth = ptr(string(p.SkinTone.Depth))
		update.SkinToneUndertone = ptr(string(p.SkinTone.Undertone))
	}
	return update
}

// AnalysisUpdate projects an analysis result onto profile columns.
func AnalysisUpdate(email string, result skintone.Result) ProfileUpdate {
	return ProfileUpdate{
		Email:             &email,
		SkinToneHex:       ptr(result.Hex),
		SkinToneDepth:     ptr(string(result.Depth)),
		SkinToneUndertone: ptr(string(result.Undertone)),
		ColorPreferences:  nonNil(result.Recommendations.BestColors),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

func ptr[T any](v T) *T {
	return &v
}
