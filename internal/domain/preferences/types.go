package preferences

import (
	"time"

	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

const (
	DefaultStyle  = "natural"
	DefaultSize   = "standard"
	DefaultBudget = int64(16600)

	// Budget slider bounds, in rupees.
	MinBudget  = int64(4150)
	MaxBudget  = int64(83000)
	BudgetStep = int64(4150)
)

var (
	Styles    = []string{"natural", "bold", "minimal", "glam", "vintage"}
	Sizes     = []string{"travel", "standard", "full", "jumbo"}
	Occasions = []string{"daily", "work", "evening", "special", "wedding", "party", "date"}
	Palette   = []string{"red", "pink", "brown", "black", "nude", "coral", "berry", "gold", "bronze", "clear", "beige"}
)

// Preferences is what a shopper told us about their taste.
type Preferences struct {
	Style     string           `json:"style"`
	Colors    []string         `json:"colors"`
	Size      string           `json:"size"`
	Budget    int64            `json:"budget"`
	Occasions []string         `json:"occasion"`
	SkinTone  *skintone.Result `json:"skinTone,omitempty"`
}

// Defaults returns a fresh default preference set.
func Defaults() Preferences {
	return Preferences{
		Style:     DefaultStyle,
		Colors:    []string{"pink", "brown"},
		Size:      DefaultSize,
		Budget:    DefaultBudget,
		Occasions: []string{"daily", "evening"},
	}
}

// Criteria projects preferences onto catalog ranking input.
func (p Preferences) Criteria() catalog.Criteria {
	return catalog.Criteria{
		Style:    p.Style,
		Colors:   p.Colors,
		Budget:   p.Budget,
		SkinTone: p.SkinTone,
	}
}

// Profile mirrors a user_profiles row.
type Profile struct {
	UserID            int64
	Email             string
	SkinToneHex       *string
	SkinToneDepth     *string
	SkinToneUndertone *string
	StylePreferences  []string
	ColorPreferences  []string
	BudgetMin         *int64
	BudgetMax         *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfileUpdate carries the columns to change. Nil fields are left untouched.
type ProfileUpdate struct {
	Email             *string
	SkinToneHex       *string
	SkinToneDepth     *string
	SkinToneUndertone *string
	StylePreferences  []string
	ColorPreferences  []string
	BudgetMin         *int64
	BudgetMax         *int64
}

// Apply merges u into p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.SkinToneHex != nil {
		p.SkinToneHex = u.SkinToneHex
	}
	if u.SkinToneDepth != nil {
		p.SkinToneDepth = u.SkinToneDepth
	}
	if u.SkinToneUndertone != nil {
		p.SkinToneUndertone = u.SkinToneUndertone
	}
	if u.StylePreferences != nil {
		p.StylePreferences = append([]string(nil), u.StylePreferences...)
	}
	if u.ColorPreferences != nil {
		p.ColorPreferences = append([]string(nil), u.ColorPreferences...)
	}
	if u.BudgetMin != nil {
		p.BudgetMin = u.BudgetMin
	}
	if u.BudgetMax != nil {
		p.BudgetMax = u.BudgetMax
	}
}
