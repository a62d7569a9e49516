package appstate

import (
	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

// Action is a state transition request.
type Action interface {
	actionName() string
}

// Hydrate replaces persisted parts of the state.
type Hydrate struct {
	Preferences preferences.Preferences
	Cart        []cart.Item
}

type AddToCart struct {
	Item cart.Item
}

// UpdateQuantity sets a line quantity; zero removes the line.
type UpdateQuantity struct {
	ProductID string
	Size      string
	Quantity  int
}

type RemoveFromCart struct {
	ProductID string
	Size      string
}

type ClearCart struct{}

// SelectProduct focuses a product and opens the 3D viewer.
type SelectProduct struct {
	Product catalog.Product
}

type SetPreferences struct {
	Preferences preferences.Preferences
}

// ApplySkinTone merges an analysis into preferences and closes the analyzer.
type ApplySkinTone struct {
	Result skintone.Result
}

// SetView toggles UI flags. Nil fields are left as they are.
type SetView struct {
	Tab              *Tab
	ShowCart         *bool
	ShowSkinAnalyzer *bool
}

// Reset returns to the initial state, as on sign-out.
type Reset struct{}

func (Hydrate) actionName() string        { return "hydrate" }
func (AddToCart) actionName() string      { return "add_to_cart" }
func (UpdateQuantity) actionName() string { return "update_quantity" }
func (RemoveFromCart) actionName() string { return "remove_from_cart" }
func (ClearCart) actionName() string      { return "clear_cart" }
func (SelectProduct) actionName() string  { return "select_product" }
func (SetPreferences) actionName() string { return "set_preferences" }
func (ApplySkinTone) actionName() string  { return "apply_skin_tone" }
func (SetView) actionName() string        { return "set_view" }
func (Reset) actionName() string          { return "reset" }

// Name reports the action name used in logs.
func Name(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}
