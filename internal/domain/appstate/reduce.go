package appstate

import (
	"slices"

	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
)

// Reduce computes the next state. The input state is never modified.
func Reduce(state State, action Action) State {
	next := state.Clone()
	switch a := action.(type) {
	case Hydrate:
		next.Preferences = a.Preferences.Clone()
		next.Cart = slices.Clone(a.Cart)
		if next.Cart == nil {
			next.Cart = []cart.Item{}
		}
	case AddToCart:
		next.Cart = cart.Add(next.Cart, a.Item)
	case UpdateQuantity:
		next.Cart = cart.SetQuantity(next.Cart, a.ProductID, a.Size, a.Quantity)
	case RemoveFromCart:
		next.Cart = cart.Remove(next.Cart, a.ProductID, a.Size)
	case ClearCart:
		next.Cart = []cart.Item{}
	case SelectProduct:
		next.SelectedProductID = a.Product.ID
		next.ActiveTab = TabViewer3D
	case SetPreferences:
		next.Preferences = a.Preferences.Clone()
	case ApplySkinTone:
		next.Preferences = preferences.ApplyAnalysis(next.Preferences, a.Result)
		next.ShowSkinAnalyzer = false
	case SetView:
		if a.Tab != nil {
			next.ActiveTab = *a.Tab
		}
		if a.ShowCart != nil {
			next.ShowCart = *a.ShowCart
		}
		if a.ShowSkinAnalyzer != nil {
			next.ShowSkinAnalyzer = *a.ShowSkinAnalyzer
		}
	case Reset:
		next = Initial(state.UserID, state.Email)
	}
	next.Totals = cart.Summarize(next.Cart)
	return next
}
