package appstate

import (
	"slices"

	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
)

// Tab is the storefront view currently shown.
type Tab string

const (
	TabCatalog  Tab = "catalog"
	TabViewer3D Tab = "3d-viewer"
	TabARTryOn  Tab = "ar-tryOn"
)

// ParseTab validates a tab name.
func ParseTab(raw string) (Tab, bool) {
	switch t := Tab(raw); t {
	case TabCatalog, TabViewer3D, TabARTryOn:
		return t, true
	default:
		return "", false
	}
}

// State is a shopper's storefront session.
type State struct {
	UserID            int64                   `json:"userId"`
	Email             string                  `json:"email"`
	Preferences       preferences.Preferences `json:"preferences"`
	Cart              []cart.Item             `json:"cart"`
	Totals            cart.Totals             `json:"totals"`
	SelectedProductID string                  `json:"selectedProductId,omitempty"`
	ActiveTab         Tab                     `json:"activeTab"`
	ShowCart          bool                    `json:"showCart"`
	ShowSkinAnalyzer  bool                    `json:"showSkinAnalyzer"`
}

// Initial is the state before anything is loaded.
func Initial(userID int64, email string) State {
	return State{
		UserID:      userID,
		Email:       email,
		Preferences: preferences.Defaults(),
		Cart:        []cart.Item{},
		ActiveTab:   TabCatalog,
	}
}

// Clone deep-copies s.
func (s State) Clone() State {
	out := s
	out.Preferences = s.Preferences.Clone()
	out.Cart = slices.Clone(s.Cart)
	if out.Cart == nil {
		out.Cart = []cart.Item{}
	}
	return out
}
