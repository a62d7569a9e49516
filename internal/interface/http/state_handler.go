package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

type viewRequest struct {
	Tab              *string `json:"tab"`
	ShowCart         *bool   `json:"showCart"`
	ShowSkinAnalyzer *bool   `json:"showSkinAnalyzer"`
}

type selectRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type skinToneRequest struct {
	Undertone string `json:"undertone" binding:"required"`
	Depth     string `json:"depth" binding:"required"`
	Hex       string `json:"hex" binding:"required"`
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	Items  []cart.Item `json:"items"`
	Totals cart.Totals `json:"totals"`
}

// GetState returns the shopper's storefront state.
func (h *Handler) GetState(c *gin.Context) {
	userID, email := currentUser(c)
	state, err := h.state.Load(c.Request.Context(), userID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetView toggles the active tab and the cart and analyzer panels.
func (h *Handler) SetView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	action := appstate.SetView{ShowCart: req.ShowCart, ShowSkinAnalyzer: req.ShowSkinAnalyzer}
	if req.Tab != nil {
		tab := appstate.Tab(*req.Tab)
		action.Tab = &tab
	}
	h.dispatch(c, action)
}

// SelectProduct focuses a product in the 3D viewer.
func (h *Handler) SelectProduct(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(c, appstate.SelectProduct{Product: product})
}

// GetPreferences returns the saved shopping preferences.
func (h *Handler) GetPreferences(c *gin.Context) {
	userID, email := currentUser(c)
	state, err := h.state.Load(c.Request.Context(), userID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state.Preferences)
}

// UpdatePreferences replaces the shopping preferences.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var prefs preferences.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		invalidRequest(c, err)
		return
	}
	if tone := prefs.SkinTone; tone != nil {
		result, err := checkedSkinTone(skinToneRequest{Undertone: string(tone.Undertone), Depth: string(tone.Depth), Hex: tone.Hex})
		if err != nil {
			respondError(c, err)
			return
		}
		prefs.SkinTone = &result
	}
	userID, email := currentUser(c)
	state, err := h.state.Dispatch(c.Request.Context(), userID, email, appstate.SetPreferences{Preferences: prefs})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state.Preferences)
}

// ApplySkinTone merges an analysis result into the preferences.
func (h *Handler) ApplySkinTone(c *gin.Context) {
	var req skinToneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	result, err := checkedSkinTone(req)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, email := currentUser(c)
	state, err := h.state.Dispatch(c.Request.Context(), userID, email, appstate.ApplySkinTone{Result: result})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state.Preferences)
}

// checkedSkinTone rebuilds a client-supplied skin tone from its labels, so derived fields
// such as recommendations and confidence never come from the request.
func checkedSkinTone(req skinToneRequest) (skintone.Result, error) {
	if _, ok := skintone.ParseUndertone(req.Undertone); !ok {
		return skintone.Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown undertone "+req.Undertone, nil)
	}
	if _, ok := skintone.ParseDepth(req.Depth); !ok {
		return skintone.Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown depth "+req.Depth, nil)
	}
	if _, ok := skintone.ParseHex(req.Hex); !ok {
		return skintone.Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "hex must look like #rrggbb", nil)
	}
	return skintone.Reconstruct(req.Hex, req.Depth, req.Undertone), nil
}

// GetCart returns the cart lines and totals.
func (h *Handler) GetCart(c *gin.Context) {
	userID, email := currentUser(c)
	state, err := h.state.Load(c.Request.Context(), userID, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{Items: state.Cart, Totals: state.Totals})
}

// AddCartItem adds a product to the cart, merging with an existing line.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	product, err := h.catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	item, err := cart.NewItem(product, req.Size, req.Quantity)
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), err))
		return
	}
	h.dispatchCart(c, appstate.AddToCart{Item: item})
}

// UpdateCartItem sets the quantity of a line. Zero removes it.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if req.Quantity < 0 {
		respondError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "quantity cannot be negative", nil))
		return
	}
	h.dispatchCart(c, appstate.UpdateQuantity{ProductID: req.ProductID, Size: req.Size, Quantity: req.Quantity})
}

// RemoveCartItem deletes one line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	size := c.Query("size")
	if size == "" {
		invalidRequest(c, errMissingSize)
		return
	}
	h.dispatchCart(c, appstate.RemoveFromCart{ProductID: c.Param("productId"), Size: size})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	h.dispatchCart(c, appstate.ClearCart{})
}

func (h *Handler) dispatch(c *gin.Context, action appstate.Action) {
	userID, email := currentUser(c)
	state, err := h.state.Dispatch(c.Request.Context(), userID, email, action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) dispatchCart(c *gin.Context, action appstate.Action) {
	userID, email := currentUser(c)
	state, err := h.state.Dispatch(c.Request.Context(), userID, email, action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{Items: state.Cart, Totals: state.Totals})
}
