package appstate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
)

var addedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func line(productID, size string, price int64, qty int) cart.Item {
	return cart.Item{ProductID: productID, Name: "p" + productID, Price: price, Size: size, Quantity: qty, AddedAt: addedAt}
}

func TestReduceCartActions(t *testing.T) {
	state := Initial(1, "a@example.com")

	state = Reduce(state, AddToCart{Item: line("1", "5ml", 996, 1)})
	state = Reduce(state, AddToCart{Item: line("23", "3.5g", 2822, 1)})
	state = Reduce(state, AddToCart{Item: line("1", "5ml", 996, 2)})

	want := []cart.Item{line("1", "5ml", 996, 3), line("23", "3.5g", 2822, 1)}
	if diff := cmp.Diff(want, state.Cart); diff != "" {
		t.Fatalf("cart mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, cart.Totals{Items: 4, Price: 996*3 + 2822}, state.Totals)

	state = Reduce(state, UpdateQuantity{ProductID: "23", Size: "3.5g", Quantity: 0})
	require.Len(t, state.Cart, 1)

	state = Reduce(state, RemoveFromCart{ProductID: "1", Size: "5ml"})
	require.Empty(t, state.Cart)
	require.Equal(t, cart.Totals{}, state.Totals)

	state = Reduce(state, AddToCart{Item: line("2", "30ml", 664, 1)})
	state = Reduce(state, ClearCart{})
	require.Empty(t, state.Cart)
	require.NotNil(t, state.Cart)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(Initial(1, ""), AddToCart{Item: line("1", "5ml", 996, 1)})
	snapshot := before.Clone()

	_ = Reduce(before, AddToCart{Item: line("1", "5ml", 996, 5)})
	_ = Reduce(before, ApplySkinTone{Result: skintone.Demo()})
	_ = Reduce(before, ClearCart{})

	if diff := cmp.Diff(snapshot, before); diff != "" {
		t.Fatalf("input state mutated (-want +got):\n%s", diff)
	}
}

func TestReduceSelectProductOpensViewer(t *testing.T) {
	state := Reduce(Initial(1, ""), SelectProduct{Product: catalog.Product{ID: "17"}})
	require.Equal(t, "17", state.SelectedProductID)
	require.Equal(t, TabViewer3D, state.ActiveTab)
}

func TestReduceApplySkinToneClosesAnalyzer(t *testing.T) {
	open := true
	state := Reduce(Initial(1, ""), SetView{ShowSkinAnalyzer: &open})
	require.True(t, state.ShowSkinAnalyzer)

	state = Reduce(state, ApplySkinTone{Result: skintone.Demo()})
	require.False(t, state.ShowSkinAnalyzer)
	require.NotNil(t, state.Preferences.SkinTone)
	require.Equal(t, []string{"pink", "brown", "coral", "gold", "bronze", "red"}, state.Preferences.Colors)
}

func TestReduceSetViewAndReset(t *testing.T) {
	tab := TabARTryOn
	show := true
	state := Reduce(Initial(3, "c@example.com"), SetView{Tab: &tab, ShowCart: &show})
	require.Equal(t, TabARTryOn, state.ActiveTab)
	require.True(t, state.ShowCart)
	require.False(t, state.ShowSkinAnalyzer)

	state = Reduce(state, AddToCart{Item: line("1", "5ml", 996, 1)})
	state = Reduce(state, Reset{})
	if diff := cmp.Diff(Initial(3, "c@example.com"), state); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}
