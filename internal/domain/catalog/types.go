package catalog

import "github.com/yanqian/ar-shop/internal/domain/skintone"

// Category groups products by where they are applied.
type Category string

const (
	CategoryLips   Category = "lips"
	CategoryEyes   Category = "eyes"
	CategoryFace   Category = "face"
	CategoryCheeks Category = "cheeks"
)

// Product is a sellable catalog entry. Prices are whole rupees.
type Product struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Price            int64    `json:"price"`
	Category         Category `json:"category"`
	Color            string   `json:"color"`
	Sizes            []string `json:"size"`
	Model3D          string   `json:"model3d"`
	Image            string   `json:"image"`
	Description      string   `json:"description"`
	PersonalityMatch int      `json:"personalityMatch"`
	SkinToneMatch    int      `json:"skinToneMatch,omitempty"`
	Brand            string   `json:"brand"`
	Rating           float64  `json:"rating"`
	Reviews          int      `json:"reviews"`
}

// Sort orders supported by Apply.
const (
	SortRecommended = "recommended"
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortRating      = "rating"
	SortPopular     = "popular"
)

// FilterAll disables a brand or category filter.
const FilterAll = "all"

// Query narrows and orders a listing.
type Query struct {
	Brand    string `form:"brand" json:"brand"`
	Category string `form:"category" json:"category"`
	Sort     string `form:"sort" json:"sort"`
}

// Criteria drives personalized ranking.
type Criteria struct {
	Style    string
	Colors   []string
	Budget   int64
	SkinTone *skintone.Result
}

// Listing is the response shape for catalog queries.
type Listing struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Brands     []string  `json:"brands"`
	Categories []string  `json:"categories"`
}
