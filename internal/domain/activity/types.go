package activity

import "time"

// Actions recorded for AR and analysis sessions.
const (
	ActionSkinToneAnalyzed = "skin_tone_analyzed"
	ActionProductSelected  = "product_selected"
)

// SkinToneAnalysisProductID is the pseudo product id used for analysis sessions.
const SkinToneAnalysisProductID = "skin-tone-analysis"

// Event is one logged session interaction.
type Event struct {
	ID        string         `json:"id"`
	UserID    int64          `json:"userId"`
	ProductID string         `json:"productId"`
	Action    string         `json:"action"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
