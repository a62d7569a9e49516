package skintone

import (
	"fmt"
	"time"
)

// Undertone is the coarse colour cast of the sampled skin.
type Undertone string

// Depth is the coarse lightness of the sampled skin.
type Depth string

const (
	UndertoneWarm    Undertone = "warm"
	UndertoneCool    Undertone = "cool"
	UndertoneNeutral Undertone = "neutral"
)

const (
	DepthFair   Depth = "fair"
	DepthLight  Depth = "light"
	DepthMedium Depth = "medium"
	DepthTan    Depth = "tan"
	DepthDeep   Depth = "deep"
)

// ParseUndertone validates a stored or user supplied undertone label.
func ParseUndertone(raw string) (Undertone, bool) {
	switch u := Undertone(raw); u {
	case UndertoneWarm, UndertoneCool, UndertoneNeutral:
		return u, true
	default:
		return "", false
	}
}

// ParseDepth validates a stored or user supplied depth label.
func ParseDepth(raw string) (Depth, bool) {
	switch d := Depth(raw); d {
	case DepthFair, DepthLight, DepthMedium, DepthTan, DepthDeep:
		return d, true
	default:
		return "", false
	}
}

// RGB is an averaged colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Recommendations is derived from undertone and depth only.
type Recommendations struct {
	BestColors      []string `json:"bestColors"`
	AvoidColors     []string `json:"avoidColors"`
	FoundationShade string   `json:"foundationShade"`
}

// Result is the output of one classification pass.
type Result struct {
	Undertone       Undertone       `json:"undertone"`
	Depth           Depth           `json:"depth"`
	Hex             string          `json:"hex"`
	RGB             RGB             `json:"rgb"`
	Confidence      float64         `json:"confidence"`
	Recommendations Recommendations `json:"recommendations"`
	Samples         int             `json:"samples"`
}

// Frame is an RGBA pixel grid, row-major with a top-left origin.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int) Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Frame{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// Validate checks the buffer length against the declared dimensions.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame dimensions must be positive, got %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * 4; len(f.Pix) != want {
		return fmt.Errorf("frame buffer has %d bytes, want %d", len(f.Pix), want)
	}
	return nil
}

// Fill paints every pixel with the given colour and full opacity.
func (f Frame) Fill(r, g, b uint8) {
	for i := 0; i+3 < len(f.Pix); i += 4 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
		f.Pix[i+3] = 0xff
	}
}

// Set writes one pixel. Out-of-bounds coordinates are ignored.
func (f Frame) Set(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 4
	if i+3 >= len(f.Pix) {
		return
	}
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, 0xff
}

// Analysis wraps a classification with bookkeeping for callers.
type Analysis struct {
	ID          string    `json:"id"`
	Result      Result    `json:"result"`
	SnapshotKey string    `json:"snapshotKey,omitempty"`
	Demo        bool      `json:"demo"`
	AnalyzedAt  time.Time `json:"analyzedAt"`
}

// AnalyzeOptions tunes AnalyzeFrame.
type AnalyzeOptions struct {
	SaveSnapshot bool
}

// ProgressFunc receives percentages in [0, 100].
type ProgressFunc func(percent int)
