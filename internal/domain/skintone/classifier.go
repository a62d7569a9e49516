package skintone

import (
	"fmt"
	"math"
	"strings"
)

// SampleHalfWidth is the half-width of the square sampling window.
const SampleHalfWidth = 50

// Classify samples the centre of the frame and classifies the skin colour found there.
// It never fails: frames without skin pixels yield the default result.
func Classify(frame Frame) Result {
	return ClassifyWindow(frame, SampleHalfWidth)
}

// ClassifyWindow is Classify with a custom sampling half-width.
func ClassifyWindow(frame Frame, halfWidth int) Result {
	width, height := frame.Width, frame.Height
	if width <= 0 || height <= 0 {
		return Demo()
	}
	centerX := width / 2
	centerY := height / 2

	var sumR, sumG, sumB, count int
	for y := centerY - halfWidth; y < centerY+halfWidth; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := centerX - halfWidth; x < centerX+halfWidth; x++ {
			if x < 0 || x >= width {
				continue
			}
			i := (y*width + x) * 4
			if i+2 >= len(frame.Pix) {
				continue
			}
			r, g, b := int(frame.Pix[i]), int(frame.Pix[i+1]), int(frame.Pix[i+2])
			if !IsSkinPixel(r, g, b) {
				continue
			}
			sumR += r
			sumG += g
			sumB += b
			count++
		}
	}
	if count == 0 {
		return Demo()
	}

	avgR := sumR / count
	avgG := sumG / count
	avgB := sumB / count
	undertone := ClassifyUndertone(avgR, avgG, avgB)
	depth := ClassifyDepth(avgR, avgG, avgB)

	return Result{
		Undertone:       undertone,
		Depth:           depth,
		Hex:             HexColor(avgR, avgG, avgB),
		RGB:             RGB{R: uint8(avgR), G: uint8(avgG), B: uint8(avgB)},
		Confidence:      Confidence(count),
		Recommendations: RecommendationsFor(undertone, depth),
		Samples:         count,
	}
}

// IsSkinPixel is a coarse RGB skin filter. The thresholds are fixed; recommendation
// fixtures depend on them.
func IsSkinPixel(r, g, b int) bool {
	maxC := max(r, g, b)
	minC := min(r, g, b)
	return r > 95 && g > 40 && b > 20 &&
		maxC-minC > 15 &&
		absInt(r-g) > 15 &&
		r > g && r > b
}

// ClassifyUndertone compares yellowness against pinkness with a margin of 10.
func ClassifyUndertone(r, g, b int) Undertone {
	yellowness := float64(r+g)/2 - float64(b)
	pinkness := float64(r+b)/2 - float64(g)
	switch {
	case yellowness > pinkness+10:
		return UndertoneWarm
	case pinkness > yellowness+10:
		return UndertoneCool
	default:
		return UndertoneNeutral
	}
}

// ClassifyDepth buckets mean brightness; thresholds are checked from lightest down.
func ClassifyDepth(r, g, b int) Depth {
	brightness := float64(r+g+b) / 3
	switch {
	case brightness > 200:
		return DepthFair
	case brightness > 160:
		return DepthLight
	case brightness > 120:
		return DepthMedium
	case brightness > 80:
		return DepthTan
	default:
		return DepthDeep
	}
}

// HexColor encodes channels as #rrggbb in lowercase.
func HexColor(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Confidence is a heuristic score, not a probability: count/100 clamped to [75, 95].
func Confidence(count int) float64 {
	return math.Min(95, math.Max(75, float64(count)/100))
}

// RecommendationsFor maps a classification to colour advice. Lists are freshly allocated.
func RecommendationsFor(undertone Undertone, depth Depth) Recommendations {
	var best, avoid []string
	switch undertone {
	case UndertoneWarm:
		best = []string{"coral", "gold", "bronze", "brown", "red"}
		avoid = []string{"pink", "silver", "blue"}
	case UndertoneCool:
		best = []string{"pink", "berry", "silver", "blue", "purple"}
		avoid = []string{"coral", "gold", "bronze"}
	case UndertoneNeutral:
		best = []string{"nude", "beige", "rose", "taupe", "mauve"}
		avoid = []string{}
	default:
		best = []string{}
		avoid = []string{}
	}
	return Recommendations{
		BestColors:      best,
		AvoidColors:     avoid,
		FoundationShade: FoundationShade(depth, undertone),
	}
}

// FoundationShade renders "<Depth> <Undertone>", e.g. "Medium Warm".
func FoundationShade(depth Depth, undertone Undertone) string {
	return capitalize(string(depth)) + " " + capitalize(string(undertone))
}

// Demo is the fixed result used when no skin pixel is found or no camera is available.
func Demo() Result {
	return Result{
		Undertone:       UndertoneWarm,
		Depth:           DepthMedium,
		Hex:             "#D4A574",
		RGB:             RGB{R: 212, G: 165, B: 116},
		Confidence:      85,
		Recommendations: RecommendationsFor(UndertoneWarm, DepthMedium),
	}
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
