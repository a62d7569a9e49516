package skintone

import (
	"regexp"
	"strconv"
)

var hexPattern = regexp.MustCompile(`(?i)^#?([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})$`)

// ParseHex decodes "#rrggbb" (case-insensitive, '#' optional).
func ParseHex(hex string) (RGB, bool) {
	match := hexPattern.FindStringSubmatch(hex)
	if match == nil {
		return RGB{}, false
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(match[i+1], 16, 8)
		if err != nil {
			return RGB{}, false
		}
		out[i] = uint8(v)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}, true
}

// storedConfidence is reported for results rebuilt from persisted fields.
const storedConfidence = 85

// Reconstruct rebuilds a result from the fields a profile persists. Unknown labels keep
// their raw value with empty colour lists and a "Medium Neutral" shade; an unparsable hex
// yields a black RGB.
func Reconstruct(hex, depth, undertone string) Result {
	rgb, _ := ParseHex(hex)
	u, uOK := ParseUndertone(undertone)
	d, dOK := ParseDepth(depth)

	rec := RecommendationsFor(u, d)
	if !uOK || !dOK {
		rec.FoundationShade = "Medium Neutral"
	}
	if !uOK {
		u = Undertone(undertone)
	}
	if !dOK {
		d = Depth(depth)
	}
	return Result{
		Undertone:       u,
		Depth:           d,
		Hex:             hex,
		RGB:             rgb,
		Confidence:      storedConfidence,
		Recommendations: rec,
	}
}
