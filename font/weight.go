package font

import (
	"strconv"
	"strings"
)

// Weight is a CSS-style font weight, 100 through 900.
type Weight int

const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightRegular    Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// String returns the conventional weight name.
func (w Weight) String() string {
	switch w {
	case WeightThin:
		return "Thin"
	case WeightExtraLight:
		return "ExtraLight"
	case WeightLight:
		return "Light"
	case WeightRegular:
		return "Regular"
	case WeightMedium:
		return "Medium"
	case WeightSemiBold:
		return "SemiBold"
	case WeightBold:
		return "Bold"
	case WeightExtraBold:
		return "ExtraBold"
	case WeightBlack:
		return "Black"
	default:
		return strconv.Itoa(int(w))
	}
}

// parseWeight maps a filename weight token to a Weight. It accepts the
// conventional names (plus common synonyms) case-insensitively, and the
// numeric hundreds 100-900.
func parseWeight(token string) (Weight, bool) {
	switch strings.ToLower(token) {
	case "thin", "hairline":
		return WeightThin, true
	case "extralight", "ultralight":
		return WeightExtraLight, true
	case "light":
		return WeightLight, true
	case "regular", "normal", "book":
		return WeightRegular, true
	case "medium":
		return WeightMedium, true
	case "semibold", "demibold":
		return WeightSemiBold, true
	case "bold":
		return WeightBold, true
	case "extrabold", "ultrabold":
		return WeightExtraBold, true
	case "black", "heavy":
		return WeightBlack, true
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 100 && n <= 900 && n%100 == 0 {
		return Weight(n), true
	}
	return 0, false
}
