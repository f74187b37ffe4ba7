package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Backends historically sent size and milk names without prices, so the
// normalizer infers them when no override supplies one. Kept as isolated
// pure functions with a documented fallback order so they stay independently
// testable and swappable.

var (
	largeSizeUpcharge = decimal.NewFromFloat(2.5)
	unknownSizeStep   = decimal.NewFromFloat(0.5)
	milkUpcharge      = decimal.NewFromInt(20)
	defaultAddOnPrice = decimal.NewFromFloat(0.5)
	defaultBasePrice  = decimal.NewFromFloat(4.5)
)

// SizePriceModifier infers a size upcharge from its name. Fallback order:
// a name containing "large" gets the fixed upcharge, "medium" and "small"
// get zero, anything unrecognized gets an index-based increment.
func SizePriceModifier(name string, index int) decimal.Decimal {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "large"):
		return largeSizeUpcharge
	case strings.Contains(n, "medium"), strings.Contains(n, "small"):
		return decimal.Zero
	default:
		return unknownSizeStep.Mul(decimal.NewFromInt(int64(index)))
	}
}

// MilkPrice infers the milk surcharge: the house default and oat are free,
// everything else gets the standard upcharge.
func MilkPrice(name string) decimal.Decimal {
	n := strings.ToLower(name)
	if strings.Contains(n, "normal") || strings.Contains(n, "oat") {
		return decimal.Zero
	}
	return milkUpcharge
}
