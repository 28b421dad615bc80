package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value returns raw as a number without rescaling. Absent, unparseable and
// non-finite values yield 0.
func Value(raw any) float64 {
	v, ok := toFloat(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Normalize converts a raw score into the 0-100 range. Absent or unparseable
// values yield 0, values in (0, 1] are treated as fractions, and everything
// else is returned as-is. The result is not rounded.
func Normalize(raw any) float64 {
	v := Value(raw)
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}

// NormalizeRounded is Normalize rounded half away from zero, for display.
func NormalizeRounded(raw any) int {
	return Round(Normalize(raw))
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
