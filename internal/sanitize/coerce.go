package sanitize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/maxpot/pkg"
)

// number coerces decoded JSON into a finite float.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !pkg.IsFinite(f) {
		return 0, false
	}
	return f, true
}

func nonNegative(v any, fallback float64) float64 {
	f, ok := number(v)
	if !ok || f < 0 {
		return fallback
	}
	return f
}

func nonNegativeInt(v any, fallback int) int {
	f, ok := number(v)
	if !ok || f < 0 {
		return fallback
	}
	return pkg.RoundInt(f)
}

func optionalNumber(v any) *float64 {
	f, ok := number(v)
	if !ok {
		return nil
	}
	f = math.Max(0, f)
	return &f
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	default:
		f, ok := number(v)
		return ok && f != 0
	}
}

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func list(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func str(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// uniqueIDs keeps the first use of every stored id and renames empty or
// repeated ones to the first free "<prefix>-<n>".
func uniqueIDs(ids []string, prefix string) {
	seen := make(map[string]bool, len(ids))
	keep := make([]bool, len(ids))
	for i, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			keep[i] = true
		}
	}
	for i := range ids {
		if keep[i] {
			continue
		}
		for n := i; ; n++ {
			candidate := fmt.Sprintf("%s-%d", prefix, n)
			if !seen[candidate] {
				ids[i] = candidate
				seen[candidate] = true
				break
			}
		}
	}
}
