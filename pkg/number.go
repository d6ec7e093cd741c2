package pkg

import (
	"strconv"
	"strings"
)

// ParseNumber parses free-form numeric input. Empty or non-finite input is rejected.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(v) {
		return 0, false
	}
	return v, true
}

// ParseFractionOrNumber accepts "a/b" fractions (b != 0) as well as plain numbers.
func ParseFractionOrNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	num, den, isFraction := strings.Cut(s, "/")
	if !isFraction {
		return ParseNumber(s)
	}
	n, ok := ParseNumber(num)
	if !ok {
		return 0, false
	}
	d, ok := ParseNumber(den)
	if !ok || d == 0 {
		return 0, false
	}
	return n / d, true
}
