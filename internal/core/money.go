// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting centavos as Brazilian reais.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional "R$" prefix, and Brazilian thousands grouping (1.234,56) when both
// separators are present. Half-up rounding applies on the third decimal
// place. Without a comma, dots that split the number into thousands groups
// ("1.234.567") are grouping, and a lone grouping-shaped dot ("1.500") is
// rejected with ErrAmbiguousAmount. Returns an error for invalid formats,
// negative values, or zero.
//
// Examples:
//
//	ParseDecimalToCents("12.34")       -> 1234, nil
//	ParseDecimalToCents("12,34")       -> 1234, nil
//	ParseDecimalToCents("R$ 1.234,56") -> 123456, nil
//	ParseDecimalToCents("1.234.567")   -> 123456700, nil
//	ParseDecimalToCents("12,346")      -> 1235, nil (rounds up)
//	ParseDecimalToCents("1.500")       -> 0, ErrAmbiguousAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		// 1.234,56: dots group thousands
		s = strings.ReplaceAll(s, ".", "")
	} else if groups := strings.Split(s, "."); len(groups) > 1 && thousandsGrouped(groups) {
		if len(groups) == 2 {
			return 0, ErrAmbiguousAmount
		}
		s = strings.Join(groups, "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// thousandsGrouped reports whether groups look like 1.234.567: a leading
// group of one to three digits without a leading zero, then groups of three.
func thousandsGrouped(groups []string) bool {
	if first := groups[0]; len(first) == 0 || len(first) > 3 || first[0] == '0' {
		return false
	}
	for i, g := range groups {
		if i > 0 && len(g) != 3 {
			return false
		}
		for _, r := range g {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// Reais returns the value as a float64 for display purposes only.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as "R$ 1.234,56" (negative as "-R$ 12,00").
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	frac := cents % 100
	return sign + "R$ " + b.String() + "," + strconv.FormatInt(frac/10, 10) + strconv.FormatInt(frac%10, 10)
}
