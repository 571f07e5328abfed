// Package core provides the domain model and the ledger aggregation logic.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and display representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// maxSafeInt64 is the largest integer amount that survives conversion to
// cents without overflowing int64.
const maxSafeInt64 = (1<<63 - 1) / 100

// ParseAmountToCents converts a decimal string to signed cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign, and performs half-away-from-zero rounding on the
// third decimal place. Non-numeric input is rejected with ErrInvalidAmount,
// never coerced to zero.
//
// Examples:
//
//	ParseAmountToCents("12.34")  -> 1234, nil
//	ParseAmountToCents("-12,34") -> -1234, nil
//	ParseAmountToCents("12.346") -> 1235, nil (rounds up)
//	ParseAmountToCents("abc")    -> 0, ErrInvalidAmount
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
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
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Bound the integer part so the cents multiplication cannot wrap. The
	// strict inequality leaves headroom for the rounded fraction.
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	// Normalize fraction to three digits, then round half up on the third.
	for len(fracPart) < 3 {
		fracPart += "0"
	}
	fv, err := strconv.ParseInt(fracPart[:3], 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := iv*100 + fv/10
	if fv%10 >= 5 {
		cents++
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatAmount renders cents as a plain decimal string, e.g. -1234 -> "-12.34".
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
