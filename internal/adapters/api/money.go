package api

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a decimal with at most two fractional digits")

// plain unsigned decimals only: no sign, exponent or bare leading/trailing dot
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ParseAmount converts a decimal string such as "10", "10.5" or "10.50" to cents
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := d.Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// FormatAmount renders cents with exactly two fractional digits
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
