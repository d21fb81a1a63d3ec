package book

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Price is a fixed-point price in ticks of 1/100000. Storing prices as
// integer ticks keeps textually equal prices on a single level; raw
// floats would not.
type Price int64

const priceScale = 5

// maxPriceTicks is 9999999.99999 in ticks: seven integer digits, five
// fractional digits.
const maxPriceTicks = 999_999_999_999

var ErrInvalidPrice = errors.New("Invalid price")

// ParsePrice parses a 7.5-format decimal into ticks. Up to five
// fractional digits are accepted; anything non-positive, finer than one
// tick, or wider than seven integer digits is rejected.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	scaled := d.Shift(priceScale)
	if !scaled.IsInteger() {
		return 0, ErrInvalidPrice
	}
	if !scaled.BigInt().IsInt64() {
		return 0, ErrInvalidPrice
	}
	ticks := scaled.IntPart()
	if ticks <= 0 || ticks > maxPriceTicks {
		return 0, ErrInvalidPrice
	}
	return Price(ticks), nil
}

// String renders the price with exactly five fractional digits.
func (p Price) String() string {
	return decimal.New(int64(p), -priceScale).StringFixed(priceScale)
}
