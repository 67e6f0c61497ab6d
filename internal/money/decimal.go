// Package money implements the fixed-point arithmetic used throughout the
// matching core. It wraps shopspring/decimal so the rest of the codebase
// never imports it directly, and gives us one place to pin the total
// ordering and parsing rules the order book depends on.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegative = errors.New("money: value must not be negative")
	ErrNotPositive = errors.New("money: value must be positive")
)

// Decimal is a signed fixed-point number with arbitrary precision, exact
// addition/subtraction, and total ordering. Prices and quantities in the
// order book are both represented with this type.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{d: decimal.Zero}

// One is useful for probability-range validation (prices live in (0, 1)).
var One = Decimal{d: decimal.NewFromInt(1)}

// NewFromInt builds a Decimal from an integer, mostly for tests.
func NewFromInt(v int64) Decimal {
	return Decimal{d: decimal.NewFromInt(v)}
}

// Parse parses a decimal string such as "0.0001" or "10.5". It is the wire
// format used by the place/cancel request bodies.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("money: invalid decimal %q: %w", s, err)
	}
	return Decimal{d: d}, nil
}

// MustParse panics on a malformed literal; only use it for constants in
// tests.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) String() string { return d.d.String() }

// Add returns d + other, exact.
func (d Decimal) Add(other Decimal) Decimal { return Decimal{d: d.d.Add(other.d)} }

// Sub returns d - other, exact.
func (d Decimal) Sub(other Decimal) Decimal { return Decimal{d: d.d.Sub(other.d)} }

// Mul returns d * other, exact. Used for SnapshotLevel.total = price * quantity.
func (d Decimal) Mul(other Decimal) Decimal { return Decimal{d: d.d.Mul(other.d)} }

// Cmp returns -1, 0, or 1 per the usual comparator contract.
func (d Decimal) Cmp(other Decimal) int { return d.d.Cmp(other.d) }

// LessThan reports whether d < other.
func (d Decimal) LessThan(other Decimal) bool { return d.d.LessThan(other.d) }

// GreaterThan reports whether d > other.
func (d Decimal) GreaterThan(other Decimal) bool { return d.d.GreaterThan(other.d) }

// Equal reports whether d == other.
func (d Decimal) Equal(other Decimal) bool { return d.d.Equal(other.d) }

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool { return d.d.IsZero() }

// IsPositive reports whether d > 0.
func (d Decimal) IsPositive() bool { return d.d.IsPositive() }

// Min returns the smaller of d and other. Used by the matching loop to
// compute the take quantity between taker and maker.
func (d Decimal) Min(other Decimal) Decimal {
	if d.d.LessThan(other.d) {
		return d
	}
	return other
}

// ScaledUint64 multiplies d by 10^scale and truncates to an unsigned 64-bit
// integer. This is the six-decimal fixed-point serialization the settlement
// payload uses for on-chain amounts (multiply by 1,000,000 and
// truncate").
func (d Decimal) ScaledUint64(scale int32) (uint64, error) {
	if d.d.IsNegative() {
		return 0, ErrNegative
	}
	scaled := d.d.Shift(scale).Truncate(0)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("money: scaled value %s is not an integer", scaled)
	}
	return uint64(scaled.IntPart()), nil
}

// MarshalJSON renders the decimal-string wire format.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.d.String() + `"`), nil
}

// UnmarshalJSON parses the decimal-string wire format.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
