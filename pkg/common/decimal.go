package common

import (
	"fmt"
	"strings"
)

// Decimal is a fixed-point number: Value is the unscaled 128-bit
// integer, the numeric value is Value * 10^-Scale. Width is the
// declared precision in digits; arithmetic does not enforce it,
// CheckWidth does.
type Decimal struct {
	Value Hugeint
	Width int
	Scale int
}

func NewDecimal(value Hugeint, width, scale int) Decimal {
	return Decimal{Value: value, Width: width, Scale: scale}
}

// ParseDecimal accepts [+-]digits[.digits]. The parsed width is the
// number of significant digits, the scale the count after the point.
func ParseDecimal(s string) (Decimal, error) {
	if len(s) == 0 {
		return Decimal{}, fmt.Errorf("empty decimal string: %w", ErrValidation)
	}
	pos := 0
	negative := false
	if s[pos] == '+' || s[pos] == '-' {
		negative = s[pos] == '-'
		pos++
	}
	if pos == len(s) {
		return Decimal{}, fmt.Errorf("decimal %q has no digits: %w", s, ErrValidation)
	}
	// leading zeros carry no precision
	for pos < len(s) && s[pos] == '0' {
		pos++
	}
	value := Hugeint{}
	ten := HugeintFromInt64(10)
	width := 0
	scale := 0
	seenDot := false
	seenDigit := pos > 0 && (s[pos-1] == '0')
	for ; pos < len(s); pos++ {
		c := s[pos]
		if c == '.' {
			if seenDot {
				return Decimal{}, fmt.Errorf("decimal %q has two points: %w", s, ErrValidation)
			}
			seenDot = true
			continue
		}
		if c < '0' || c > '9' {
			return Decimal{}, fmt.Errorf("bad char %q in decimal %q: %w", c, s, ErrValidation)
		}
		seenDigit = true
		width++
		if seenDot {
			scale++
		}
		if width > DecimalMaxWidth {
			return Decimal{}, fmt.Errorf("decimal %q exceeds %d digits: %w", s, DecimalMaxWidth, ErrOverflow)
		}
		if !TryMul(&value, &ten, &value) {
			return Decimal{}, fmt.Errorf("decimal %q: %w", s, ErrOverflow)
		}
		digit := HugeintFromInt64(int64(c - '0'))
		if !AddInplace(&value, &digit) {
			return Decimal{}, fmt.Errorf("decimal %q: %w", s, ErrOverflow)
		}
	}
	if !seenDigit {
		return Decimal{}, fmt.Errorf("decimal %q has no digits: %w", s, ErrValidation)
	}
	if width == 0 {
		// all zeros
		width = 1
	}
	if negative {
		neg := Hugeint{}
		NegateHugeint(&value, &neg)
		value = neg
	}
	return Decimal{Value: value, Width: width, Scale: scale}, nil
}

// Equal compares the full tuple, so 1.0 and 1.00 differ. Use EqualValue
// for mathematical equality.
func (dec Decimal) Equal(o Decimal) bool {
	return dec.Value.Equal(o.Value) && dec.Width == o.Width && dec.Scale == o.Scale
}

// EqualValue compares numeric values regardless of width and scale.
func (dec Decimal) EqualValue(o Decimal) bool {
	return dec.Cmp(o) == 0
}

// rescale returns value * 10^by, false on 128-bit overflow.
func rescale(value Hugeint, by int) (Hugeint, bool) {
	if by == 0 {
		return value, true
	}
	pow := PowerOfTen(by)
	res := Hugeint{}
	if !TryMul(&value, &pow, &res) {
		return Hugeint{}, false
	}
	return res, true
}

// Cmp orders by numeric value. Operands are aligned to the larger
// scale; when alignment overflows 128 bits the rescaled operand's
// magnitude is necessarily larger and its sign decides.
func (dec Decimal) Cmp(o Decimal) int {
	lv, rv := dec.Value, o.Value
	if dec.Scale < o.Scale {
		scaled, ok := rescale(lv, o.Scale-dec.Scale)
		if !ok {
			if lv.IsNegative() {
				return -1
			}
			return 1
		}
		lv = scaled
	} else if o.Scale < dec.Scale {
		scaled, ok := rescale(rv, dec.Scale-o.Scale)
		if !ok {
			if rv.IsNegative() {
				return 1
			}
			return -1
		}
		rv = scaled
	}
	return lv.Cmp(rv)
}

func (dec Decimal) Less(o Decimal) bool {
	return dec.Cmp(o) < 0
}

// Add sums unscaled values without aligning scales; the caller owns
// scale bookkeeping. The result keeps the receiver's width and scale.
func (dec Decimal) Add(o Decimal) (Decimal, error) {
	res := dec.Value
	if !AddInplace(&res, &o.Value) {
		return Decimal{}, fmt.Errorf("decimal add: %w", ErrOverflow)
	}
	return Decimal{Value: res, Width: dec.Width, Scale: dec.Scale}, nil
}

func (dec Decimal) Sub(o Decimal) (Decimal, error) {
	res := dec.Value
	if !SubInplace(&res, &o.Value) {
		return Decimal{}, fmt.Errorf("decimal sub: %w", ErrOverflow)
	}
	return Decimal{Value: res, Width: dec.Width, Scale: dec.Scale}, nil
}

func (dec Decimal) Mul(o Decimal) (Decimal, error) {
	res := Hugeint{}
	if !TryMul(&dec.Value, &o.Value, &res) {
		return Decimal{}, fmt.Errorf("decimal mul: %w", ErrOverflow)
	}
	return Decimal{Value: res, Width: dec.Width, Scale: dec.Scale}, nil
}

func NegateDecimal(input *Decimal, result *Decimal) {
	NegateHugeint(&input.Value, &result.Value)
	result.Width = input.Width
	result.Scale = input.Scale
}

// CheckWidth reports whether the value fits in width digits.
func (dec Decimal) CheckWidth(width int) bool {
	if width < 0 || width > DecimalMaxWidth {
		return false
	}
	bound := PowerOfTen(width)
	if dec.Value.IsNegative() {
		neg := Hugeint{}
		NegateHugeint(&bound, &neg)
		return dec.Value.Cmp(neg) > 0
	}
	return dec.Value.Cmp(bound) < 0
}

func (dec Decimal) String() string {
	digits := dec.Value.String()
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if dec.Scale > 0 {
		if len(digits) <= dec.Scale {
			digits = strings.Repeat("0", dec.Scale-len(digits)+1) + digits
		}
		cut := len(digits) - dec.Scale
		digits = digits[:cut] + "." + digits[cut:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}
