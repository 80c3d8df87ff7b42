package common

import (
	"fmt"
	"math"
	"math/bits"
)

// Hugeint is a signed 128-bit integer in two's complement.
// The value is Upper * 2^64 + Lower.
type Hugeint struct {
	Lower uint64
	Upper int64
}

func HugeintFromInt64(v int64) Hugeint {
	return Hugeint{Lower: uint64(v), Upper: v >> 63}
}

func (h Hugeint) Equal(o Hugeint) bool {
	return h.Lower == o.Lower && h.Upper == o.Upper
}

func (h Hugeint) IsNegative() bool {
	return h.Upper < 0
}

func (h Hugeint) IsZero() bool {
	return h.Upper == 0 && h.Lower == 0
}

func (h Hugeint) Cmp(o Hugeint) int {
	if h.Upper != o.Upper {
		if h.Upper < o.Upper {
			return -1
		}
		return 1
	}
	if h.Lower != o.Lower {
		if h.Lower < o.Lower {
			return -1
		}
		return 1
	}
	return 0
}

// ToInt64 reports false when the value does not fit.
func (h Hugeint) ToInt64() (int64, bool) {
	v := int64(h.Lower)
	if h.Upper != v>>63 {
		return 0, false
	}
	return v, true
}

func NegateHugeint(input *Hugeint, result *Hugeint) {
	if input.Upper == math.MinInt64 && input.Lower == 0 {
		panic("-hugeint overflow")
	}
	result.Lower = math.MaxUint64 - input.Lower + 1
	if input.Lower == 0 {
		result.Upper = -1 - input.Upper + 1
	} else {
		result.Upper = -1 - input.Upper
	}
}

// AddInplace
// return
//
//	false : overflow
func AddInplace(lhs, rhs *Hugeint) bool {
	ladd := lhs.Lower + rhs.Lower
	overflow := int64(0)
	if ladd < lhs.Lower {
		overflow = 1
	}
	if rhs.Upper >= 0 {
		//rhs is positive
		if lhs.Upper > (math.MaxInt64 - rhs.Upper - overflow) {
			return false
		}
		lhs.Upper = lhs.Upper + overflow + rhs.Upper
	} else {
		//rhs is negative
		if lhs.Upper < (math.MinInt64 - rhs.Upper - overflow) {
			return false
		}
		lhs.Upper = lhs.Upper + (overflow + rhs.Upper)
	}
	lhs.Lower += rhs.Lower
	if lhs.Upper == math.MinInt64 && lhs.Lower == 0 {
		return false
	}
	return true
}

// SubInplace
// return
//
//	false : overflow
func SubInplace(lhs, rhs *Hugeint) bool {
	if rhs.Upper == math.MinInt64 && rhs.Lower == 0 {
		// -rhs is not representable; lhs - MinInt128 = lhs + 2^127
		// overflows unless lhs is negative, and then only barely.
		// Handle via two halves of 2^126.
		half := Hugeint{Lower: 0, Upper: math.MinInt64 / 2}
		neg := Hugeint{}
		NegateHugeint(&half, &neg)
		if !AddInplace(lhs, &neg) {
			return false
		}
		return AddInplace(lhs, &neg)
	}
	neg := Hugeint{}
	NegateHugeint(rhs, &neg)
	return AddInplace(lhs, &neg)
}

// magnitude returns |h| as an unsigned 128-bit pair. MinInt128 maps to
// 2^127 which still fits unsigned.
func (h Hugeint) magnitude() (hi uint64, lo uint64) {
	if h.Upper >= 0 {
		return uint64(h.Upper), h.Lower
	}
	lo = ^h.Lower + 1
	hi = ^uint64(h.Upper)
	if lo == 0 {
		hi++
	}
	return hi, lo
}

// TryMul
// return
//
//	false : overflow
func TryMul(lhs, rhs *Hugeint, res *Hugeint) bool {
	neg := lhs.IsNegative() != rhs.IsNegative()
	ahi, alo := lhs.magnitude()
	bhi, blo := rhs.magnitude()
	if ahi != 0 && bhi != 0 {
		return false
	}
	hi, lo := bits.Mul64(alo, blo)
	p1hi, p1lo := bits.Mul64(ahi, blo)
	if p1hi != 0 {
		return false
	}
	p2hi, p2lo := bits.Mul64(alo, bhi)
	if p2hi != 0 {
		return false
	}
	var carry uint64
	hi, carry = bits.Add64(hi, p1lo, 0)
	if carry != 0 {
		return false
	}
	hi, carry = bits.Add64(hi, p2lo, 0)
	if carry != 0 {
		return false
	}
	// magnitude bound: 2^127-1 positive, 2^127 negative
	if neg {
		if hi > 1<<63 || (hi == 1<<63 && lo != 0) {
			return false
		}
		lo2 := ^lo + 1
		hi2 := ^hi
		if lo2 == 0 {
			hi2++
		}
		res.Lower = lo2
		res.Upper = int64(hi2)
	} else {
		if hi > math.MaxInt64 {
			return false
		}
		res.Lower = lo
		res.Upper = int64(hi)
	}
	return true
}

// udivmod128by64 divides hi:lo by d. d must be nonzero and qhi must fit,
// which holds for the divisors used here (hi < d after the first step).
func udivmod128by64(hi, lo, d uint64) (qhi, qlo, rem uint64) {
	qhi = hi / d
	r := hi % d
	qlo, rem = bits.Div64(r, lo, d)
	return qhi, qlo, rem
}

func (h Hugeint) String() string {
	if h.IsZero() {
		return "0"
	}
	hi, lo := h.magnitude()
	buf := make([]byte, 0, 40)
	for hi != 0 || lo != 0 {
		var r uint64
		hi, lo, r = udivmod128by64(hi, lo, 10)
		buf = append(buf, byte('0'+r))
	}
	if h.IsNegative() {
		buf = append(buf, '-')
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var powersOfTen [DecimalMaxWidth + 1]Hugeint

func init() {
	powersOfTen[0] = HugeintFromInt64(1)
	ten := HugeintFromInt64(10)
	for i := 1; i <= DecimalMaxWidth; i++ {
		res := Hugeint{}
		if !TryMul(&powersOfTen[i-1], &ten, &res) {
			panic(fmt.Sprintf("power of ten %d overflow", i))
		}
		powersOfTen[i] = res
	}
}

// PowerOfTen returns 10^n for n in [0, 38].
func PowerOfTen(n int) Hugeint {
	return powersOfTen[n]
}
