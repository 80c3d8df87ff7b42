package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHugeintFromInt64(t *testing.T) {
	h := HugeintFromInt64(-1)
	assert.Equal(t, int64(-1), h.Upper)
	assert.Equal(t, uint64(math.MaxUint64), h.Lower)

	h = HugeintFromInt64(42)
	assert.Equal(t, int64(0), h.Upper)
	assert.Equal(t, uint64(42), h.Lower)

	v, ok := HugeintFromInt64(math.MinInt64).ToInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), v)
}

func TestHugeintAddSub(t *testing.T) {
	a := HugeintFromInt64(math.MaxInt64)
	one := HugeintFromInt64(1)
	require.True(t, AddInplace(&a, &one))
	assert.Equal(t, int64(0), a.Upper)
	assert.Equal(t, uint64(math.MaxInt64)+1, a.Lower)

	require.True(t, SubInplace(&a, &one))
	v, ok := a.ToInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), v)

	b := HugeintFromInt64(-5)
	mthree := HugeintFromInt64(-3)
	require.True(t, SubInplace(&b, &mthree))
	v, ok = b.ToInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(-2), v)
}

func TestHugeintSubMinInt128(t *testing.T) {
	min := Hugeint{Upper: math.MinInt64, Lower: 0}

	//negative lhs minus MinInt128 stays in range
	lhs := HugeintFromInt64(-1)
	require.True(t, SubInplace(&lhs, &min))
	assert.Equal(t, "170141183460469231731687303715884105727", lhs.String())

	//zero minus MinInt128 overflows
	lhs = HugeintFromInt64(0)
	assert.False(t, SubInplace(&lhs, &min))
}

func TestHugeintTryMul(t *testing.T) {
	res := Hugeint{}
	a := HugeintFromInt64(1_000_000_000)
	require.True(t, TryMul(&a, &a, &res))
	assert.Equal(t, "1000000000000000000", res.String())

	mk := HugeintFromInt64(-1000)
	require.True(t, TryMul(&res, &mk, &res))
	assert.Equal(t, "-1000000000000000000000", res.String())

	//10^38 * 10 overflows 128 bits
	big := PowerOfTen(38)
	ten := HugeintFromInt64(10)
	assert.False(t, TryMul(&big, &ten, &res))
}

func TestHugeintCmp(t *testing.T) {
	negBig := Hugeint{}
	big := PowerOfTen(30)
	NegateHugeint(&big, &negBig)
	vals := []Hugeint{
		negBig,
		HugeintFromInt64(-1),
		HugeintFromInt64(0),
		HugeintFromInt64(1),
		PowerOfTen(30),
	}
	for i := 0; i < len(vals); i++ {
		assert.Equal(t, 0, vals[i].Cmp(vals[i]))
		for j := i + 1; j < len(vals); j++ {
			assert.Equal(t, -1, vals[i].Cmp(vals[j]))
			assert.Equal(t, 1, vals[j].Cmp(vals[i]))
		}
	}
}

func TestHugeintString(t *testing.T) {
	assert.Equal(t, "0", HugeintFromInt64(0).String())
	assert.Equal(t, "-42", HugeintFromInt64(-42).String())
	assert.Equal(t, "100000000000000000000000000000000000000", PowerOfTen(38).String())

	min := Hugeint{Upper: math.MinInt64, Lower: 0}
	assert.Equal(t, "-170141183460469231731687303715884105728", min.String())
}

func TestPowerOfTen(t *testing.T) {
	assert.Equal(t, "1", PowerOfTen(0).String())
	assert.Equal(t, "100", PowerOfTen(2).String())
	exp := HugeintFromInt64(1)
	ten := HugeintFromInt64(10)
	for i := 1; i <= 38; i++ {
		require.True(t, TryMul(&exp, &ten, &exp))
		assert.Equal(t, 0, exp.Cmp(PowerOfTen(i)))
	}
}
