package common

import (
	"testing"

	govalues "github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	kases := []struct {
		s     string
		width int
		scale int
		str   string
	}{
		{"0", 1, 0, "0"},
		{"-0", 1, 0, "0"},
		{"42", 2, 0, "42"},
		{"-42", 2, 0, "-42"},
		{"1.5", 2, 1, "1.5"},
		{"-1.50", 3, 2, "-1.50"},
		{"0.001", 3, 3, "0.001"},
		{"123456789.123456789", 18, 9, "123456789.123456789"},
		{"99999999999999999999999999999999999999", 38, 0,
			"99999999999999999999999999999999999999"},
	}
	for _, kase := range kases {
		dec, err := ParseDecimal(kase.s)
		require.NoError(t, err, kase.s)
		assert.Equal(t, kase.width, dec.Width, kase.s)
		assert.Equal(t, kase.scale, dec.Scale, kase.s)
		assert.Equal(t, kase.str, dec.String(), kase.s)
	}
}

// cross check parse and render against another decimal implementation
func TestParseDecimalOracle(t *testing.T) {
	kases := []string{
		"0", "1", "-1", "42.42", "-42.42", "0.5", "-0.5",
		"1234567890.0987654321", "-999999.999999",
	}
	for _, kase := range kases {
		dec, err := ParseDecimal(kase)
		require.NoError(t, err, kase)
		want, err := govalues.Parse(kase)
		require.NoError(t, err, kase)
		got, err := govalues.Parse(dec.String())
		require.NoError(t, err, kase)
		assert.Equal(t, 0, want.Cmp(got), kase)
	}
}

func TestParseDecimalErrors(t *testing.T) {
	invalid := []string{"", "+", "-", ".", "-.", "1.2.3", "1a", "a1", "1 2"}
	for _, kase := range invalid {
		_, err := ParseDecimal(kase)
		require.Error(t, err, kase)
		assert.True(t, IsValidation(err), kase)
	}

	overflow := []string{
		"123456789123456789123456789123456789123",
		"1.23456789123456789123456789123456789123456",
	}
	for _, kase := range overflow {
		_, err := ParseDecimal(kase)
		require.Error(t, err, kase)
		assert.True(t, IsOverflow(err), kase)
	}
}

func TestDecimalEqual(t *testing.T) {
	a, err := ParseDecimal("1.0")
	require.NoError(t, err)
	b, err := ParseDecimal("1.00")
	require.NoError(t, err)

	//Equal is tuple equality, EqualValue is numeric
	assert.False(t, a.Equal(b))
	assert.True(t, a.EqualValue(b))
	assert.True(t, a.Equal(a))
}

func TestDecimalCmp(t *testing.T) {
	ordered := []string{
		"-99999999999999999999999999999999999.999",
		"-2", "-1.5", "-1.499", "0", "0.001", "1", "1.5", "2",
		"99999999999999999999999999999999999.999",
	}
	for i := 0; i < len(ordered); i++ {
		a, err := ParseDecimal(ordered[i])
		require.NoError(t, err)
		assert.Equal(t, 0, a.Cmp(a))
		for j := i + 1; j < len(ordered); j++ {
			b, err := ParseDecimal(ordered[j])
			require.NoError(t, err)
			assert.True(t, a.Less(b), "%s < %s", ordered[i], ordered[j])
			assert.Equal(t, 1, b.Cmp(a))
		}
	}
}

// scale alignment that overflows 128 bits must still order correctly
func TestDecimalCmpRescaleOverflow(t *testing.T) {
	big, err := ParseDecimal("99999999999999999999999999999999999999")
	require.NoError(t, err)
	small, err := ParseDecimal("0.123456789")
	require.NoError(t, err)

	assert.Equal(t, 1, big.Cmp(small))
	assert.Equal(t, -1, small.Cmp(big))

	negBig := Decimal{}
	NegateDecimal(&big, &negBig)
	assert.Equal(t, -1, negBig.Cmp(small))
	assert.Equal(t, 1, small.Cmp(negBig))
}

func TestDecimalArith(t *testing.T) {
	a, err := ParseDecimal("10.50")
	require.NoError(t, err)
	b, err := ParseDecimal("2.25")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.75", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "8.25", diff.String())

	//unscaled product, scale bookkeeping is on the caller
	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, Hugeint{Lower: 236250, Upper: 0}, prod.Value)
}

func TestDecimalArithOverflow(t *testing.T) {
	big, err := ParseDecimal("99999999999999999999999999999999999999")
	require.NoError(t, err)

	_, err = big.Mul(big)
	require.Error(t, err)
	assert.True(t, IsOverflow(err))

	//2 * (10^38 - 1) passes 2^127
	_, err = big.Add(big)
	require.Error(t, err)
	assert.True(t, IsOverflow(err))

	half, err := ParseDecimal("50000000000000000000000000000000000000")
	require.NoError(t, err)
	sum, err := half.Add(half)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000000000000000000000", sum.String())
}

func TestDecimalCheckWidth(t *testing.T) {
	dec, err := ParseDecimal("999.99")
	require.NoError(t, err)
	assert.True(t, dec.CheckWidth(5))
	assert.False(t, dec.CheckWidth(4))

	neg := Decimal{}
	NegateDecimal(&dec, &neg)
	assert.True(t, neg.CheckWidth(5))
	assert.False(t, neg.CheckWidth(4))
}
