package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

func newIntListVector(lists [][]int32, nullRows ...int) *chunk.Vector {
	vec := chunk.NewFlatVector(common.ListType(common.IntegerType()), util.DefaultVectorSize)
	entries := chunk.GetListEntriesInPhyFormatFlat(vec)
	cdata := chunk.GetSliceInPhyFormatFlat[int32](chunk.ListChild(vec))
	offset := 0
	for i, l := range lists {
		entries[i] = common.ListEntry{Offset: uint64(offset), Length: uint64(len(l))}
		copy(cdata[offset:], l)
		offset += len(l)
	}
	for _, row := range nullRows {
		chunk.SetNullInPhyFormatFlat(vec, uint64(row), true)
	}
	return vec
}

func TestArrayContains(t *testing.T) {
	input := newIntListVector([][]int32{
		{1, 2, 3, 4},
		{3, 4, 5},
		{},
		{5, 6, 7, 8, 9},
	})
	search := &chunk.Value{Typ: common.IntegerType(), I64: 5}
	result := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)

	ArrayContains(input, 4, search, result)
	res := chunk.GetSliceInPhyFormatFlat[bool](result)
	assert.Equal(t, []bool{false, true, false, true}, res[:4])
}

func TestArrayContainsDictInput(t *testing.T) {
	base := newIntListVector([][]int32{{1, 2}, {5}})
	sel := chunk.NewSelectVector(3)
	for i, idx := range []int{1, 0, 1} {
		sel.SetIndex(i, idx)
	}
	input := chunk.WrapInDictionary(nil, sel, 3, base)

	search := &chunk.Value{Typ: common.IntegerType(), I64: 5}
	result := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)
	ArrayContains(input, 3, search, result)

	res := chunk.GetSliceInPhyFormatFlat[bool](result)
	assert.Equal(t, []bool{true, false, true}, res[:3])
}

func TestArrayContainsNulls(t *testing.T) {
	input := newIntListVector([][]int32{{5}, {1}}, 1)
	search := &chunk.Value{Typ: common.IntegerType(), I64: 5}
	result := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)
	ArrayContains(input, 2, search, result)

	res := chunk.GetSliceInPhyFormatFlat[bool](result)
	assert.True(t, res[0])
	//null list row yields a null result
	assert.False(t, result.Mask.RowIsValid(1))

	//null search nulls every row
	result2 := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)
	ArrayContains(input, 2, &chunk.Value{Typ: common.IntegerType(), IsNull: true}, result2)
	assert.False(t, result2.Mask.RowIsValid(0))
	assert.False(t, result2.Mask.RowIsValid(1))
}

func TestArrayContainsNullElements(t *testing.T) {
	input := newIntListVector([][]int32{{1, 5}, {1, 2}})
	//null out the 5; null elements never match
	chunk.SetNullInPhyFormatFlat(chunk.ListChild(input), 1, true)

	search := &chunk.Value{Typ: common.IntegerType(), I64: 5}
	result := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)
	ArrayContains(input, 2, search, result)

	res := chunk.GetSliceInPhyFormatFlat[bool](result)
	assert.Equal(t, []bool{false, false}, res[:2])
}

func TestArrayContainsVarchar(t *testing.T) {
	vec := chunk.NewFlatVector(common.ListType(common.VarcharType()), util.DefaultVectorSize)
	entries := chunk.GetListEntriesInPhyFormatFlat(vec)
	child := chunk.ListChild(vec)
	words := []string{"ab", "cd", "ef"}
	for i, w := range words {
		child.SetValue(i, &chunk.Value{Typ: common.VarcharType(), Str: w})
	}
	entries[0] = common.ListEntry{Offset: 0, Length: 2}
	entries[1] = common.ListEntry{Offset: 2, Length: 1}

	result := chunk.NewFlatVector(common.BooleanType(), util.DefaultVectorSize)
	ArrayContains(vec, 2, &chunk.Value{Typ: common.VarcharType(), Str: "cd"}, result)
	res := chunk.GetSliceInPhyFormatFlat[bool](result)
	assert.Equal(t, []bool{true, false}, res[:2])
}
