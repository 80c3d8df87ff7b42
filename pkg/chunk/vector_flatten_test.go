package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

func newIntListVector(lists [][]int32, nullRows ...int) *Vector {
	vec := NewFlatVector(common.ListType(common.IntegerType()), util.DefaultVectorSize)
	entries := GetListEntriesInPhyFormatFlat(vec)
	cdata := GetSliceInPhyFormatFlat[int32](ListChild(vec))
	offset := 0
	for i, l := range lists {
		entries[i] = common.ListEntry{Offset: uint64(offset), Length: uint64(len(l))}
		copy(cdata[offset:], l)
		offset += len(l)
	}
	for _, row := range nullRows {
		SetNullInPhyFormatFlat(vec, uint64(row), true)
	}
	return vec
}

func newIntMapVector(keys [][]int32, values [][]int64, nullRows ...int) *Vector {
	vec := NewFlatVector(common.MapType(common.IntegerType(), common.BigintType()),
		util.DefaultVectorSize)
	entries := GetListEntriesInPhyFormatFlat(vec)
	kdata := GetSliceInPhyFormatFlat[int32](MapKeys(vec))
	vdata := GetSliceInPhyFormatFlat[int64](MapValues(vec))
	offset := 0
	for i := range keys {
		entries[i] = common.ListEntry{Offset: uint64(offset), Length: uint64(len(keys[i]))}
		copy(kdata[offset:], keys[i])
		copy(vdata[offset:], values[i])
		offset += len(keys[i])
	}
	for _, row := range nullRows {
		SetNullInPhyFormatFlat(vec, uint64(row), true)
	}
	return vec
}

func dictOver(base *Vector, indices []int, nullRows ...int) *Vector {
	sel := NewSelectVector(len(indices))
	for i, idx := range indices {
		sel.SetIndex(i, idx)
	}
	var nulls *util.Bitmap
	if len(nullRows) != 0 {
		nulls = &util.Bitmap{}
		nulls.Init(util.DefaultVectorSize)
		for _, row := range nullRows {
			nulls.SetInvalid(uint64(row))
		}
	}
	return WrapInDictionary(nulls, sel, len(indices), base)
}

func TestFlattenListFlatInput(t *testing.T) {
	vec := newIntListVector([][]int32{{1, 2}, {3}})
	got := FlattenList(vec, 2, &SelectVector{}, 2)
	assert.Same(t, vec, got)
}

func TestFlattenListDict(t *testing.T) {
	base := newIntListVector([][]int32{{1, 2}, {3}, {}, {4, 5, 6}})
	vec := dictOver(base, []int{3, 0, 2, 1})

	flat := FlattenList(vec, 4, &SelectVector{}, 4)
	require.True(t, flat.PhyFormat().IsFlat())

	//entries are laid out back to back in row order
	entries := GetListEntriesInPhyFormatFlat(flat)
	wantLens := []uint64{3, 2, 0, 1}
	cursor := uint64(0)
	for i, l := range wantLens {
		assert.Equal(t, cursor, entries[i].Offset, "row %d", i)
		assert.Equal(t, l, entries[i].Length, "row %d", i)
		cursor += l
	}

	want := []string{"[4, 5, 6]", "[1, 2]", "[]", "[3]"}
	for i := range want {
		assert.Equal(t, want[i], flat.GetValue(i).String(), "row %d", i)
	}
}

func TestFlattenListNullRows(t *testing.T) {
	base := newIntListVector([][]int32{{1}, {2, 3}})
	vec := dictOver(base, []int{1, 0, 1}, 1)

	flat := FlattenList(vec, 3, &SelectVector{}, 3)
	assert.Equal(t, "[2, 3]", flat.GetValue(0).String())
	assert.True(t, flat.GetValue(1).IsNull)
	assert.Equal(t, "[2, 3]", flat.GetValue(2).String())

	//the null row contributes nothing to the element count
	entries := GetListEntriesInPhyFormatFlat(flat)
	assert.Equal(t, uint64(2), entries[0].Length)
	assert.Equal(t, uint64(2), entries[2].Offset)
	assert.Equal(t, uint64(2), entries[2].Length)
}

func TestFlattenListSelection(t *testing.T) {
	base := newIntListVector([][]int32{{1, 2}, {3}, {4, 5, 6}, {7}})
	vec := dictOver(base, []int{1, 0, 3, 2})

	//selected rows keep their row position in the output
	sel := NewSelectVector(2)
	sel.SetIndex(0, 2)
	sel.SetIndex(1, 0)
	flat := FlattenList(vec, 4, sel, 2)

	assert.Equal(t, "[7]", flat.GetValue(2).String())
	assert.Equal(t, "[3]", flat.GetValue(0).String())

	//element ranges are contiguous in selection order
	entries := GetListEntriesInPhyFormatFlat(flat)
	assert.Equal(t, uint64(0), entries[2].Offset)
	assert.Equal(t, uint64(1), entries[2].Length)
	assert.Equal(t, uint64(1), entries[0].Offset)
	assert.Equal(t, uint64(1), entries[0].Length)
}

func TestFlattenListSelectionAgreesWithFlatInput(t *testing.T) {
	lists := [][]int32{{1, 2}, {3}, {4, 5, 6}}
	flatIn := newIntListVector(lists)

	//same logical data behind a dictionary hop
	sel := NewSelectVector(3)
	for i := 0; i < 3; i++ {
		sel.SetIndex(i, i)
	}
	nulls := &util.Bitmap{}
	nulls.Init(util.DefaultVectorSize)
	dictIn := WrapInDictionary(nulls, sel, 3, flatIn)
	require.True(t, dictIn.PhyFormat().IsDict())

	rows := NewSelectVector(1)
	rows.SetIndex(0, 2)

	fromFlat := FlattenList(flatIn, 3, rows, 1)
	fromDict := FlattenList(dictIn, 3, rows, 1)

	assert.Equal(t, "[4, 5, 6]", fromFlat.GetValue(2).String())
	assert.Equal(t, fromFlat.GetValue(2).String(), fromDict.GetValue(2).String())
	assert.False(t, fromDict.GetValue(2).IsNull)
}

func TestFlattenMapLockstep(t *testing.T) {
	base := newIntMapVector(
		[][]int32{{1, 2}, {3}, {4, 5}},
		[][]int64{{10, 20}, {30}, {40, 50}})
	vec := dictOver(base, []int{2, 0, 1}, 2)

	flat := FlattenMap(vec, 3, &SelectVector{}, 3)
	require.True(t, flat.PhyFormat().IsFlat())

	assert.Equal(t, "{4=>40, 5=>50}", flat.GetValue(0).String())
	assert.Equal(t, "{1=>10, 2=>20}", flat.GetValue(1).String())
	assert.True(t, flat.GetValue(2).IsNull)
}

func TestFlattenMapFlatInput(t *testing.T) {
	vec := newIntMapVector([][]int32{{1}}, [][]int64{{10}})
	assert.Same(t, vec, FlattenMap(vec, 1, &SelectVector{}, 1))
}
