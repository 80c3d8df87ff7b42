package chunk

import (
	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

// FlattenList rewrites a LIST vector of vecCount rows into a flat one
// covering the same row domain. Only the count rows picked by sel are
// rebuilt; rows outside the selection are left undefined and must not
// be read. Element data is never copied: the result's child is the
// original element vector wrapped in a dictionary that lines the
// selected rows' elements up contiguously, in selection order. Rows
// whose list is null stay null and their entry slots are left
// undefined. A flat input is returned unchanged.
func FlattenList(vec *Vector, vecCount int, sel *SelectVector, count int) *Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_LIST)
	if vec.PhyFormat().IsFlat() {
		return vec
	}

	var uf UnifiedFormat
	vec.ToUnifiedFormat(vecCount, &uf)
	base := uf.Vec
	entries := GetSliceInPhyFormatUnifiedFormat[common.ListEntry](&uf)

	//pass 1: count the elements of selected non-null rows
	numElements := uint64(0)
	for i := 0; i < count; i++ {
		row := sel.GetIndex(i)
		if !uf.RowIsValid(row) {
			continue
		}
		numElements += entries[uf.Sel.GetIndex(row)].Length
	}

	result := newFlatEntryVector(vec.Typ(), vecCount)
	newEntries := GetListEntriesInPhyFormatFlat(result)
	elemSel := NewSelectVector(int(numElements))

	//pass 2: lay selected rows' entries out back to back
	cursor := uint64(0)
	for i := 0; i < count; i++ {
		row := sel.GetIndex(i)
		if !uf.RowIsValid(row) {
			SetNullInPhyFormatFlat(result, uint64(row), true)
			continue
		}
		e := entries[uf.Sel.GetIndex(row)]
		newEntries[row] = common.ListEntry{Offset: cursor, Length: e.Length}
		for j := uint64(0); j < e.Length; j++ {
			elemSel.SetIndex(int(cursor+j), int(e.Offset+j))
		}
		cursor += e.Length
	}
	util.AssertFunc(cursor == numElements)

	elements := WrapInDictionary(nil, elemSel, int(numElements), ListChild(base))
	SetListChild(result, elements)
	return result
}

// FlattenMap is FlattenList for MAP vectors: keys and values are
// wrapped with the same element indices so entry pairs stay in
// lockstep.
func FlattenMap(vec *Vector, vecCount int, sel *SelectVector, count int) *Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_MAP)
	if vec.PhyFormat().IsFlat() {
		return vec
	}

	var uf UnifiedFormat
	vec.ToUnifiedFormat(vecCount, &uf)
	base := uf.Vec
	entries := GetSliceInPhyFormatUnifiedFormat[common.ListEntry](&uf)

	numElements := uint64(0)
	for i := 0; i < count; i++ {
		row := sel.GetIndex(i)
		if !uf.RowIsValid(row) {
			continue
		}
		numElements += entries[uf.Sel.GetIndex(row)].Length
	}

	result := newFlatEntryVector(vec.Typ(), vecCount)
	newEntries := GetListEntriesInPhyFormatFlat(result)
	elemSel := NewSelectVector(int(numElements))

	cursor := uint64(0)
	for i := 0; i < count; i++ {
		row := sel.GetIndex(i)
		if !uf.RowIsValid(row) {
			SetNullInPhyFormatFlat(result, uint64(row), true)
			continue
		}
		e := entries[uf.Sel.GetIndex(row)]
		newEntries[row] = common.ListEntry{Offset: cursor, Length: e.Length}
		for j := uint64(0); j < e.Length; j++ {
			elemSel.SetIndex(int(cursor+j), int(e.Offset+j))
		}
		cursor += e.Length
	}
	util.AssertFunc(cursor == numElements)

	keys := WrapInDictionary(nil, elemSel, int(numElements), MapKeys(base))
	values := WrapInDictionary(nil, elemSel, int(numElements), MapValues(base))
	SetMapChildren(result, keys, values)
	return result
}

// newFlatEntryVector allocates the entry buffer only; the caller wires
// the children.
func newFlatEntryVector(typ common.LType, count int) *Vector {
	vec := &Vector{
		_PhyFormat: PF_FLAT,
		_Typ:       typ,
		Mask:       &util.Bitmap{},
	}
	vec.Buf = NewStandardBuffer(typ, util.Max(util.DefaultVectorSize, count))
	vec.Data = vec.Buf.Data
	if count > util.DefaultVectorSize {
		vec.Mask.Resize(util.DefaultVectorSize, count)
	}
	return vec
}
