package compute

import (
	treemap "github.com/liyue201/gostl/ds/map"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

// ArrayContains probes each row's list for search and writes a BOOLEAN
// into result. The list input may arrive in any encoding; it is
// flattened first so every row's elements are a contiguous range of
// the element child. A null list yields a null result, and so does a
// null search value. Null elements never match.
func ArrayContains(input *chunk.Vector, count int, search *chunk.Value, result *chunk.Vector) {
	util.AssertFunc(input.Typ().Id == common.LTID_LIST)
	util.AssertFunc(result.Typ().Id == common.LTID_BOOLEAN)

	if search.IsNull {
		result.Mask.SetAllInvalid(count)
		return
	}

	flat := chunk.FlattenList(input, count, &chunk.SelectVector{}, count)
	entries := chunk.GetListEntriesInPhyFormatFlat(flat)

	numElements := 0
	for i := 0; i < count; i++ {
		if !flat.Mask.RowIsValid(uint64(i)) {
			continue
		}
		end := int(entries[i].Offset + entries[i].Length)
		numElements = util.Max(numElements, end)
	}
	var elems chunk.UnifiedFormat
	chunk.ListChild(flat).ToUnifiedFormat(numElements, &elems)

	switch input.Typ().ListChild().Id {
	case common.LTID_INTEGER:
		templatedContains[int32](flat, entries, &elems, count, int32(search.I64), result,
			func(a, b int32) int { return int(a) - int(b) })
	case common.LTID_BIGINT:
		templatedContains[int64](flat, entries, &elems, count, search.I64, result,
			func(a, b int64) int {
				switch {
				case a < b:
					return -1
				case a > b:
					return 1
				}
				return 0
			})
	case common.LTID_DOUBLE:
		templatedContains[float64](flat, entries, &elems, count, search.F64, result,
			func(a, b float64) int {
				switch {
				case a < b:
					return -1
				case a > b:
					return 1
				}
				return 0
			})
	case common.LTID_VARCHAR:
		containsVarchar(flat, entries, &elems, count, search.Str, result)
	default:
		panic("usp")
	}
}

func templatedContains[T any](
	flat *chunk.Vector,
	entries []common.ListEntry,
	elems *chunk.UnifiedFormat,
	count int,
	search T,
	result *chunk.Vector,
	cmp func(a, b T) int,
) {
	elemSlice := chunk.GetSliceInPhyFormatUnifiedFormat[T](elems)
	resSlice := chunk.GetSliceInPhyFormatFlat[bool](result)
	for i := 0; i < count; i++ {
		if !flat.Mask.RowIsValid(uint64(i)) {
			chunk.SetNullInPhyFormatFlat(result, uint64(i), true)
			continue
		}
		set := treemap.New[T, bool](cmp)
		e := entries[i]
		for j := uint64(0); j < e.Length; j++ {
			pos := int(e.Offset + j)
			if !elems.RowIsValid(pos) {
				continue
			}
			set.Insert(elemSlice[elems.Sel.GetIndex(pos)], true)
		}
		_, err := set.Get(search)
		resSlice[i] = err == nil
	}
}

func containsVarchar(
	flat *chunk.Vector,
	entries []common.ListEntry,
	elems *chunk.UnifiedFormat,
	count int,
	search string,
	result *chunk.Vector,
) {
	elemSlice := chunk.GetSliceInPhyFormatUnifiedFormat[common.String](elems)
	resSlice := chunk.GetSliceInPhyFormatFlat[bool](result)
	cmp := func(a, b string) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	for i := 0; i < count; i++ {
		if !flat.Mask.RowIsValid(uint64(i)) {
			chunk.SetNullInPhyFormatFlat(result, uint64(i), true)
			continue
		}
		set := treemap.New[string, bool](cmp)
		e := entries[i]
		for j := uint64(0); j < e.Length; j++ {
			pos := int(e.Offset + j)
			if !elems.RowIsValid(pos) {
				continue
			}
			s := elemSlice[elems.Sel.GetIndex(pos)]
			set.Insert(s.String(), true)
		}
		_, err := set.Get(search)
		resSlice[i] = err == nil
	}
}
