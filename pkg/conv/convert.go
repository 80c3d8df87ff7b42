package conv

import (
	"fmt"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

// convertChunk turns one foreign batch into a native chunk. Columns
// whose layout is bit compatible are borrowed through view buffers
// that retain the foreign chunk; everything else is copied. On error
// nothing is published and every retained view is released again.
func convertChunk(
	fc ForeignChunk,
	fts []ForeignType,
	types []common.LType,
) (*chunk.Chunk, []*chunk.VecBuffer, error) {
	card := fc.Card()
	var adopted []*chunk.VecBuffer
	adopt := func(buf *chunk.VecBuffer) {
		adopted = append(adopted, buf)
	}

	ret := &chunk.Chunk{}
	for i := range fts {
		vec, err := convertColumn(fc, fc.Column(i), fts[i], types[i], card, adopt)
		if err != nil {
			for _, buf := range adopted {
				buf.Unref()
			}
			return nil, nil, err
		}
		ret.Data = append(ret.Data, vec)
	}
	ret.SetCap(util.Max(card, util.DefaultVectorSize))
	ret.SetCard(card)
	return ret, adopted, nil
}

func convertColumn(
	fc ForeignChunk,
	col ForeignColumn,
	ft ForeignType,
	lt common.LType,
	rows int,
	adopt func(*chunk.VecBuffer),
) (*chunk.Vector, error) {
	m, err := lookupMapping(ft.Id)
	if err != nil {
		return nil, err
	}
	switch col.Encoding() {
	case FE_FLAT:
		return convertFlat(fc, col, m, ft, lt, rows, nil, adopt)
	case FE_CONST:
		return convertConst(col, m, lt)
	case FE_DICT:
		return convertDict(fc, col, m, ft, lt, rows, adopt)
	default:
		return nil, fmt.Errorf("foreign encoding %v on %v column: %w",
			col.Encoding(), ft.Id, common.ErrUnsupported)
	}
}

func convertFlat(
	fc ForeignChunk,
	col ForeignColumn,
	m typeMapping,
	ft ForeignType,
	lt common.LType,
	rows int,
	used []uint8,
	adopt func(*chunk.VecBuffer),
) (*chunk.Vector, error) {
	if rows == 0 {
		return chunk.NewFlatVector(lt, util.DefaultVectorSize), nil
	}
	if m.viewable(ft) {
		if col.Data() == nil {
			return nil, fmt.Errorf("%v column has no data: %w",
				ft.Id, common.ErrValidation)
		}
		fc.Retain()
		buf := chunk.NewViewBuffer(col.Data(),
			lt.GetInternalType().Size()*rows, fc.Release)
		adopt(buf)
		return chunk.NewViewVector(lt, buf, col.Validity()), nil
	}
	vec := chunk.NewFlatVector(lt, util.Max(rows, util.DefaultVectorSize))
	if err := m.copyFn(col, lt, rows, used, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

func convertConst(
	col ForeignColumn,
	m typeMapping,
	lt common.LType,
) (*chunk.Vector, error) {
	vec := chunk.NewConstVector(lt)
	if !slotLive(col.Validity(), nil, 0) {
		chunk.SetNullInPhyFormatConst(vec, true)
		return vec, nil
	}
	if m.copyFn != nil {
		if err := m.copyFn(col, lt, 1, nil, vec); err != nil {
			return nil, err
		}
		return vec, nil
	}
	if col.Data() == nil {
		return nil, fmt.Errorf("constant column has no data: %w",
			common.ErrValidation)
	}
	util.PointerCopy(util.BytesSliceToPointer(vec.Data), col.Data(),
		lt.GetInternalType().Size())
	return vec, nil
}

// convertDict rebuilds a foreign dictionary without touching value
// order: the child is converted once, only for the slots some row
// actually references, and the row indices become a selection over it.
func convertDict(
	fc ForeignChunk,
	col ForeignColumn,
	m typeMapping,
	ft ForeignType,
	lt common.LType,
	rows int,
	adopt func(*chunk.VecBuffer),
) (*chunk.Vector, error) {
	sel := col.Selection()
	if len(sel) < rows {
		return nil, fmt.Errorf("dictionary selection holds %d indices for %d rows: %w",
			len(sel), rows, common.ErrValidation)
	}
	base := col.Child()
	if base == nil {
		return nil, fmt.Errorf("dictionary column without values: %w",
			common.ErrValidation)
	}
	if base.Encoding() != FE_FLAT {
		return nil, fmt.Errorf("dictionary over %v values: %w",
			base.Encoding(), common.ErrUnsupported)
	}

	//the child only needs maxIndex+1 slots
	childLen := 0
	for i := 0; i < rows; i++ {
		if int(sel[i]) >= childLen {
			childLen = int(sel[i]) + 1
		}
	}
	used := make([]uint8, util.EntryCount(childLen))
	for i := 0; i < rows; i++ {
		util.SetBitInData(used, uint64(sel[i]))
	}

	child, err := convertFlat(fc, base, m, ft, lt, childLen, used, adopt)
	if err != nil {
		return nil, err
	}
	selVec := chunk.NewSelectVector(rows)
	for i := 0; i < rows; i++ {
		selVec.SetIndex(i, int(sel[i]))
	}
	return chunk.WrapInDictionary(col.Validity(), selVec, rows, child), nil
}

// slotLive reports whether slot i must be transferred. used is the
// referenced-slot map of a dictionary child; nil means every slot.
func slotLive(validity *util.Bitmap, used []uint8, i int) bool {
	if used != nil && !util.BitIsSetInData(used, uint64(i)) {
		return false
	}
	if validity != nil && !validity.RowIsValid(uint64(i)) {
		return false
	}
	return true
}

// maskDead nulls the slots slotLive skipped so they never read as
// defined values.
func maskDead(vec *chunk.Vector, validity *util.Bitmap, used []uint8, rows int) {
	for i := 0; i < rows; i++ {
		if !slotLive(validity, used, i) {
			vec.Mask.SetInvalid(uint64(i))
		}
	}
}

func copySame[T any](col ForeignColumn, rows int, used []uint8, vec *chunk.Vector) {
	src := util.PointerToSlice[T](col.Data(), rows)
	dst := chunk.GetSliceInPhyFormatConst[T](vec)
	for i := 0; i < rows; i++ {
		if slotLive(col.Validity(), used, i) {
			dst[i] = src[i]
		}
	}
}

func copyHugeint(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error {
	copySame[common.Hugeint](col, rows, used, vec)
	maskDead(vec, col.Validity(), used, rows)
	return nil
}

func copyDecimal(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error {
	switch lt.GetInternalType() {
	case common.INT16:
		copySame[int16](col, rows, used, vec)
	case common.INT32:
		copySame[int32](col, rows, used, vec)
	case common.INT64:
		copySame[int64](col, rows, used, vec)
	case common.INT128:
		copySame[common.Hugeint](col, rows, used, vec)
	default:
		panic("usp")
	}
	maskDead(vec, col.Validity(), used, rows)
	return nil
}

// copyDate widens foreign epoch days into calendar dates.
func copyDate(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error {
	src := util.PointerToSlice[int32](col.Data(), rows)
	dst := chunk.GetSliceInPhyFormatConst[common.Date](vec)
	for i := 0; i < rows; i++ {
		if slotLive(col.Validity(), used, i) {
			dst[i] = common.DateFromDays(src[i])
		}
	}
	maskDead(vec, col.Validity(), used, rows)
	return nil
}

// copyTimestamp splits foreign epoch micros into seconds and nanos.
func copyTimestamp(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error {
	src := util.PointerToSlice[int64](col.Data(), rows)
	dst := chunk.GetSliceInPhyFormatConst[common.Timestamp](vec)
	for i := 0; i < rows; i++ {
		if slotLive(col.Validity(), used, i) {
			dst[i] = common.TimestampFromMicros(src[i])
		}
	}
	maskDead(vec, col.Validity(), used, rows)
	return nil
}

func copyVarchar(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error {
	sc, ok := col.(StringColumn)
	if !ok {
		return fmt.Errorf("varchar column exposes no strings: %w",
			common.ErrUnsupported)
	}
	dst := chunk.GetSliceInPhyFormatConst[common.String](vec)
	for i := 0; i < rows; i++ {
		if !slotLive(col.Validity(), used, i) {
			continue
		}
		bytes := sc.StringAt(i)
		ptr := util.CMalloc(len(bytes))
		util.PointerCopy2(ptr, bytes, len(bytes))
		dst[i] = common.String{Len: len(bytes), Data: ptr}
	}
	maskDead(vec, col.Validity(), used, rows)
	return nil
}
