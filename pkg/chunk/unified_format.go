package chunk

import (
	"github.com/daviszhen/colvec/pkg/util"
)

// UnifiedFormat is a decoded view of a vector: flat data plus a
// selection. Mask is indexed in data space (through Sel); RowMask, when
// set, carries dictionary-level nulls in row space.
type UnifiedFormat struct {
	Sel      *SelectVector
	Data     []byte
	Mask     *util.Bitmap
	RowMask  *util.Bitmap
	InterSel SelectVector
	PTypSize int
	// true when no indirection was needed: Sel is identity and data
	// may be read positionally
	Identity bool
	// the non-dictionary vector the data came from; needed to reach
	// nested children
	Vec *Vector
}

func GetSliceInPhyFormatUnifiedFormat[T any](uni *UnifiedFormat) []T {
	return util.ToSlice[T](uni.Data, uni.PTypSize)
}

// RowIsValid resolves validity for a row position, checking
// dictionary-level nulls before the data-space mask.
func (uni *UnifiedFormat) RowIsValid(row int) bool {
	if uni.RowMask != nil && !uni.RowMask.RowIsValid(uint64(row)) {
		return false
	}
	idx := uni.Sel.GetIndex(row)
	return uni.Mask.RowIsValid(uint64(idx))
}
