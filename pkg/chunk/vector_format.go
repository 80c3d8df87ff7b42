package chunk

import (
	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

// Format conversion methods for Vector
func (vec *Vector) Flatten(cnt int) {
	switch vec.PhyFormat() {
	case PF_FLAT:
	case PF_CONST:
		null := IsNullInPhyFormatConst(vec)
		oldData := vec.Data
		vec.Buf = NewStandardBuffer(vec._Typ, util.Max(util.DefaultVectorSize, cnt))
		vec.Data = vec.Buf.Data
		vec._PhyFormat = PF_FLAT
		if null {
			vec.Mask.SetAllInvalid(cnt)
			return
		}
		//fill flat vector
		pTyp := vec.Typ().GetInternalType()
		switch pTyp {
		case common.BOOL:
			FlattenConstVector[bool](vec.Data, oldData, pTyp.Size(), cnt)
		case common.UINT8:
			FlattenConstVector[uint8](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT8:
			FlattenConstVector[int8](vec.Data, oldData, pTyp.Size(), cnt)
		case common.UINT16:
			FlattenConstVector[uint16](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT16:
			FlattenConstVector[int16](vec.Data, oldData, pTyp.Size(), cnt)
		case common.UINT32:
			FlattenConstVector[uint32](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT32:
			FlattenConstVector[int32](vec.Data, oldData, pTyp.Size(), cnt)
		case common.UINT64:
			FlattenConstVector[uint64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT64:
			FlattenConstVector[int64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.FLOAT:
			FlattenConstVector[float32](vec.Data, oldData, pTyp.Size(), cnt)
		case common.DOUBLE:
			FlattenConstVector[float64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT128:
			FlattenConstVector[common.Hugeint](vec.Data, oldData, pTyp.Size(), cnt)
		case common.DATE:
			FlattenConstVector[common.Date](vec.Data, oldData, pTyp.Size(), cnt)
		case common.TIMESTAMP:
			FlattenConstVector[common.Timestamp](vec.Data, oldData, pTyp.Size(), cnt)
		case common.VARCHAR:
			// payload bytes stay shared with the constant
			FlattenConstVector[common.String](vec.Data, oldData, pTyp.Size(), cnt)
		case common.LIST:
			FlattenConstVector[common.ListEntry](vec.Data, oldData, pTyp.Size(), cnt)
		default:
			panic("usp")
		}
	case PF_DICT:
		vec.flattenDict(cnt)
	}
}

// flattenDict materializes a dictionary vector into flat form,
// resolving nested dictionary hops.
func (vec *Vector) flattenDict(cnt int) {
	var uf UnifiedFormat
	vec.ToUnifiedFormat(cnt, &uf)
	base := uf.Vec
	newBuf := NewStandardBuffer(vec._Typ, util.Max(util.DefaultVectorSize, cnt))
	pTyp := vec.Typ().GetInternalType()
	switch pTyp {
	case common.BOOL:
		gatherFlatten[bool](&uf, newBuf.Data, cnt)
	case common.UINT8:
		gatherFlatten[uint8](&uf, newBuf.Data, cnt)
	case common.INT8:
		gatherFlatten[int8](&uf, newBuf.Data, cnt)
	case common.UINT16:
		gatherFlatten[uint16](&uf, newBuf.Data, cnt)
	case common.INT16:
		gatherFlatten[int16](&uf, newBuf.Data, cnt)
	case common.UINT32:
		gatherFlatten[uint32](&uf, newBuf.Data, cnt)
	case common.INT32:
		gatherFlatten[int32](&uf, newBuf.Data, cnt)
	case common.UINT64:
		gatherFlatten[uint64](&uf, newBuf.Data, cnt)
	case common.INT64:
		gatherFlatten[int64](&uf, newBuf.Data, cnt)
	case common.FLOAT:
		gatherFlatten[float32](&uf, newBuf.Data, cnt)
	case common.DOUBLE:
		gatherFlatten[float64](&uf, newBuf.Data, cnt)
	case common.INT128:
		gatherFlatten[common.Hugeint](&uf, newBuf.Data, cnt)
	case common.DATE:
		gatherFlatten[common.Date](&uf, newBuf.Data, cnt)
	case common.TIMESTAMP:
		gatherFlatten[common.Timestamp](&uf, newBuf.Data, cnt)
	case common.VARCHAR:
		gatherFlatten[common.String](&uf, newBuf.Data, cnt)
	case common.LIST:
		gatherFlatten[common.ListEntry](&uf, newBuf.Data, cnt)
	default:
		panic("usp")
	}
	newMask := &util.Bitmap{}
	for i := 0; i < cnt; i++ {
		if !uf.RowIsValid(i) {
			newMask.SetInvalid(uint64(i))
		}
	}
	vec._PhyFormat = PF_FLAT
	vec.Buf = newBuf
	vec.Data = newBuf.Data
	vec.Mask = newMask
	// nested children survive the gather untouched
	vec.Aux = base.Aux
}

func gatherFlatten[T any](uf *UnifiedFormat, dst []byte, cnt int) {
	src := GetSliceInPhyFormatUnifiedFormat[T](uf)
	dstSlice := util.ToSlice[T](dst, uf.PTypSize)
	for i := 0; i < cnt; i++ {
		idx := uf.Sel.GetIndex(i)
		dstSlice[i] = src[idx]
	}
}

func (vec *Vector) Flatten2(sel *SelectVector, cnt int) {
	if vec.PhyFormat().IsFlat() {
		return
	}
	panic("usp")
}

// ToUnifiedFormat decodes the vector: nested dictionary hops are
// composed into a single selection over the non-dictionary base.
func (vec *Vector) ToUnifiedFormat(count int, output *UnifiedFormat) {
	output.PTypSize = vec._Typ.GetInternalType().Size()
	output.Identity = false
	output.RowMask = nil

	src := vec
	var composed *SelectVector
	for src.PhyFormat().IsDict() {
		dictSel := GetSelVectorInPhyFormatDict(src)
		if src.Mask != nil && src.Mask.IsMaskSet() {
			if output.RowMask == nil {
				rm := &util.Bitmap{}
				rm.Init(count)
				output.RowMask = rm
			}
			for i := 0; i < count; i++ {
				pos := i
				if composed != nil {
					pos = composed.GetIndex(i)
				}
				if !src.Mask.RowIsValid(uint64(pos)) {
					output.RowMask.SetInvalidUnsafe(uint64(i))
				}
			}
		}
		if composed == nil {
			composed = &SelectVector{}
			composed.Init2(dictSel)
		} else {
			composed = NewSelectVector3(dictSel.Slice(composed, count))
		}
		src = GetChildInPhyFormatDict(src)
	}

	switch src.PhyFormat() {
	case PF_CONST:
		output.Sel = ZeroSelectVectorInPhyFormatConst(count, &output.InterSel)
		output.Data = GetDataInPhyFormatConst(src)
		output.Mask = GetMaskInPhyFormatConst(src)
	case PF_FLAT:
		if composed == nil {
			output.Sel = IncrSelectVectorInPhyFormatFlat()
			output.Identity = true
		} else {
			output.Sel = composed
		}
		output.Data = GetDataInPhyFormatFlat(src)
		output.Mask = GetMaskInPhyFormatFlat(src)
	default:
		panic("usp")
	}
	output.Vec = src
}

// WrapInDictionary builds a zero-copy dictionary view of base: row i
// reads base[sel[i]], with optional dictionary-level nulls. An identity
// wrap of a flat base returns base itself.
func WrapInDictionary(nulls *util.Bitmap, sel *SelectVector, count int, base *Vector) *Vector {
	if nulls == nil && base.PhyFormat().IsFlat() && sel.IsIdentity(count) {
		return base
	}
	child := &Vector{
		_Typ: base.Typ(),
		Mask: &util.Bitmap{},
	}
	child.Reference(base)
	vec := &Vector{
		_PhyFormat: PF_DICT,
		_Typ:       base.Typ(),
		Mask:       &util.Bitmap{},
	}
	if nulls != nil {
		vec.Mask.ShareWith(nulls)
	}
	vec.Buf = NewDictBuffer2(sel)
	vec.Aux = NewChildBuffer(child)
	return vec
}

func (vec *Vector) SliceOnSelf(sel *SelectVector, count int) {
	if vec.PhyFormat().IsConst() {
	} else if vec.PhyFormat().IsDict() {
		//dict
		curSel := GetSelVectorInPhyFormatDict(vec)
		buf := curSel.Slice(sel, count)
		vec.Buf = NewDictBuffer(buf)
	} else {
		//flat
		child := &Vector{
			_Typ: vec.Typ(),
			Mask: &util.Bitmap{},
		}
		child.Reference(vec)
		childRef := NewChildBuffer(child)
		dictBuf := NewDictBuffer2(sel)
		vec._PhyFormat = PF_DICT
		vec.Buf = dictBuf
		vec.Aux = childRef
		vec.Mask = &util.Bitmap{}
	}
}

func (vec *Vector) Slice2(sel *SelectVector, count int) {
	vec.SliceOnSelf(sel, count)
}

func (vec *Vector) Slice(other *Vector, sel *SelectVector, count int) {
	vec.Reference(other)
	vec.SliceOnSelf(sel, count)
}

// Helper functions for format conversion
func FlattenConstVector[T any](data []byte, srcData []byte, pSize int, cnt int) {
	src := util.ToSlice[T](srcData, pSize)
	dst := util.ToSlice[T](data, pSize)
	for i := 0; i < cnt; i++ {
		dst[i] = src[0]
	}
}
