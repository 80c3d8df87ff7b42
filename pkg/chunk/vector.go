package chunk

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

type Vector struct {
	_PhyFormat PhyFormat
	_Typ       common.LType
	Data       []byte
	Mask       *util.Bitmap
	Buf        *VecBuffer
	Aux        *VecBuffer
}

func (vec *Vector) Init(cap int) {
	vec.Aux = nil
	vec.Mask.Reset()
	sz := vec.Typ().GetInternalType().Size()
	if sz > 0 {
		vec.Buf = NewStandardBuffer(vec.Typ(), cap)
		vec.Data = vec.Buf.Data
	}
	switch vec.Typ().Id {
	case common.LTID_LIST:
		vec.Aux = NewChildBuffer(NewFlatVector(vec.Typ().ListChild(), cap))
	case common.LTID_MAP:
		vec.Aux = NewChildBuffer(
			NewFlatVector(vec.Typ().MapKey(), cap),
			NewFlatVector(vec.Typ().MapValue(), cap))
	case common.LTID_STRUCT:
		kids := make([]*Vector, 0, len(vec.Typ().Kids))
		for _, kt := range vec.Typ().Kids {
			kids = append(kids, NewFlatVector(kt, cap))
		}
		vec.Aux = NewChildBuffer(kids...)
	}
	if cap > util.DefaultVectorSize {
		vec.Mask.Resize(util.DefaultVectorSize, cap)
	}
}

func (vec *Vector) Typ() common.LType {
	return vec._Typ
}

func (vec *Vector) PhyFormat() PhyFormat {
	return vec._PhyFormat
}

func (vec *Vector) SetPhyFormat(pf PhyFormat) {
	vec._PhyFormat = pf
	//
	if vec.Typ().GetInternalType().IsConstant() &&
		(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat()) {
		vec.Aux = nil
	}
}

func (vec *Vector) Reference(other *Vector) {
	util.AssertFunc(vec.Typ().Equal(other.Typ()))
	vec.Reinterpret(other)
}

func (vec *Vector) ReferenceValue(val *Value) {
	util.AssertFunc(vec.Typ().Id == val.Typ.Id)
	vec.SetPhyFormat(PF_CONST)
	vec.Buf = NewConstBuffer(val.Typ)
	vec.Aux = nil
	vec.Data = GetDataInPhyFormatConst(vec)
	vec.SetValue(0, val)
}

func (vec *Vector) Reinterpret(other *Vector) {
	vec._PhyFormat = other._PhyFormat
	vec.Buf = other.Buf
	vec.Aux = other.Aux
	vec.Data = other.Data
	vec.Mask = other.Mask
}

func (vec *Vector) GetValue(idx int) *Value {
	switch vec.PhyFormat() {
	case PF_CONST:
		idx = 0
	case PF_FLAT:
	case PF_DICT:
		if !vec.Mask.RowIsValid(uint64(idx)) {
			return &Value{
				Typ:    vec.Typ(),
				IsNull: true,
			}
		}
		sel := GetSelVectorInPhyFormatDict(vec)
		child := GetChildInPhyFormatDict(vec)
		return child.GetValue(sel.GetIndex(idx))
	case PF_SEQUENCE:
		var start, incr int64
		GetSequenceInPhyFormatSequence2(vec, &start, &incr)
		return &Value{
			Typ: vec.Typ(),
			I64: start + int64(idx)*incr,
		}
	default:
		panic("usp")
	}
	if !vec.Mask.RowIsValid(uint64(idx)) {
		return &Value{
			Typ:    vec.Typ(),
			IsNull: true,
		}
	}

	switch vec.Typ().Id {
	case common.LTID_TINYINT:
		data := GetSliceInPhyFormatFlat[int8](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: int64(data[idx]),
		}
	case common.LTID_SMALLINT:
		data := GetSliceInPhyFormatFlat[int16](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: int64(data[idx]),
		}
	case common.LTID_INTEGER:
		data := GetSliceInPhyFormatFlat[int32](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: int64(data[idx]),
		}
	case common.LTID_BOOLEAN:
		data := GetSliceInPhyFormatFlat[bool](vec)
		return &Value{
			Typ:  vec.Typ(),
			Bool: data[idx],
		}
	case common.LTID_VARCHAR:
		data := GetSliceInPhyFormatFlat[common.String](vec)
		return &Value{
			Typ: vec.Typ(),
			Str: data[idx].String(),
		}
	case common.LTID_DECIMAL:
		h := getDecimalUnscaled(vec.Data, vec.Typ().GetInternalType(), idx)
		return &Value{
			Typ:   vec.Typ(),
			I64:   h.Upper,
			I64_1: int64(h.Lower),
		}
	case common.LTID_DATE:
		data := GetSliceInPhyFormatFlat[common.Date](vec)
		return &Value{
			Typ:   vec.Typ(),
			I64:   int64(data[idx].Year),
			I64_1: int64(data[idx].Month),
			I64_2: int64(data[idx].Day),
		}
	case common.LTID_TIMESTAMP:
		data := GetSliceInPhyFormatFlat[common.Timestamp](vec)
		return &Value{
			Typ:   vec.Typ(),
			I64:   data[idx].Seconds,
			I64_1: data[idx].Nanos,
		}
	case common.LTID_UBIGINT:
		data := GetSliceInPhyFormatFlat[uint64](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: int64(data[idx]),
		}
	case common.LTID_BIGINT:
		data := GetSliceInPhyFormatFlat[int64](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: data[idx],
		}
	case common.LTID_DOUBLE:
		data := GetSliceInPhyFormatFlat[float64](vec)
		return &Value{
			Typ: vec.Typ(),
			F64: data[idx],
		}
	case common.LTID_FLOAT:
		data := GetSliceInPhyFormatFlat[float32](vec)
		return &Value{
			Typ: vec.Typ(),
			F64: float64(data[idx]),
		}
	case common.LTID_POINTER:
		data := GetSliceInPhyFormatFlat[unsafe.Pointer](vec)
		return &Value{
			Typ: vec.Typ(),
			I64: int64(uintptr(data[idx])),
		}
	case common.LTID_HUGEINT:
		data := GetSliceInPhyFormatFlat[common.Hugeint](vec)
		return &Value{
			Typ:   vec.Typ(),
			I64:   data[idx].Upper,
			I64_1: int64(data[idx].Lower),
		}
	case common.LTID_LIST:
		entries := GetSliceInPhyFormatFlat[common.ListEntry](vec)
		entry := entries[idx]
		child := ListChild(vec)
		kids := make([]*Value, 0, entry.Length)
		for j := uint64(0); j < entry.Length; j++ {
			kids = append(kids, child.GetValue(int(entry.Offset+j)))
		}
		return &Value{
			Typ:  vec.Typ(),
			Kids: kids,
		}
	case common.LTID_MAP:
		entries := GetSliceInPhyFormatFlat[common.ListEntry](vec)
		entry := entries[idx]
		keys := MapKeys(vec)
		values := MapValues(vec)
		kids := make([]*Value, 0, 2*entry.Length)
		for j := uint64(0); j < entry.Length; j++ {
			kids = append(kids, keys.GetValue(int(entry.Offset+j)))
			kids = append(kids, values.GetValue(int(entry.Offset+j)))
		}
		return &Value{
			Typ:  vec.Typ(),
			Kids: kids,
		}
	case common.LTID_STRUCT:
		fields := StructFields(vec)
		kids := make([]*Value, 0, len(fields))
		for _, f := range fields {
			kids = append(kids, f.GetValue(idx))
		}
		return &Value{
			Typ:  vec.Typ(),
			Kids: kids,
		}
	default:
		panic("usp")
	}
}

func getDecimalUnscaled(data []byte, pTyp common.PhyType, idx int) common.Hugeint {
	switch pTyp {
	case common.INT16:
		slice := util.ToSlice[int16](data, pTyp.Size())
		return common.HugeintFromInt64(int64(slice[idx]))
	case common.INT32:
		slice := util.ToSlice[int32](data, pTyp.Size())
		return common.HugeintFromInt64(int64(slice[idx]))
	case common.INT64:
		slice := util.ToSlice[int64](data, pTyp.Size())
		return common.HugeintFromInt64(slice[idx])
	case common.INT128:
		slice := util.ToSlice[common.Hugeint](data, pTyp.Size())
		return slice[idx]
	default:
		panic("usp")
	}
}

func setDecimalUnscaled(data []byte, pTyp common.PhyType, idx int, h common.Hugeint) {
	switch pTyp {
	case common.INT16:
		slice := util.ToSlice[int16](data, pTyp.Size())
		slice[idx] = int16(h.Lower)
	case common.INT32:
		slice := util.ToSlice[int32](data, pTyp.Size())
		slice[idx] = int32(h.Lower)
	case common.INT64:
		slice := util.ToSlice[int64](data, pTyp.Size())
		slice[idx] = int64(h.Lower)
	case common.INT128:
		slice := util.ToSlice[common.Hugeint](data, pTyp.Size())
		slice[idx] = h
	default:
		panic("usp")
	}
}

func (vec *Vector) SetValue(idx int, val *Value) {
	if vec.PhyFormat().IsDict() {
		sel := GetSelVectorInPhyFormatDict(vec)
		child := GetChildInPhyFormatDict(vec)
		child.SetValue(sel.GetIndex(idx), val)
		return
	}
	util.AssertFunc(val.Typ.Equal(vec.Typ()))
	util.AssertFunc(val.Typ.GetInternalType() == vec.Typ().GetInternalType())
	vec.Mask.Set(uint64(idx), !val.IsNull)
	if val.IsNull {
		return
	}
	if vec.Typ().Id == common.LTID_DECIMAL {
		if len(val.Str) != 0 {
			dec, err := common.ParseDecimal(val.Str)
			if err != nil {
				panic(err)
			}
			setDecimalUnscaled(vec.Data, vec.Typ().GetInternalType(), idx, dec.Value)
		} else {
			setDecimalUnscaled(vec.Data, vec.Typ().GetInternalType(), idx,
				common.Hugeint{Upper: val.I64, Lower: uint64(val.I64_1)})
		}
		return
	}
	pTyp := vec.Typ().GetInternalType()
	switch pTyp {
	case common.INT8:
		slice := util.ToSlice[int8](vec.Data, pTyp.Size())
		slice[idx] = int8(val.I64)
	case common.INT16:
		slice := util.ToSlice[int16](vec.Data, pTyp.Size())
		slice[idx] = int16(val.I64)
	case common.INT32:
		slice := util.ToSlice[int32](vec.Data, pTyp.Size())
		slice[idx] = int32(val.I64)
	case common.INT64:
		slice := util.ToSlice[int64](vec.Data, pTyp.Size())
		slice[idx] = val.I64
	case common.UINT64:
		slice := util.ToSlice[uint64](vec.Data, pTyp.Size())
		slice[idx] = val.U64
	case common.FLOAT:
		slice := util.ToSlice[float32](vec.Data, pTyp.Size())
		slice[idx] = float32(val.F64)
	case common.VARCHAR:
		slice := util.ToSlice[common.String](vec.Data, pTyp.Size())
		byteSlice := []byte(val.Str)
		dstMem := util.CMalloc(len(byteSlice))
		dst := util.PointerToSlice[byte](dstMem, len(byteSlice))
		copy(dst, byteSlice)
		slice[idx] = common.String{
			Data: dstMem,
			Len:  len(dst),
		}
	case common.DATE:
		slice := util.ToSlice[common.Date](vec.Data, pTyp.Size())
		slice[idx] = common.Date{
			Year:  int32(val.I64),
			Month: int32(val.I64_1),
			Day:   int32(val.I64_2),
		}
	case common.TIMESTAMP:
		slice := util.ToSlice[common.Timestamp](vec.Data, pTyp.Size())
		slice[idx] = common.Timestamp{
			Seconds: val.I64,
			Nanos:   val.I64_1,
		}
	case common.DOUBLE:
		slice := util.ToSlice[float64](vec.Data, pTyp.Size())
		slice[idx] = val.F64
	case common.BOOL:
		slice := util.ToSlice[bool](vec.Data, pTyp.Size())
		slice[idx] = val.Bool
	case common.INT128:
		slice := util.ToSlice[common.Hugeint](vec.Data, pTyp.Size())
		slice[idx].Upper = val.I64
		slice[idx].Lower = uint64(val.I64_1)
	default:
		panic("usp")
	}
}

func (vec *Vector) Reset() {
	vec._PhyFormat = PF_FLAT
	vec.Mask.Reset()
}

func (vec *Vector) Print(rowCount int) {
	for j := 0; j < rowCount; j++ {
		val := vec.GetValue(j)
		fmt.Println(val)
	}
	fmt.Println()
}

func (vec *Vector) Print2(prefix string, rowCount int) {
	fields := make([]zap.Field, 0)
	for j := 0; j < rowCount; j++ {
		val := vec.GetValue(j)
		fields = append(fields, zap.String("", val.String()))
	}
	util.Info(prefix, fields...)
}

func (vec *Vector) Sequence(start uint64, incr uint64, count uint64) {
	vec._PhyFormat = PF_SEQUENCE
	vec.Buf = NewStandardBuffer(common.BigintType(), 3)
	vec.Data = vec.Buf.Data
	dataSlice := GetSliceInPhyFormatSequence(vec)
	dataSlice[0] = int64(start)
	dataSlice[1] = int64(incr)
	dataSlice[2] = int64(count)
	vec.Mask = nil
	vec.Aux = nil
}

// sequence vector
func GetSliceInPhyFormatSequence(vec *Vector) []int64 {
	util.AssertFunc(vec.PhyFormat().IsSequence())
	return util.ToSlice[int64](vec.Data, common.Int64Size)
}

// constant vector
func GetDataInPhyFormatConst(vec *Vector) []byte {
	util.AssertFunc(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat())
	return vec.Data
}

func GetSliceInPhyFormatConst[T any](vec *Vector) []T {
	util.AssertFunc(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat())
	pSize := vec.Typ().GetInternalType().Size()
	return util.ToSlice[T](vec.Data, pSize)
}

func IsNullInPhyFormatConst(vec *Vector) bool {
	util.AssertFunc(vec.PhyFormat().IsConst())
	return !vec.Mask.RowIsValid(0)
}

func SetNullInPhyFormatConst(vec *Vector, null bool) {
	util.AssertFunc(vec.PhyFormat().IsConst())
	vec.Mask.Set(0, !null)
}

func ZeroSelectVectorInPhyFormatConst(cnt int, sel *SelectVector) *SelectVector {
	sel.Init(cnt)
	return sel
}

func GetMaskInPhyFormatConst(vec *Vector) *util.Bitmap {
	util.AssertFunc(vec.PhyFormat().IsConst())
	return vec.Mask
}

// flat vector
func GetDataInPhyFormatFlat(vec *Vector) []byte {
	return GetDataInPhyFormatConst(vec)
}

func GetSliceInPhyFormatFlat[T any](vec *Vector) []T {
	return GetSliceInPhyFormatConst[T](vec)
}

func SetMaskInPhyFormatFlat(vec *Vector, mask *util.Bitmap) {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	vec.Mask.ShareWith(mask)
}

func GetMaskInPhyFormatFlat(vec *Vector) *util.Bitmap {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	return vec.Mask
}

func SetNullInPhyFormatFlat(vec *Vector, idx uint64, null bool) {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	vec.Mask.Set(idx, !null)
}

func IncrSelectVectorInPhyFormatFlat() *SelectVector {
	return &SelectVector{}
}

// dictionary vector
func GetSelVectorInPhyFormatDict(vec *Vector) *SelectVector {
	util.AssertFunc(vec.PhyFormat().IsDict())
	return vec.Buf.GetSelVector()
}

func GetChildInPhyFormatDict(vec *Vector) *Vector {
	util.AssertFunc(vec.PhyFormat().IsDict())
	return vec.Aux.Children[0]
}

// list vector
func GetListEntriesInPhyFormatFlat(vec *Vector) []common.ListEntry {
	util.AssertFunc(vec.Typ().GetInternalType() == common.LIST)
	return GetSliceInPhyFormatFlat[common.ListEntry](vec)
}

func ListChild(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_LIST)
	return vec.Aux.Children[0]
}

func SetListChild(vec *Vector, child *Vector) {
	util.AssertFunc(vec.Typ().Id == common.LTID_LIST)
	vec.Aux = NewChildBuffer(child)
}

func MapKeys(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_MAP)
	return vec.Aux.Children[0]
}

func MapValues(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_MAP)
	return vec.Aux.Children[1]
}

func SetMapChildren(vec *Vector, keys, values *Vector) {
	util.AssertFunc(vec.Typ().Id == common.LTID_MAP)
	vec.Aux = NewChildBuffer(keys, values)
}

// struct vector
func StructFields(vec *Vector) []*Vector {
	util.AssertFunc(vec.Typ().Id == common.LTID_STRUCT)
	return vec.Aux.Children
}

func GetSequenceInPhyFormatSequence2(vec *Vector, start, incr *int64) {
	var seqCount int64
	GetSequenceInPhyFormatSequence(vec, start, incr, &seqCount)
}

func SetData(vec *Vector, slice []byte) {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	vec.Data = slice
}

func HasNull(input *Vector, count int) bool {
	if count == 0 {
		return false
	}

	if input.PhyFormat() == PF_CONST {
		return IsNullInPhyFormatConst(input)
	} else {
		var data UnifiedFormat
		input.ToUnifiedFormat(count, &data)

		for i := 0; i < count; i++ {
			if !data.RowIsValid(i) {
				return true
			}
		}
		return false
	}
}
