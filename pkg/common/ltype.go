package common

import (
	"fmt"
)

// LType is the logical type of a vector. Width/Scale carry decimal
// precision; Kids carries nested child types (one for LIST, key then
// value for MAP, one per field for STRUCT).
type LType struct {
	Id    LTypeId
	PTyp  PhyType
	Width int
	Scale int
	Kids  []LType
	Names []string
}

func MakeLType(id LTypeId) LType {
	ret := LType{Id: id}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func Null() LType {
	return MakeLType(LTID_NULL)
}

func DecimalType(width, scale int) LType {
	ret := LType{Id: LTID_DECIMAL, Width: width, Scale: scale}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func HugeintType() LType {
	return MakeLType(LTID_HUGEINT)
}

func BigintType() LType {
	return MakeLType(LTID_BIGINT)
}

func IntegerType() LType {
	return MakeLType(LTID_INTEGER)
}

func FloatType() LType {
	return MakeLType(LTID_FLOAT)
}

func DoubleType() LType {
	return MakeLType(LTID_DOUBLE)
}

func TinyintType() LType {
	return MakeLType(LTID_TINYINT)
}

func SmallintType() LType {
	return MakeLType(LTID_SMALLINT)
}

func VarcharType() LType {
	return MakeLType(LTID_VARCHAR)
}

func DateType() LType {
	return MakeLType(LTID_DATE)
}

func TimestampType() LType {
	return MakeLType(LTID_TIMESTAMP)
}

func BooleanType() LType {
	return MakeLType(LTID_BOOLEAN)
}

func PointerType() LType {
	return MakeLType(LTID_POINTER)
}

func UbigintType() LType {
	return MakeLType(LTID_UBIGINT)
}

func ListType(child LType) LType {
	ret := LType{Id: LTID_LIST, Kids: []LType{child}}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func MapType(key, value LType) LType {
	ret := LType{Id: LTID_MAP, Kids: []LType{key, value}}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func StructType(fields []LType, names []string) LType {
	ret := LType{Id: LTID_STRUCT, Kids: fields, Names: names}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func (lt LType) ListChild() LType {
	return lt.Kids[0]
}

func (lt LType) MapKey() LType {
	return lt.Kids[0]
}

func (lt LType) MapValue() LType {
	return lt.Kids[1]
}

func (lt LType) IsNested() bool {
	return lt.Id == LTID_LIST || lt.Id == LTID_MAP || lt.Id == LTID_STRUCT
}

func CopyLTypes(typs ...LType) []LType {
	ret := make([]LType, 0)
	ret = append(ret, typs...)
	return ret
}

var Numerics = map[LTypeId]int{
	LTID_TINYINT:   0,
	LTID_SMALLINT:  0,
	LTID_INTEGER:   0,
	LTID_BIGINT:    0,
	LTID_HUGEINT:   0,
	LTID_FLOAT:     0,
	LTID_DOUBLE:    0,
	LTID_DECIMAL:   0,
	LTID_UTINYINT:  0,
	LTID_USMALLINT: 0,
	LTID_UINTEGER:  0,
	LTID_UBIGINT:   0,
}

func (lt LType) IsNumeric() bool {
	if _, has := Numerics[lt.Id]; has {
		return true
	}
	return false
}

var Integrals = map[LTypeId]int{
	LTID_TINYINT:   0,
	LTID_SMALLINT:  0,
	LTID_INTEGER:   0,
	LTID_BIGINT:    0,
	LTID_UTINYINT:  0,
	LTID_USMALLINT: 0,
	LTID_UINTEGER:  0,
	LTID_UBIGINT:   0,
	LTID_HUGEINT:   0,
}

func (lt LType) IsIntegral() bool {
	if _, has := Integrals[lt.Id]; has {
		return true
	}
	return false
}

func (lt LType) Equal(o LType) bool {
	if lt.Id != o.Id {
		return false
	}
	switch lt.Id {
	case LTID_DECIMAL:
		return lt.Width == o.Width && lt.Scale == o.Scale
	case LTID_LIST, LTID_MAP, LTID_STRUCT:
		if len(lt.Kids) != len(o.Kids) {
			return false
		}
		for i := range lt.Kids {
			if !lt.Kids[i].Equal(o.Kids[i]) {
				return false
			}
		}
	default:
	}
	return true
}

func (lt LType) GetInternalType() PhyType {
	switch lt.Id {
	case LTID_BOOLEAN:
		return BOOL
	case LTID_TINYINT:
		return INT8
	case LTID_UTINYINT:
		return UINT8
	case LTID_SMALLINT:
		return INT16
	case LTID_USMALLINT:
		return UINT16
	case LTID_NULL, LTID_INTEGER:
		return INT32
	case LTID_DATE:
		return DATE
	case LTID_UINTEGER:
		return UINT32
	case LTID_BIGINT:
		return INT64
	case LTID_TIMESTAMP:
		return TIMESTAMP
	case LTID_UBIGINT:
		return UINT64
	case LTID_HUGEINT:
		return INT128
	case LTID_FLOAT:
		return FLOAT
	case LTID_DOUBLE:
		return DOUBLE
	case LTID_DECIMAL:
		if lt.Width <= DecimalMaxWidthInt16 {
			return INT16
		} else if lt.Width <= DecimalMaxWidthInt32 {
			return INT32
		} else if lt.Width <= DecimalMaxWidthInt64 {
			return INT64
		}
		return INT128
	case LTID_VARCHAR:
		return VARCHAR
	case LTID_STRUCT:
		return STRUCT
	case LTID_LIST, LTID_MAP:
		return LIST
	case LTID_POINTER:
		return UINT64
	case LTID_INVALID:
		return INVALID
	default:
		panic(fmt.Sprintf("usp logical type %d", lt.Id))
	}
}

func (lt LType) String() string {
	switch lt.Id {
	case LTID_DECIMAL:
		return fmt.Sprintf("DECIMAL(%d,%d)", lt.Width, lt.Scale)
	case LTID_LIST:
		return fmt.Sprintf("LIST(%v)", lt.Kids[0])
	case LTID_MAP:
		return fmt.Sprintf("MAP(%v,%v)", lt.Kids[0], lt.Kids[1])
	case LTID_STRUCT:
		return fmt.Sprintf("STRUCT%v", lt.Kids)
	}
	return fmt.Sprintf("%v", lt.PTyp)
}

const (
	DecimalMaxWidthInt16  = 4
	DecimalMaxWidthInt32  = 9
	DecimalMaxWidthInt64  = 18
	DecimalMaxWidthInt128 = 38
	DecimalMaxWidth       = DecimalMaxWidthInt128
)
