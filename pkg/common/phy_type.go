package common

import (
	"fmt"
	"unsafe"
)

type PhyType int

const (
	NA        PhyType = 0
	BOOL      PhyType = 1
	UINT8     PhyType = 2
	INT8      PhyType = 3
	UINT16    PhyType = 4
	INT16     PhyType = 5
	UINT32    PhyType = 6
	INT32     PhyType = 7
	UINT64    PhyType = 8
	INT64     PhyType = 9
	FLOAT     PhyType = 11
	DOUBLE    PhyType = 12
	LIST      PhyType = 23
	STRUCT    PhyType = 24
	VARCHAR   PhyType = 200
	INT128    PhyType = 204
	UNKNOWN   PhyType = 205
	BIT       PhyType = 206
	DATE      PhyType = 207
	POINTER   PhyType = 208
	TIMESTAMP PhyType = 210

	INVALID PhyType = 255
)

var pTypeToStr = map[PhyType]string{
	NA:        "NA",
	BOOL:      "BOOL",
	UINT8:     "UINT8",
	INT8:      "INT8",
	UINT16:    "UINT16",
	INT16:     "INT16",
	UINT32:    "UINT32",
	INT32:     "INT32",
	UINT64:    "UINT64",
	INT64:     "INT64",
	FLOAT:     "FLOAT",
	DOUBLE:    "DOUBLE",
	LIST:      "LIST",
	STRUCT:    "STRUCT",
	VARCHAR:   "VARCHAR",
	INT128:    "INT128",
	UNKNOWN:   "UNKNOWN",
	BIT:       "BIT",
	DATE:      "DATE",
	POINTER:   "POINTER",
	TIMESTAMP: "TIMESTAMP",
	INVALID:   "INVALID",
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", pt))
}

// ListEntry is the per-row payload of LIST and MAP vectors. It points
// into the child vector: Length elements starting at Offset.
type ListEntry struct {
	Offset uint64
	Length uint64
}

var (
	BoolSize      int
	Int8Size      int
	Int16Size     int
	Int32Size     int
	Int64Size     int
	Int128Size    int
	DateSize      int
	TimestampSize int
	VarcharSize   int
	PointerSize   int
	ListEntrySize int
	Float32Size   int
)

func init() {
	b := false
	BoolSize = int(unsafe.Sizeof(b))
	i := int8(0)
	Int8Size = int(unsafe.Sizeof(i))
	Int16Size = Int8Size * 2
	Int32Size = Int8Size * 4
	Int64Size = Int8Size * 8
	Int128Size = int(unsafe.Sizeof(Hugeint{}))
	DateSize = int(unsafe.Sizeof(Date{}))
	TimestampSize = int(unsafe.Sizeof(Timestamp{}))
	VarcharSize = int(unsafe.Sizeof(String{}))
	PointerSize = int(unsafe.Sizeof(unsafe.Pointer(&b)))
	ListEntrySize = int(unsafe.Sizeof(ListEntry{}))
	f := float32(0)
	Float32Size = int(unsafe.Sizeof(f))
}

func (pt PhyType) Size() int {
	switch pt {
	case BIT:
		return BoolSize
	case BOOL:
		return BoolSize
	case INT8:
		return Int8Size
	case INT16:
		return Int16Size
	case INT32:
		return Int32Size
	case INT64:
		return Int64Size
	case UINT8:
		return Int8Size
	case UINT16:
		return Int16Size
	case UINT32:
		return Int32Size
	case UINT64:
		return Int64Size
	case INT128:
		return Int128Size
	case FLOAT:
		return Float32Size
	case DOUBLE:
		return Int64Size
	case VARCHAR:
		return VarcharSize
	case STRUCT:
		return 0
	case UNKNOWN:
		return 0
	case LIST:
		return ListEntrySize
	case DATE:
		return DateSize
	case TIMESTAMP:
		return TimestampSize
	case POINTER:
		return PointerSize
	default:
		panic("usp")
	}
}

func (pt PhyType) IsConstant() bool {
	return pt >= BOOL && pt <= DOUBLE ||
		pt == INT128 ||
		pt == DATE ||
		pt == TIMESTAMP ||
		pt == POINTER
}

func (pt PhyType) IsVarchar() bool {
	return pt == VARCHAR
}

func (pt PhyType) IsNested() bool {
	return pt == LIST || pt == STRUCT
}
