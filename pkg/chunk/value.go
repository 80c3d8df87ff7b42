package chunk

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/daviszhen/colvec/pkg/common"
)

type Value struct {
	Typ    common.LType
	IsNull bool
	//value
	Bool  bool
	I64   int64
	I64_1 int64
	I64_2 int64
	U64   uint64
	F64   float64
	Str   string
	//nested rows: list elements, map key/value pairs, struct fields
	Kids []*Value
}

func (val Value) String() string {
	if val.IsNull {
		return "NULL"
	}
	switch val.Typ.Id {
	case common.LTID_TINYINT, common.LTID_SMALLINT,
		common.LTID_INTEGER, common.LTID_BIGINT:
		return fmt.Sprintf("%d", val.I64)
	case common.LTID_BOOLEAN:
		return fmt.Sprintf("%v", val.Bool)
	case common.LTID_VARCHAR:
		return val.Str
	case common.LTID_DECIMAL:
		if len(val.Str) != 0 {
			return val.Str
		}
		dec := common.NewDecimal(
			common.Hugeint{Upper: val.I64, Lower: uint64(val.I64_1)},
			val.Typ.Width, val.Typ.Scale)
		return dec.String()
	case common.LTID_DATE:
		dat := time.Date(int(val.I64), time.Month(val.I64_1), int(val.I64_2),
			0, 0, 0, 0, time.UTC)
		return dat.Format(time.DateOnly)
	case common.LTID_TIMESTAMP:
		ts := common.Timestamp{Seconds: val.I64, Nanos: val.I64_1}
		return ts.String()
	case common.LTID_UBIGINT:
		return fmt.Sprintf("%d", val.U64)
	case common.LTID_DOUBLE:
		return fmt.Sprintf("%v", val.F64)
	case common.LTID_FLOAT:
		return fmt.Sprintf("%v", val.F64)
	case common.LTID_POINTER:
		return fmt.Sprintf("0x%x", val.I64)
	case common.LTID_HUGEINT:
		h := common.Hugeint{Upper: val.I64, Lower: uint64(val.I64_1)}
		return h.String()
	case common.LTID_LIST:
		parts := make([]string, 0, len(val.Kids))
		for _, kid := range val.Kids {
			parts = append(parts, kid.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case common.LTID_MAP:
		parts := make([]string, 0, len(val.Kids)/2)
		for i := 0; i+1 < len(val.Kids); i += 2 {
			parts = append(parts, val.Kids[i].String()+"=>"+val.Kids[i+1].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case common.LTID_STRUCT:
		parts := make([]string, 0, len(val.Kids))
		for i, kid := range val.Kids {
			name := ""
			if i < len(val.Typ.Names) {
				name = val.Typ.Names[i] + ": "
			}
			parts = append(parts, name+kid.String())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		panic("usp")
	}
}

func MaxValue(typ common.LType) *Value {
	ret := &Value{
		Typ: typ,
	}
	switch typ.Id {
	case common.LTID_BOOLEAN:
		ret.Bool = true
	case common.LTID_INTEGER:
		ret.I64 = math.MaxInt32
	case common.LTID_BIGINT:
		ret.I64 = math.MaxInt64
	case common.LTID_UBIGINT:
		ret.U64 = math.MaxUint64
	default:
		panic("usp")
	}
	return ret
}

func MinValue(typ common.LType) *Value {
	ret := &Value{
		Typ: typ,
	}
	switch typ.Id {
	case common.LTID_BOOLEAN:
		ret.Bool = false
	case common.LTID_INTEGER:
		ret.I64 = math.MinInt32
	case common.LTID_BIGINT:
		ret.I64 = math.MinInt64
	case common.LTID_UBIGINT:
		ret.U64 = 0
	default:
		panic("usp")
	}
	return ret
}
