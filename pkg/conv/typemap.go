package conv

import (
	"fmt"

	"github.com/huandu/go-clone"
	"github.com/tidwall/btree"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
)

// typeMapping binds a foreign type id to its native type and its
// transfer strategy. viewable types are bit compatible with the native
// layout and can be borrowed in place; the rest go through copyFn.
type typeMapping struct {
	id       ForeignTypeId
	toNative func(ft ForeignType) (common.LType, error)
	viewable func(ft ForeignType) bool
	copyFn   func(col ForeignColumn, lt common.LType, rows int, used []uint8, vec *chunk.Vector) error
}

var typeRegistry = btree.NewBTreeG[typeMapping](func(a, b typeMapping) bool {
	return a.id < b.id
})

func fixedType(lt common.LType) func(ForeignType) (common.LType, error) {
	return func(ForeignType) (common.LType, error) {
		return lt, nil
	}
}

func alwaysView(ForeignType) bool { return true }
func neverView(ForeignType) bool  { return false }

func init() {
	mappings := []typeMapping{
		{FT_BOOLEAN, fixedType(common.BooleanType()), alwaysView, nil},
		{FT_TINYINT, fixedType(common.TinyintType()), alwaysView, nil},
		{FT_SMALLINT, fixedType(common.SmallintType()), alwaysView, nil},
		{FT_INTEGER, fixedType(common.IntegerType()), alwaysView, nil},
		{FT_BIGINT, fixedType(common.BigintType()), alwaysView, nil},
		{FT_FLOAT, fixedType(common.FloatType()), alwaysView, nil},
		{FT_DOUBLE, fixedType(common.DoubleType()), alwaysView, nil},
		{FT_HUGEINT, fixedType(common.HugeintType()), neverView, copyHugeint},
		{FT_DECIMAL, decimalToNative, decimalViewable, copyDecimal},
		{FT_VARCHAR, fixedType(common.VarcharType()), neverView, copyVarchar},
		{FT_DATE, fixedType(common.DateType()), neverView, copyDate},
		{FT_TIMESTAMP, fixedType(common.TimestampType()), neverView, copyTimestamp},
	}
	for _, m := range mappings {
		typeRegistry.Set(m)
	}
}

func lookupMapping(id ForeignTypeId) (typeMapping, error) {
	m, has := typeRegistry.Get(typeMapping{id: id})
	if !has {
		return typeMapping{}, fmt.Errorf("foreign type %v: %w",
			id, common.ErrUnsupported)
	}
	return m, nil
}

func decimalToNative(ft ForeignType) (common.LType, error) {
	if ft.Width < 1 || ft.Width > common.DecimalMaxWidth {
		return common.LType{}, fmt.Errorf("foreign decimal width %d: %w",
			ft.Width, common.ErrUnsupported)
	}
	if ft.Scale < 0 || ft.Scale > ft.Width {
		return common.LType{}, fmt.Errorf("foreign decimal scale %d of width %d: %w",
			ft.Scale, ft.Width, common.ErrUnsupported)
	}
	return common.DecimalType(ft.Width, ft.Scale), nil
}

// 16 and 32 bit decimal storage is copied row by row; the wider
// storages share the foreign bytes.
func decimalViewable(ft ForeignType) bool {
	return ft.Width > common.DecimalMaxWidthInt32
}

// MapType resolves the native type of one foreign column type.
func MapType(ft ForeignType) (common.LType, error) {
	m, err := lookupMapping(ft.Id)
	if err != nil {
		return common.LType{}, err
	}
	return m.toNative(ft)
}

// MapTypes resolves a whole foreign schema.
func MapTypes(fts []ForeignType) ([]common.LType, error) {
	ret := make([]common.LType, 0, len(fts))
	for _, ft := range fts {
		lt, err := MapType(ft)
		if err != nil {
			return nil, err
		}
		ret = append(ret, lt)
	}
	return ret, nil
}

// CloneTypes hands out an isolated copy of a type list. Nested types
// share their Kids slices otherwise.
func CloneTypes(types []common.LType) []common.LType {
	return clone.Clone(types).([]common.LType)
}
