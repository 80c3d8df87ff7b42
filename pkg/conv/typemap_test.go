package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go/parquet"

	"github.com/daviszhen/colvec/pkg/common"
)

func TestMapType(t *testing.T) {
	kases := []struct {
		ft   ForeignType
		want common.LType
	}{
		{ForeignType{Id: FT_BOOLEAN}, common.BooleanType()},
		{ForeignType{Id: FT_TINYINT}, common.TinyintType()},
		{ForeignType{Id: FT_SMALLINT}, common.SmallintType()},
		{ForeignType{Id: FT_INTEGER}, common.IntegerType()},
		{ForeignType{Id: FT_BIGINT}, common.BigintType()},
		{ForeignType{Id: FT_HUGEINT}, common.HugeintType()},
		{ForeignType{Id: FT_FLOAT}, common.FloatType()},
		{ForeignType{Id: FT_DOUBLE}, common.DoubleType()},
		{ForeignType{Id: FT_VARCHAR}, common.VarcharType()},
		{ForeignType{Id: FT_DATE}, common.DateType()},
		{ForeignType{Id: FT_TIMESTAMP}, common.TimestampType()},
		{ForeignType{Id: FT_DECIMAL, Width: 12, Scale: 2}, common.DecimalType(12, 2)},
	}
	for _, kase := range kases {
		lt, err := MapType(kase.ft)
		require.NoError(t, err)
		assert.True(t, lt.Equal(kase.want), kase.ft.Id.String())
	}
}

func TestMapTypeErrors(t *testing.T) {
	_, err := MapType(ForeignType{Id: FT_INVALID})
	require.Error(t, err)
	assert.True(t, common.IsUnsupported(err))

	_, err = MapType(ForeignType{Id: ForeignTypeId(999)})
	require.Error(t, err)
	assert.True(t, common.IsUnsupported(err))

	for _, ft := range []ForeignType{
		{Id: FT_DECIMAL, Width: 0},
		{Id: FT_DECIMAL, Width: 39},
		{Id: FT_DECIMAL, Width: 5, Scale: -1},
		{Id: FT_DECIMAL, Width: 5, Scale: 6},
	} {
		_, err = MapType(ft)
		require.Error(t, err)
		assert.True(t, common.IsUnsupported(err))
	}
}

func TestDecimalStorageSplit(t *testing.T) {
	//narrow storage is copied, wide storage is borrowed
	assert.False(t, decimalViewable(ForeignType{Id: FT_DECIMAL, Width: 4}))
	assert.False(t, decimalViewable(ForeignType{Id: FT_DECIMAL, Width: 9}))
	assert.True(t, decimalViewable(ForeignType{Id: FT_DECIMAL, Width: 10}))
	assert.True(t, decimalViewable(ForeignType{Id: FT_DECIMAL, Width: 38}))
}

func TestCloneTypes(t *testing.T) {
	types := []common.LType{
		common.ListType(common.IntegerType()),
		common.DecimalType(10, 2),
	}
	copied := CloneTypes(types)
	require.Equal(t, 2, len(copied))
	assert.True(t, copied[0].Equal(types[0]))

	//nested kids are isolated too
	copied[0].Kids[0] = common.VarcharType()
	assert.Equal(t, common.LTID_INTEGER, types[0].Kids[0].Id)
}

func TestParquetColumnType(t *testing.T) {
	se := func(typ parquet.Type, conv *parquet.ConvertedType) *parquet.SchemaElement {
		return &parquet.SchemaElement{
			Name:          "c",
			Type:          parquet.TypePtr(typ),
			ConvertedType: conv,
		}
	}

	ft, err := parquetColumnType(se(parquet.Type_BOOLEAN, nil))
	require.NoError(t, err)
	assert.Equal(t, FT_BOOLEAN, ft.Id)

	ft, err = parquetColumnType(se(parquet.Type_INT32, nil))
	require.NoError(t, err)
	assert.Equal(t, FT_INTEGER, ft.Id)

	ft, err = parquetColumnType(se(parquet.Type_INT32,
		parquet.ConvertedTypePtr(parquet.ConvertedType_DATE)))
	require.NoError(t, err)
	assert.Equal(t, FT_DATE, ft.Id)

	ft, err = parquetColumnType(se(parquet.Type_INT64,
		parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MICROS)))
	require.NoError(t, err)
	assert.Equal(t, FT_TIMESTAMP, ft.Id)

	ft, err = parquetColumnType(se(parquet.Type_BYTE_ARRAY,
		parquet.ConvertedTypePtr(parquet.ConvertedType_UTF8)))
	require.NoError(t, err)
	assert.Equal(t, FT_VARCHAR, ft.Id)

	dec := se(parquet.Type_INT64,
		parquet.ConvertedTypePtr(parquet.ConvertedType_DECIMAL))
	prec, scale := int32(12), int32(2)
	dec.Precision = &prec
	dec.Scale = &scale
	ft, err = parquetColumnType(dec)
	require.NoError(t, err)
	assert.Equal(t, ForeignType{Id: FT_DECIMAL, Width: 12, Scale: 2}, ft)

	_, err = parquetColumnType(se(parquet.Type_INT96, nil))
	require.Error(t, err)
	assert.True(t, common.IsUnsupported(err))
}
