package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
)

func fetchOne(t *testing.T, eng Engine, sql string) (*Result, *chunk.Chunk) {
	res := Execute(eng, sql)
	require.True(t, res.Success(), res.ErrorMessage())
	next, err := res.Next()
	require.NoError(t, err)
	require.True(t, next)
	out, err := res.GetVector()
	require.NoError(t, err)
	return res, out
}

func TestConvertFlatInt32(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_INTEGER}})
	mc := tab.NewChunk(eng, 4)
	FlatColumn(mc, []int32{1, 2, 3, 4}, 2)

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	require.Equal(t, 4, out.Card())
	vec := out.Data[0]
	//bit compatible columns are borrowed, not copied
	assert.True(t, vec.Buf.IsView())
	data := chunk.GetSliceInPhyFormatFlat[int32](vec)
	assert.Equal(t, int32(1), data[0])
	assert.Equal(t, int32(4), data[3])
	assert.False(t, vec.Mask.RowIsValid(2))
	assert.True(t, vec.Mask.RowIsValid(3))

	next, err := res.Next()
	require.NoError(t, err)
	assert.False(t, next)
}

func TestConvertDictionary(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_BIGINT}})
	mc := tab.NewChunk(eng, 4)
	DictColumn(mc, []int64{10, 20, 30}, []uint32{2, 0, 2, 1})

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	vec := out.Data[0]
	require.True(t, vec.PhyFormat().IsDict())
	for i, want := range []int64{30, 10, 30, 20} {
		assert.Equal(t, want, vec.GetValue(i).I64, "row %d", i)
	}
}

func TestConvertDictionaryNulls(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_INTEGER}})
	mc := tab.NewChunk(eng, 3)
	DictColumn(mc, []int32{7, 8}, []uint32{1, 0, 1}, 1)

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	vec := out.Data[0]
	assert.Equal(t, int64(8), vec.GetValue(0).I64)
	assert.True(t, vec.GetValue(1).IsNull)
	assert.Equal(t, int64(8), vec.GetValue(2).I64)
}

func TestConvertStrings(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"s", "d"},
		[]ForeignType{{Id: FT_VARCHAR}, {Id: FT_VARCHAR}})
	mc := tab.NewChunk(eng, 3)
	StringFlatColumn(mc, []string{"ab", "", "xyz"}, 1)
	StringDictColumn(mc, []string{"lo", "hi"}, []uint32{1, 1, 0})

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	flat := out.Data[0]
	assert.Equal(t, "ab", flat.GetValue(0).Str)
	assert.True(t, flat.GetValue(1).IsNull)
	assert.Equal(t, "xyz", flat.GetValue(2).Str)

	dict := out.Data[1]
	assert.Equal(t, "hi", dict.GetValue(0).Str)
	assert.Equal(t, "hi", dict.GetValue(1).Str)
	assert.Equal(t, "lo", dict.GetValue(2).Str)
}

func TestConvertDecimal(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"wide", "narrow"},
		[]ForeignType{
			{Id: FT_DECIMAL, Width: 12, Scale: 2},
			{Id: FT_DECIMAL, Width: 5, Scale: 1},
		})
	mc := tab.NewChunk(eng, 2)
	FlatColumn(mc, []int64{12345, -500})
	FlatColumn(mc, []int32{99, -1})

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	wide := out.Data[0]
	assert.True(t, wide.Buf.IsView())
	assert.Equal(t, "123.45", wide.GetValue(0).String())
	assert.Equal(t, "-5.00", wide.GetValue(1).String())

	narrow := out.Data[1]
	assert.False(t, narrow.Buf.IsView())
	assert.Equal(t, "9.9", narrow.GetValue(0).String())
	assert.Equal(t, "-0.1", narrow.GetValue(1).String())
}

func TestConvertHugeintTimestampDate(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"h", "ts", "d"},
		[]ForeignType{
			{Id: FT_HUGEINT},
			{Id: FT_TIMESTAMP},
			{Id: FT_DATE},
		})
	mc := tab.NewChunk(eng, 2)
	FlatColumn(mc, []common.Hugeint{
		common.HugeintFromInt64(-7),
		common.PowerOfTen(20),
	})
	FlatColumn(mc, []int64{1500000, -1})
	FlatColumn(mc, []int32{0, 31})

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	h := out.Data[0]
	assert.Equal(t, "-7", h.GetValue(0).String())
	assert.Equal(t, "100000000000000000000", h.GetValue(1).String())

	ts := chunk.GetSliceInPhyFormatFlat[common.Timestamp](out.Data[1])
	assert.Equal(t, common.Timestamp{Seconds: 1, Nanos: 500000000}, ts[0])
	assert.Equal(t, common.Timestamp{Seconds: -1, Nanos: 999999000}, ts[1])

	d := chunk.GetSliceInPhyFormatFlat[common.Date](out.Data[2])
	assert.Equal(t, common.Date{Year: 1970, Month: 1, Day: 1}, d[0])
	assert.Equal(t, common.Date{Year: 1970, Month: 2, Day: 1}, d[1])
}

func TestConvertConstant(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"c", "n"},
		[]ForeignType{{Id: FT_BIGINT}, {Id: FT_BIGINT}})
	mc := tab.NewChunk(eng, 3)
	v := int64(42)
	ConstColumn(mc, &v)
	ConstColumn[int64](mc, nil)

	res, out := fetchOne(t, eng, "select * from t")
	defer res.Close()

	c := out.Data[0]
	require.True(t, c.PhyFormat().IsConst())
	for i := 0; i < 3; i++ {
		assert.Equal(t, int64(42), c.GetValue(i).I64)
	}
	n := out.Data[1]
	assert.True(t, n.GetValue(0).IsNull)
}

func TestConvertMultipleBatches(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_INTEGER}})
	mc := tab.NewChunk(eng, 2)
	FlatColumn(mc, []int32{1, 2})
	mc2 := tab.NewChunk(eng, 1)
	FlatColumn(mc2, []int32{3})

	res := Execute(eng, "select * from t")
	require.True(t, res.Success())
	defer res.Close()

	total := 0
	for {
		next, err := res.Next()
		require.NoError(t, err)
		if !next {
			break
		}
		out, err := res.GetVector()
		require.NoError(t, err)
		total += out.Card()
	}
	assert.Equal(t, 3, total)
}

func TestReleaseAccounting(t *testing.T) {
	eng := NewMemEngine()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_BIGINT}})
	mc := tab.NewChunk(eng, 2)
	FlatColumn(mc, []int64{1, 2})

	res, out := fetchOne(t, eng, "select * from t")
	vec := out.Data[0]
	require.True(t, vec.Buf.IsView())
	//the view holds the batch alive
	assert.False(t, mc.Released())

	require.NoError(t, res.Close())
	assert.False(t, mc.Released())

	eng.Close()
	assert.True(t, mc.Released())
	assert.Equal(t, int64(0), eng.Alloc().LiveCount())
}

func TestGetVectorBeforeNext(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	eng.CreateTable("t", []string{"a"}, []ForeignType{{Id: FT_INTEGER}})

	res := Execute(eng, "select * from t")
	require.True(t, res.Success())
	defer res.Close()

	_, err := res.GetVector()
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestUnsupportedEncoding(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	tab := eng.CreateTable("t",
		[]string{"a"}, []ForeignType{{Id: FT_INTEGER}})
	mc := tab.NewChunk(eng, 1)
	col := FlatColumn(mc, []int32{1})
	col.enc = ForeignEncoding(99)

	res := Execute(eng, "select * from t")
	require.True(t, res.Success())
	defer res.Close()

	_, err := res.Next()
	require.Error(t, err)
	assert.True(t, common.IsUnsupported(err))
}

func TestQueryErrors(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()

	//broken SQL never reaches the engine
	res := Execute(eng, "not sql at all")
	assert.False(t, res.Success())
	assert.NotEmpty(t, res.ErrorMessage())

	//unknown table
	res = Execute(eng, "select * from nope")
	assert.False(t, res.Success())

	//multi table queries are out of scope here
	res = Execute(eng, "select * from a, b")
	assert.False(t, res.Success())
}

func TestResultSchema(t *testing.T) {
	eng := NewMemEngine()
	defer eng.Close()
	eng.CreateTable("t",
		[]string{"a", "b"},
		[]ForeignType{{Id: FT_INTEGER}, {Id: FT_VARCHAR}})

	res := Execute(eng, "select * from t")
	require.True(t, res.Success())
	defer res.Close()

	require.Equal(t, 2, res.ColumnCount())
	assert.Equal(t, "a", res.NameAt(0))
	assert.Equal(t, common.LTID_INTEGER, res.TypeAt(0).Id)
	assert.Equal(t, common.LTID_VARCHAR, res.TypeAt(1).Id)

	idx, err := res.ColumnIndex("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	_, err = res.ColumnIndex("zzz")
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))

	//Types hands out an isolated copy
	types := res.Types()
	types[0] = common.VarcharType()
	assert.Equal(t, common.LTID_INTEGER, res.TypeAt(0).Id)
}
