package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

func TestSetGetValue(t *testing.T) {
	vec := NewFlatVector(common.VarcharType(), util.DefaultVectorSize)
	vec.SetValue(0, &Value{Typ: common.VarcharType(), Str: "hello"})
	vec.SetValue(1, &Value{Typ: common.VarcharType(), IsNull: true})
	assert.Equal(t, "hello", vec.GetValue(0).Str)
	assert.True(t, vec.GetValue(1).IsNull)

	dec := NewFlatVector(common.DecimalType(10, 2), util.DefaultVectorSize)
	dec.SetValue(0, &Value{Typ: common.DecimalType(10, 2), Str: "123.45"})
	val := dec.GetValue(0)
	assert.Equal(t, "123.45", val.String())

	ts := NewFlatVector(common.TimestampType(), util.DefaultVectorSize)
	ts.SetValue(0, &Value{Typ: common.TimestampType(), I64: 3, I64_1: 500000000})
	got := ts.GetValue(0)
	assert.Equal(t, int64(3), got.I64)
	assert.Equal(t, int64(500000000), got.I64_1)
}

func TestChunkInit(t *testing.T) {
	c := &Chunk{}
	types := []common.LType{
		common.IntegerType(),
		common.VarcharType(),
		common.ListType(common.BigintType()),
	}
	c.Init(types, util.DefaultVectorSize)
	require.Equal(t, 3, c.ColumnCount())
	c.SetCard(2)
	assert.Equal(t, 2, c.Card())

	ufs := c.ToUnifiedFormat()
	require.Equal(t, 3, len(ufs))
	for _, uf := range ufs {
		assert.True(t, uf.Identity)
	}
}

func TestChunkExplain(t *testing.T) {
	c := &Chunk{}
	base := newInt32FlatVector([]int32{1, 2, 3})
	sel := NewSelectVector(3)
	for i, idx := range []int{2, 1, 0} {
		sel.SetIndex(i, idx)
	}
	c.Data = append(c.Data, WrapInDictionary(nil, sel, 3, base))
	lists := newIntListVector([][]int32{{1}, {2, 3}})
	SetNullInPhyFormatFlat(lists, 2, true)
	c.Data = append(c.Data, lists)
	c.SetCap(util.DefaultVectorSize)
	c.SetCard(3)

	out := c.Explain()
	assert.True(t, strings.Contains(out, "dictionary"))
	assert.True(t, strings.Contains(out, "base"))
	assert.True(t, strings.Contains(out, "elements"))
	assert.True(t, strings.Contains(out, "nulls 0"))
	assert.True(t, strings.Contains(out, "nulls 1"))
}
