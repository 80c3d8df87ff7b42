package conv

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unsafe"

	treemap "github.com/liyue201/gostl/ds/map"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/parser"
	"github.com/daviszhen/colvec/pkg/util"
)

// MemColumn is a foreign column living in engine-owned memory.
type MemColumn struct {
	enc      ForeignEncoding
	data     []byte
	validity *util.Bitmap
	sel      []uint32
	child    *MemColumn
	strs     [][]byte
}

func (col *MemColumn) Encoding() ForeignEncoding {
	return col.enc
}

func (col *MemColumn) Data() unsafe.Pointer {
	if len(col.data) == 0 {
		return nil
	}
	return util.BytesSliceToPointer(col.data)
}

func (col *MemColumn) Validity() *util.Bitmap {
	return col.validity
}

func (col *MemColumn) Selection() []uint32 {
	return col.sel
}

func (col *MemColumn) Child() ForeignColumn {
	if col.child == nil {
		return nil
	}
	return col.child
}

func (col *MemColumn) StringAt(row int) []byte {
	return col.strs[row]
}

// MemChunk is one refcounted batch. The converter's view buffers keep
// it retained; the backing memory is returned to the allocator when
// the last reference drops.
type MemChunk struct {
	card  int
	cols  []*MemColumn
	alloc *util.TrackedAllocator
	refs  atomic.Int64
}

func (mc *MemChunk) Card() int {
	return mc.card
}

func (mc *MemChunk) Column(i int) ForeignColumn {
	return mc.cols[i]
}

func (mc *MemChunk) Retain() {
	mc.refs.Add(1)
}

func (mc *MemChunk) Release() {
	n := mc.refs.Add(-1)
	util.AssertFunc(n >= 0)
	if n > 0 {
		return
	}
	for _, col := range mc.cols {
		for c := col; c != nil; c = c.child {
			if c.data != nil {
				mc.alloc.Free(c.data)
				c.data = nil
			}
		}
	}
}

func (mc *MemChunk) Released() bool {
	return mc.refs.Load() == 0
}

func (mc *MemChunk) addColumn(col *MemColumn) {
	mc.cols = append(mc.cols, col)
}

// MemTable is a named sequence of batches.
type MemTable struct {
	name   string
	fts    []ForeignType
	names  []string
	chunks []*MemChunk
}

// NewChunk starts an empty batch of card rows and appends it to the
// table. Fill it through the column builders before querying.
func (tab *MemTable) NewChunk(eng *MemEngine, card int) *MemChunk {
	mc := &MemChunk{
		card:  card,
		alloc: eng.alloc,
	}
	mc.refs.Store(1)
	tab.chunks = append(tab.chunks, mc)
	return mc
}

// MemEngine serves queries from tables held in memory. It exists for
// exercising the conversion path without an external engine behind it.
type MemEngine struct {
	alloc  *util.TrackedAllocator
	tables *treemap.Map[string, *MemTable]
}

func NewMemEngine() *MemEngine {
	return &MemEngine{
		alloc:  util.NewTrackedAllocator(nil),
		tables: treemap.New[string, *MemTable](strings.Compare),
	}
}

func (eng *MemEngine) Alloc() *util.TrackedAllocator {
	return eng.alloc
}

func (eng *MemEngine) CreateTable(name string, colNames []string, fts []ForeignType) *MemTable {
	util.AssertFunc(len(colNames) == len(fts))
	tab := &MemTable{
		name:  name,
		fts:   fts,
		names: colNames,
	}
	eng.tables.Insert(name, tab)
	return tab
}

func (eng *MemEngine) Query(query string) (ForeignResult, error) {
	table, err := parser.TableName(query)
	if err != nil {
		return nil, err
	}
	tab, err := eng.tables.Get(table)
	if err != nil {
		return nil, fmt.Errorf("no table %q: %w", table, common.ErrValidation)
	}
	return &memResult{tab: tab}, nil
}

func (eng *MemEngine) Close() {
	eng.tables.Traversal(func(name string, tab *MemTable) bool {
		for _, mc := range tab.chunks {
			if !mc.Released() {
				mc.Release()
			}
		}
		return true
	})
	eng.alloc.Close()
}

type memResult struct {
	tab  *MemTable
	next int
}

func (mr *memResult) ColumnCount() int {
	return len(mr.tab.fts)
}

func (mr *memResult) TypeAt(i int) ForeignType {
	return mr.tab.fts[i]
}

func (mr *memResult) NameAt(i int) string {
	return mr.tab.names[i]
}

func (mr *memResult) Fetch() (ForeignChunk, error) {
	if mr.next >= len(mr.tab.chunks) {
		return nil, nil
	}
	mc := mr.tab.chunks[mr.next]
	mr.next++
	//the fetcher gets the table's reference
	mc.Retain()
	return mc, nil
}

func (mr *memResult) Close() error {
	return nil
}

// FlatColumn copies values into engine memory as a flat column.
// nullRows marks the invalid rows.
func FlatColumn[T any](mc *MemChunk, values []T, nullRows ...int) *MemColumn {
	col := &MemColumn{
		enc:      FE_FLAT,
		data:     allocValues(mc, values),
		validity: buildValidity(len(values), nullRows),
	}
	mc.addColumn(col)
	return col
}

// ConstColumn stores a single value read by every row. A nil pointer
// makes the column null.
func ConstColumn[T any](mc *MemChunk, value *T) *MemColumn {
	col := &MemColumn{
		enc: FE_CONST,
	}
	if value == nil {
		col.validity = buildValidity(1, []int{0})
	} else {
		col.data = allocValues(mc, []T{*value})
	}
	mc.addColumn(col)
	return col
}

// DictColumn stores distinct values once plus per-row indices into
// them. nullRows marks rows null at the dictionary level.
func DictColumn[T any](mc *MemChunk, values []T, sel []uint32, nullRows ...int) *MemColumn {
	col := &MemColumn{
		enc:      FE_DICT,
		sel:      sel,
		validity: buildValidity(len(sel), nullRows),
		child: &MemColumn{
			enc:  FE_FLAT,
			data: allocValues(mc, values),
		},
	}
	mc.addColumn(col)
	return col
}

// StringFlatColumn copies strings into a flat varchar column.
func StringFlatColumn(mc *MemChunk, values []string, nullRows ...int) *MemColumn {
	col := &MemColumn{
		enc:      FE_FLAT,
		validity: buildValidity(len(values), nullRows),
	}
	for _, s := range values {
		col.strs = append(col.strs, []byte(s))
	}
	mc.addColumn(col)
	return col
}

// StringDictColumn stores distinct strings once plus per-row indices.
func StringDictColumn(mc *MemChunk, values []string, sel []uint32, nullRows ...int) *MemColumn {
	child := &MemColumn{
		enc: FE_FLAT,
	}
	for _, s := range values {
		child.strs = append(child.strs, []byte(s))
	}
	col := &MemColumn{
		enc:      FE_DICT,
		sel:      sel,
		validity: buildValidity(len(sel), nullRows),
		child:    child,
	}
	mc.addColumn(col)
	return col
}

func allocValues[T any](mc *MemChunk, values []T) []byte {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	data := mc.alloc.Alloc(sz * len(values))
	copy(util.ToSlice[T](data, sz), values)
	return data
}

func buildValidity(rows int, nullRows []int) *util.Bitmap {
	if len(nullRows) == 0 {
		return nil
	}
	bm := &util.Bitmap{}
	bm.Init(util.Max(rows, util.DefaultVectorSize))
	for _, row := range nullRows {
		bm.SetInvalid(uint64(row))
	}
	return bm
}
