package conv

import (
	"fmt"
	"strings"

	treemap "github.com/liyue201/gostl/ds/map"

	"github.com/daviszhen/colvec/pkg/chunk"
	"github.com/daviszhen/colvec/pkg/common"
)

// Result adapts a foreign result into native chunks. Batches are
// pulled one at a time with Next; GetVector hands out the current
// batch until the next advance. View buffers adopted from the foreign
// side are released when the batch is replaced or the result closed,
// so rows needed beyond that must be copied out first.
type Result struct {
	success bool
	errMsg  string

	fr      ForeignResult
	fts     []ForeignType
	types   []common.LType
	names   []string
	nameIdx *treemap.Map[string, int]

	cur   *chunk.Chunk
	views []*chunk.VecBuffer
	done  bool
}

func newResult(fr ForeignResult) (*Result, error) {
	res := &Result{
		success: true,
		fr:      fr,
		nameIdx: treemap.New[string, int](strings.Compare),
	}
	for i := 0; i < fr.ColumnCount(); i++ {
		ft := fr.TypeAt(i)
		lt, err := MapType(ft)
		if err != nil {
			return nil, err
		}
		res.fts = append(res.fts, ft)
		res.types = append(res.types, lt)
		res.names = append(res.names, fr.NameAt(i))
		res.nameIdx.Insert(fr.NameAt(i), i)
	}
	return res, nil
}

func failedResult(err error) *Result {
	return &Result{errMsg: err.Error()}
}

func (res *Result) Success() bool {
	return res.success
}

func (res *Result) ErrorMessage() string {
	return res.errMsg
}

func (res *Result) ColumnCount() int {
	return len(res.types)
}

func (res *Result) TypeAt(i int) common.LType {
	return res.types[i]
}

func (res *Result) NameAt(i int) string {
	return res.names[i]
}

// ColumnIndex resolves a column by name.
func (res *Result) ColumnIndex(name string) (int, error) {
	idx, err := res.nameIdx.Get(name)
	if err != nil {
		return 0, fmt.Errorf("no column %q: %w", name, common.ErrValidation)
	}
	return idx, nil
}

// Types hands out an isolated copy of the native schema.
func (res *Result) Types() []common.LType {
	return CloneTypes(res.types)
}

// Next advances to the next batch. It returns false with a nil error
// when the foreign result is exhausted.
func (res *Result) Next() (bool, error) {
	if !res.success || res.done {
		return false, nil
	}
	res.releaseBatch()

	fc, err := res.fr.Fetch()
	if err != nil {
		return false, err
	}
	if fc == nil {
		res.done = true
		return false, nil
	}
	cur, views, err := convertChunk(fc, res.fts, res.types)
	//views hold their own retains now
	fc.Release()
	if err != nil {
		return false, err
	}
	res.cur = cur
	res.views = views
	return true, nil
}

// GetVector returns the batch the last successful Next produced.
func (res *Result) GetVector() (*chunk.Chunk, error) {
	if res.cur == nil {
		return nil, fmt.Errorf("no current batch, call Next first: %w",
			common.ErrValidation)
	}
	return res.cur, nil
}

func (res *Result) releaseBatch() {
	for _, buf := range res.views {
		buf.Unref()
	}
	res.views = nil
	res.cur = nil
}

func (res *Result) Close() error {
	res.releaseBatch()
	res.done = true
	if res.fr == nil {
		return nil
	}
	err := res.fr.Close()
	res.fr = nil
	return err
}
