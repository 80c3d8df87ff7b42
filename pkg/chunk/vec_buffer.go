package chunk

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/util"
)

type VecBufferType int

const (
	//array of data
	VBT_STANDARD VecBufferType = iota
	VBT_DICT
	VBT_CHILD
	VBT_STRING
	//borrowed foreign memory
	VBT_VIEW
)

// VecBuffer owns (or borrows) the bytes behind a vector. Buffers are
// refcounted so vectors can share them; a VBT_VIEW buffer borrows
// foreign memory and runs its release callback exactly once when the
// last reference is dropped.
type VecBuffer struct {
	BufTyp   VecBufferType
	Data     []byte
	Sel      *SelectVector
	Children []*Vector

	refs    atomic.Int64
	release func()
}

func (buf *VecBuffer) GetSelVector() *SelectVector {
	util.AssertFunc(buf.BufTyp == VBT_DICT)
	return buf.Sel
}

// MutableData rejects writes through a view; borrowed bytes belong to
// the foreign engine.
func (buf *VecBuffer) MutableData() ([]byte, error) {
	if buf.BufTyp == VBT_VIEW {
		return nil, fmt.Errorf("view buffer is read only: %w", common.ErrUnsupported)
	}
	return buf.Data, nil
}

func (buf *VecBuffer) IsView() bool {
	return buf.BufTyp == VBT_VIEW
}

func (buf *VecBuffer) Retain() {
	buf.refs.Add(1)
}

func (buf *VecBuffer) Unref() {
	n := buf.refs.Add(-1)
	util.AssertFunc(n >= 0)
	if n == 0 {
		if buf.release != nil {
			buf.release()
			buf.release = nil
		}
		buf.Data = nil
	}
}

func (buf *VecBuffer) RefCount() int64 {
	return buf.refs.Load()
}

func newRefBuffer(typ VecBufferType) *VecBuffer {
	buf := &VecBuffer{BufTyp: typ}
	buf.refs.Store(1)
	return buf
}

func NewBuffer(sz int) *VecBuffer {
	buf := newRefBuffer(VBT_STANDARD)
	buf.Data = util.GAlloc.Alloc(sz)
	return buf
}

func NewBuffer2(alloc util.BytesAllocator, sz int) *VecBuffer {
	buf := newRefBuffer(VBT_STANDARD)
	buf.Data = alloc.Alloc(sz)
	buf.release = func() {
		alloc.Free(buf.Data)
	}
	return buf
}

func NewStandardBuffer(lt common.LType, cap int) *VecBuffer {
	return NewBuffer(lt.GetInternalType().Size() * cap)
}

// NewViewBuffer adopts sz bytes of foreign memory at ptr without
// copying. release may be nil.
func NewViewBuffer(ptr unsafe.Pointer, sz int, release func()) *VecBuffer {
	buf := newRefBuffer(VBT_VIEW)
	buf.Data = util.PointerToSlice[byte](ptr, sz)
	buf.release = release
	return buf
}

func NewDictBuffer(data []int) *VecBuffer {
	buf := newRefBuffer(VBT_DICT)
	buf.Sel = &SelectVector{
		SelVec: data,
	}
	return buf
}

func NewDictBuffer2(sel *SelectVector) *VecBuffer {
	buf := newRefBuffer(VBT_DICT)
	buf.Sel = &SelectVector{}
	buf.Sel.Init2(sel)
	return buf
}

func NewChildBuffer(kids ...*Vector) *VecBuffer {
	buf := newRefBuffer(VBT_CHILD)
	buf.Children = kids
	return buf
}

func NewConstBuffer(typ common.LType) *VecBuffer {
	return NewStandardBuffer(typ, 1)
}
