package chunk

import (
	"github.com/daviszhen/colvec/pkg/util"
)

// SelectVector maps output row positions to source row positions. An
// empty one is the identity mapping.
type SelectVector struct {
	SelVec []int
}

func NewSelectVector(count int) *SelectVector {
	vec := &SelectVector{}
	vec.Init(count)
	return vec
}

func NewSelectVector2(start, count int) *SelectVector {
	vec := &SelectVector{}
	vec.Init(util.Max(util.DefaultVectorSize, count))
	for i := 0; i < count; i++ {
		vec.SetIndex(i, start+i)
	}
	return vec
}

func (svec *SelectVector) Invalid() bool {
	return len(svec.SelVec) == 0
}

func (svec *SelectVector) Init(cnt int) {
	svec.SelVec = make([]int, cnt)
}

func (svec *SelectVector) GetIndex(idx int) int {
	if svec.Invalid() {
		return idx
	} else {
		return svec.SelVec[idx]
	}
}

func (svec *SelectVector) SetIndex(idx int, index int) {
	svec.SelVec[idx] = index
}

// Slice composes: result[i] = svec[sel[i]].
func (svec *SelectVector) Slice(sel *SelectVector, count int) []int {
	data := make([]int, count)
	for i := 0; i < count; i++ {
		newIdx := sel.GetIndex(i)
		idx := svec.GetIndex(newIdx)
		data[i] = idx
	}
	return data
}

func (svec *SelectVector) Init2(sel *SelectVector) {
	svec.SelVec = sel.SelVec
}

func (svec *SelectVector) Init3(data []int) {
	svec.SelVec = data
}

func NewSelectVector3(tuples []int) *SelectVector {
	v := &SelectVector{}
	v.Init3(tuples)
	return v
}

// IsIdentity reports whether the first count entries map i to i.
func (svec *SelectVector) IsIdentity(count int) bool {
	if svec.Invalid() {
		return true
	}
	if len(svec.SelVec) < count {
		return false
	}
	for i := 0; i < count; i++ {
		if svec.SelVec[i] != i {
			return false
		}
	}
	return true
}
