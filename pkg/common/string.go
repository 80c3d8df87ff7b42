package common

import (
	"bytes"
	"unsafe"

	"github.com/daviszhen/colvec/pkg/util"
)

type String struct {
	Len  int
	Data unsafe.Pointer
}

func (s *String) DataSlice() []byte {
	return util.PointerToSlice[byte](s.Data, s.Len)
}

func (s *String) DataPtr() unsafe.Pointer {
	return s.Data
}

func (s *String) String() string {
	t := s.DataSlice()
	return string(t)
}

func (s *String) Equal(o *String) bool {
	if s.Len != o.Len {
		return false
	}
	sSlice := util.PointerToSlice[byte](s.Data, s.Len)
	oSlice := util.PointerToSlice[byte](o.Data, o.Len)
	return bytes.Equal(sSlice, oSlice)
}

func (s *String) Less(o *String) bool {
	sSlice := util.PointerToSlice[byte](s.Data, s.Len)
	oSlice := util.PointerToSlice[byte](o.Data, o.Len)
	return bytes.Compare(sSlice, oSlice) < 0
}

func (s *String) Length() int {
	return s.Len
}
