package util

import (
	"unsafe"

	"go.uber.org/zap"
)

//#include <stdio.h>
//#include <stdlib.h>
//#include <string.h>
import "C"

func CMalloc(sz int) unsafe.Pointer {
	return C.malloc(C.size_t(sz))
}

func CFree(ptr unsafe.Pointer) {
	C.free(ptr)
}

func CRealloc(ptr unsafe.Pointer, sz int) unsafe.Pointer {
	return C.realloc(ptr, C.size_t(sz))
}

func CMemset(ptr unsafe.Pointer, val byte, sz int) {
	C.memset(ptr, C.int(val), C.size_t(sz))
}

func CMemcpy(dst unsafe.Pointer, src unsafe.Pointer, sz int) {
	C.memcpy(dst, src, C.size_t(sz))
}

type BytesAllocator interface {
	Alloc(sz int) []byte
	Free([]byte)
}

type DefaultAllocator struct {
}

func (alloc *DefaultAllocator) Alloc(sz int) []byte {
	return make([]byte, sz)
}

func (alloc *DefaultAllocator) Free(bytes []byte) {
}

var GAlloc BytesAllocator = &DefaultAllocator{}

// TrackedAllocator counts live allocations. Buffer code may allocate
// while already holding it (child buffers during resize), hence the
// reentrant lock.
type TrackedAllocator struct {
	lock       *ReentryLock
	base       BytesAllocator
	liveCount  int64
	liveBytes  int64
	totalAlloc int64
}

func NewTrackedAllocator(base BytesAllocator) *TrackedAllocator {
	if base == nil {
		base = GAlloc
	}
	return &TrackedAllocator{
		lock: NewReentryLock(),
		base: base,
	}
}

func (alloc *TrackedAllocator) Alloc(sz int) []byte {
	alloc.lock.Lock()
	defer alloc.lock.Unlock()
	alloc.liveCount++
	alloc.liveBytes += int64(sz)
	alloc.totalAlloc += int64(sz)
	return alloc.base.Alloc(sz)
}

func (alloc *TrackedAllocator) Free(bytes []byte) {
	alloc.lock.Lock()
	defer alloc.lock.Unlock()
	alloc.liveCount--
	alloc.liveBytes -= int64(len(bytes))
	alloc.base.Free(bytes)
}

func (alloc *TrackedAllocator) LiveCount() int64 {
	alloc.lock.Lock()
	defer alloc.lock.Unlock()
	return alloc.liveCount
}

func (alloc *TrackedAllocator) LiveBytes() int64 {
	alloc.lock.Lock()
	defer alloc.lock.Unlock()
	return alloc.liveBytes
}

// Close logs when allocations are still live. It does not free them.
func (alloc *TrackedAllocator) Close() {
	alloc.lock.Lock()
	defer alloc.lock.Unlock()
	if alloc.liveCount != 0 {
		Warn("allocator closed with live allocations",
			zap.Int64("count", alloc.liveCount),
			zap.Int64("bytes", alloc.liveBytes))
	}
}

var _ BytesAllocator = (*TrackedAllocator)(nil)
