package index

import "sync/atomic"

// Handle is a shared reference to the current index snapshot. Readers load
// the snapshot without locking; a catalog refresh builds a replacement
// snapshot off to the side and swaps it in atomically, so searches never
// block on a rebuild.
type Handle struct {
	current atomic.Pointer[Index]
}

// NewHandle creates a handle holding the given snapshot.
// A nil snapshot is treated as an empty index.
func NewHandle(idx *Index) *Handle {
	h := &Handle{}
	if idx == nil {
		idx = &Index{}
	}
	h.current.Store(idx)
	return h
}

// Load returns the current snapshot.
func (h *Handle) Load() *Index {
	return h.current.Load()
}

// Swap replaces the current snapshot and returns the previous one.
func (h *Handle) Swap(idx *Index) *Index {
	if idx == nil {
		idx = &Index{}
	}
	return h.current.Swap(idx)
}
