package cpuback

import (
	"fmt"
	"sync"
)

// GeometryStore is a flat []uint32 holding size*alignment records.
type GeometryStore struct {
	mu sync.Mutex

	alignment  int
	resizeable bool
	data       []uint32
	flushes    int
}

// NewGeometryStore allocates size*alignment zeroed uint32 records.
func NewGeometryStore(size, alignment int, resizeable bool) *GeometryStore {
	if size < 0 || alignment <= 0 {
		panic(fmt.Sprintf("cpuback: NewGeometryStore: invalid size=%d alignment=%d", size, alignment))
	}
	return &GeometryStore{
		alignment:  alignment,
		resizeable: resizeable,
		data:       make([]uint32, size*alignment),
	}
}

// Size returns the current capacity in blocks.
func (s *GeometryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data) / s.alignment
}

// Alignment returns the number of raw uint32 records per block.
func (s *GeometryStore) Alignment() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alignment
}

// Resizeable reports whether Resize may be called.
func (s *GeometryStore) Resizeable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizeable
}

// SetValues writes data starting at blockOffset immediately.
func (s *GeometryStore) SetValues(blockOffset int, data []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data)%s.alignment != 0 {
		return fmt.Errorf("cpuback: SetValues: len=%d not a multiple of alignment=%d", len(data), s.alignment)
	}
	off := blockOffset * s.alignment
	if blockOffset < 0 || off+len(data) > len(s.data) {
		return fmt.Errorf("cpuback: SetValues: write at block %d len %d exceeds capacity", blockOffset, len(data)/s.alignment)
	}
	copy(s.data[off:off+len(data)], data)
	return nil
}

// Resize grows the backing slice to newSize*Alignment() records,
// preserving existing contents.
func (s *GeometryStore) Resize(newSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resizeable {
		return ErrNotResizeable
	}
	curSize := len(s.data) / s.alignment
	if newSize <= curSize {
		return ErrShrink
	}
	grown := make([]uint32, newSize*s.alignment)
	copy(grown, s.data)
	s.data = grown
	return nil
}

// Flush is a no-op; SetValues already writes synchronously. The call
// count is tracked so tests can assert Flush was invoked.
func (s *GeometryStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

// Values returns a read-only view of the raw backing records, for
// tests that want to inspect uploaded geometry data.
func (s *GeometryStore) Values() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}
