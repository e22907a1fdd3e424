package gpuback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/wgpu/core"
)

// Geometry-store errors.
var (
	// ErrInvalidBufferSize is returned when a write's length is not a
	// multiple of Alignment.
	ErrInvalidBufferSize = errors.New("gpuback: data length is not a multiple of alignment")

	// ErrBufferOutOfBounds is returned when a write falls outside the
	// store's current size.
	ErrBufferOutOfBounds = errors.New("gpuback: write exceeds geometry store bounds")
)

// GeometryStoreConfig configures a new GeometryStore.
type GeometryStoreConfig struct {
	// Size is the initial capacity in blocks.
	Size int
	// Alignment is the number of raw uint32 records per block.
	Alignment int
	// Resizeable controls whether Resize may later grow Size.
	Resizeable bool
	// Label is an optional debug label forwarded to the GPU buffer.
	Label string
}

// pendingGeometryWrite records a SetValues call buffered until Flush.
type pendingGeometryWrite struct {
	blockOffset int
	data        []uint32
}

// GeometryStore is a wgpu-backed implementation of
// glyphatlas.GeometryBackingStore over a single storage buffer holding
// fixed-size blocks of uint32 records.
//
// GeometryStore is safe for concurrent use.
type GeometryStore struct {
	mu sync.Mutex

	backend *Backend
	buffer  core.BufferID

	size       int
	alignment  int
	resizeable bool
	label      string

	pending []pendingGeometryWrite
}

// NewGeometryStore creates a GeometryStore backed by the given Backend.
// backend may be nil for a logical, GPU-resource-free store useful in
// tests; a non-nil backend must already be initialized.
func NewGeometryStore(backend *Backend, cfg GeometryStoreConfig) (*GeometryStore, error) {
	if cfg.Size < 0 || cfg.Alignment <= 0 {
		return nil, fmt.Errorf("gpuback: NewGeometryStore: invalid size=%d alignment=%d", cfg.Size, cfg.Alignment)
	}
	if backend != nil && !backend.IsInitialized() {
		return nil, ErrNotInitialized
	}

	s := &GeometryStore{
		backend:    backend,
		size:       cfg.Size,
		alignment:  cfg.Alignment,
		resizeable: cfg.Resizeable,
		label:      cfg.Label,
	}

	// TODO: allocate the real wgpu storage buffer once core.CreateBuffer
	// is wired up in this module's pinned wgpu version.
	//
	// desc := &gputypes.BufferDescriptor{
	//     Label:            cfg.Label,
	//     Size:             uint64(cfg.Size * cfg.Alignment * 4),
	//     Usage:            gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	//     MappedAtCreation: false,
	// }
	// bufferID, err := core.CreateBuffer(s.backend.deviceID(), desc)
	// if err != nil {
	//     return nil, fmt.Errorf("gpuback: CreateBuffer: %w", err)
	// }
	// s.buffer = bufferID

	return s, nil
}

// Size returns the current capacity in blocks.
func (s *GeometryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
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

// SetValues buffers a write of len(data)/Alignment() blocks starting at
// blockOffset, flushed to the GPU queue on the next Flush call.
func (s *GeometryStore) SetValues(blockOffset int, data []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data)%s.alignment != 0 {
		return fmt.Errorf("%w: len=%d alignment=%d", ErrInvalidBufferSize, len(data), s.alignment)
	}
	blocks := len(data) / s.alignment
	if blockOffset < 0 || blockOffset+blocks > s.size {
		return fmt.Errorf("%w: offset %d blocks %d capacity %d", ErrBufferOutOfBounds, blockOffset, blocks, s.size)
	}

	buf := make([]uint32, len(data))
	copy(buf, data)
	s.pending = append(s.pending, pendingGeometryWrite{blockOffset: blockOffset, data: buf})
	return nil
}

// Resize grows the store to newSize blocks, preserving existing
// contents. newSize must exceed the current size and the store must
// have been created with Resizeable: true.
func (s *GeometryStore) Resize(newSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resizeable {
		return ErrNotResizeable
	}
	if newSize <= s.size {
		return ErrShrink
	}

	// TODO: real implementations must create a new, larger buffer and
	// copy the old buffer's contents into it via a command encoder,
	// since wgpu buffers cannot be resized in place.
	s.size = newSize
	slog.Default().Info("gpuback: geometry store resized", "blocks", newSize, "label", s.label)
	return nil
}

// Flush uploads every buffered SetValues write to the GPU queue.
func (s *GeometryStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	if s.backend == nil {
		s.pending = s.pending[:0]
		return nil
	}

	// TODO: issue one core.QueueWriteBuffer per pending write against
	// s.backend.queueID() once buffer creation above is implemented.
	s.pending = s.pending[:0]
	return nil
}
