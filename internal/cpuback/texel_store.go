// Package cpuback provides CPU-only, in-memory implementations of the
// glyphatlas backing-store interfaces. They hold no GPU resources and
// exist so tests and headless tools can exercise GlyphAtlas without a
// wgpu device.
package cpuback

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotResizeable is returned by Resize when the store was built with
// Resizeable: false.
var ErrNotResizeable = errors.New("cpuback: store is not resizeable")

// ErrShrink is returned by Resize when the new size does not exceed the
// current one.
var ErrShrink = errors.New("cpuback: resize must grow the store")

// TexelStore is a flat []byte per layer, addressed the way a real
// texture array would be: BytesPerPixel bytes per texel, row-major
// within each layer.
type TexelStore struct {
	mu sync.Mutex

	width, height, bytesPerPixel int
	resizeable                   bool

	layers  [][]byte
	flushes int
}

// NewTexelStore allocates layers layers of width*height*bytesPerPixel
// zeroed bytes each.
func NewTexelStore(width, height, layers, bytesPerPixel int, resizeable bool) *TexelStore {
	if width <= 0 || height <= 0 || layers < 0 || bytesPerPixel <= 0 {
		panic(fmt.Sprintf("cpuback: NewTexelStore: invalid params %dx%dx%d bpp=%d", width, height, layers, bytesPerPixel))
	}
	s := &TexelStore{
		width:         width,
		height:        height,
		bytesPerPixel: bytesPerPixel,
		resizeable:    resizeable,
	}
	for i := 0; i < layers; i++ {
		s.layers = append(s.layers, make([]byte, width*height*bytesPerPixel))
	}
	return s
}

// Dimensions returns the current (width, height, layers).
func (s *TexelStore) Dimensions() (width, height, layers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, len(s.layers)
}

// Resizeable reports whether Resize may be called.
func (s *TexelStore) Resizeable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizeable
}

// SetData writes pixel data into one layer's region immediately; there
// is no buffering since there is no GPU queue to defer to.
func (s *TexelStore) SetData(x, y, layer, w, h int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if layer < 0 || layer >= len(s.layers) {
		return fmt.Errorf("cpuback: SetData: layer %d out of range [0,%d)", layer, len(s.layers))
	}
	if x < 0 || y < 0 || x+w > s.width || y+h > s.height {
		return fmt.Errorf("cpuback: SetData: region (%d,%d)+(%dx%d) exceeds %dx%d", x, y, w, h, s.width, s.height)
	}
	if len(data) != w*h*s.bytesPerPixel {
		return fmt.Errorf("cpuback: SetData: data length %d, want %d", len(data), w*h*s.bytesPerPixel)
	}

	dst := s.layers[layer]
	rowBytes := w * s.bytesPerPixel
	for row := 0; row < h; row++ {
		dstOff := ((y+row)*s.width + x) * s.bytesPerPixel
		srcOff := row * rowBytes
		copy(dst[dstOff:dstOff+rowBytes], data[srcOff:srcOff+rowBytes])
	}
	return nil
}

// Resize appends freshly zeroed layers, preserving existing ones.
func (s *TexelStore) Resize(newLayers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resizeable {
		return ErrNotResizeable
	}
	if newLayers <= len(s.layers) {
		return ErrShrink
	}
	for i := len(s.layers); i < newLayers; i++ {
		s.layers = append(s.layers, make([]byte, s.width*s.height*s.bytesPerPixel))
	}
	return nil
}

// Flush is a no-op; SetData already writes synchronously. The call
// count is tracked so tests can assert Flush was invoked.
func (s *TexelStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

// Layer returns a read-only view of one layer's backing bytes, for
// tests that want to inspect uploaded pixel data.
func (s *TexelStore) Layer(i int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layers[i]
}
