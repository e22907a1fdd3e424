package gpuback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// Texel-store errors.
var (
	// ErrTextureSizeMismatch is returned when SetData's payload does not
	// match w*h*BytesPerPixel(Format).
	ErrTextureSizeMismatch = errors.New("gpuback: data length does not match region size")

	// ErrOutOfBounds is returned when a SetData region falls outside the
	// store's current dimensions.
	ErrOutOfBounds = errors.New("gpuback: region exceeds texel store bounds")

	// ErrNotResizeable is returned by Resize when the store was built
	// with Resizeable: false.
	ErrNotResizeable = errors.New("gpuback: texel store is not resizeable")

	// ErrShrink is returned by Resize when newLayers does not exceed the
	// current layer count.
	ErrShrink = errors.New("gpuback: texel store resize must grow the layer count")
)

// TextureFormat is the pixel format of a TexelStore.
type TextureFormat uint8

const (
	// TextureFormatR8 is a single 8-bit channel, used for coverage masks.
	TextureFormatR8 TextureFormat = iota
	// TextureFormatRGBA8 is 4 interleaved 8-bit channels.
	TextureFormatRGBA8
)

// BytesPerPixel returns the number of bytes a single pixel occupies.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatR8:
		return 1
	case TextureFormatRGBA8:
		return 4
	default:
		return 4
	}
}

// toWGPUFormat converts to the gputypes wire format.
func (f TextureFormat) toWGPUFormat() gputypes.TextureFormat {
	switch f {
	case TextureFormatR8:
		return gputypes.TextureFormatR8Unorm
	case TextureFormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// TexelStoreConfig configures a new TexelStore.
type TexelStoreConfig struct {
	// Width and Height are the per-layer texture dimensions in pixels.
	Width, Height int
	// Layers is the initial layer count.
	Layers int
	// Format is the pixel format of every layer.
	Format TextureFormat
	// Resizeable controls whether Resize may later grow Layers.
	Resizeable bool
	// Label is an optional debug label forwarded to the GPU texture.
	Label string
}

// pendingWrite records a SetData call buffered until the next Flush.
type pendingWrite struct {
	x, y, layer, w, h int
	data              []byte
}

// TexelStore is a wgpu-backed implementation of glyphatlas.TexelBackingStore
// over a 3D texture array. Writes issued through SetData are buffered and
// only reach the GPU queue on Flush.
//
// TexelStore is safe for concurrent use.
type TexelStore struct {
	mu sync.Mutex

	backend *Backend
	texture core.TextureID
	view    core.TextureViewID

	width, height, layers int
	format                TextureFormat
	resizeable            bool
	label                 string

	pending []pendingWrite
}

// NewTexelStore creates a TexelStore backed by the given Backend. backend
// may be nil for a logical, GPU-resource-free store useful in tests; a
// non-nil backend must already be initialized.
func NewTexelStore(backend *Backend, cfg TexelStoreConfig) (*TexelStore, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Layers < 0 {
		return nil, fmt.Errorf("gpuback: NewTexelStore: invalid dimensions %dx%dx%d", cfg.Width, cfg.Height, cfg.Layers)
	}
	if backend != nil && !backend.IsInitialized() {
		return nil, ErrNotInitialized
	}

	s := &TexelStore{
		backend:    backend,
		width:      cfg.Width,
		height:     cfg.Height,
		layers:     cfg.Layers,
		format:     cfg.Format,
		resizeable: cfg.Resizeable,
		label:      cfg.Label,
	}

	// TODO: create the real wgpu texture array once core.CreateTexture is
	// wired up in this module's pinned wgpu version.
	//
	// desc := &gputypes.TextureDescriptor{
	//     Label: cfg.Label,
	//     Size: gputypes.Extent3D{
	//         Width:              uint32(cfg.Width),
	//         Height:             uint32(cfg.Height),
	//         DepthOrArrayLayers: uint32(cfg.Layers),
	//     },
	//     MipLevelCount: 1,
	//     SampleCount:   1,
	//     Dimension:     gputypes.TextureDimension2D,
	//     Format:        cfg.Format.toWGPUFormat(),
	//     Usage: gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	// }
	// textureID, err := core.CreateTexture(s.backend.deviceID(), desc)
	// if err != nil {
	//     return nil, fmt.Errorf("gpuback: CreateTexture: %w", err)
	// }
	// s.texture = textureID

	return s, nil
}

// Dimensions returns the current (width, height, layers).
func (s *TexelStore) Dimensions() (width, height, layers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, s.layers
}

// Resizeable reports whether Resize may be called.
func (s *TexelStore) Resizeable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizeable
}

// SetData buffers a write to the given layer's (x, y, w, h) region,
// flushed to the GPU queue on the next Flush call.
func (s *TexelStore) SetData(x, y, layer, w, h int, data []byte) error {
	if w*h*s.format.BytesPerPixel() != len(data) {
		return fmt.Errorf("%w: region %dx%d wants %d bytes, got %d", ErrTextureSizeMismatch, w, h, w*h*s.format.BytesPerPixel(), len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if layer < 0 || layer >= s.layers || x < 0 || y < 0 || x+w > s.width || y+h > s.height {
		return fmt.Errorf("%w: region (%d,%d)+(%dx%d) layer %d", ErrOutOfBounds, x, y, w, h, layer)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	s.pending = append(s.pending, pendingWrite{x: x, y: y, layer: layer, w: w, h: h, data: buf})
	return nil
}

// Resize grows the store to newLayers, preserving existing layer
// contents. newLayers must exceed the current layer count and the
// store must have been created with Resizeable: true.
func (s *TexelStore) Resize(newLayers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resizeable {
		return ErrNotResizeable
	}
	if newLayers <= s.layers {
		return ErrShrink
	}

	// TODO: real implementations must create a new, larger texture array
	// and copy every existing layer into it, since wgpu textures cannot
	// be resized in place.
	s.layers = newLayers
	slog.Default().Info("gpuback: texel store resized", "layers", newLayers, "label", s.label)
	return nil
}

// Flush uploads every buffered SetData write to the GPU queue.
func (s *TexelStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	if s.backend == nil {
		s.pending = s.pending[:0]
		return nil
	}

	// TODO: issue one core.QueueWriteTexture per pending write against
	// s.backend.queueID() once texture creation above is implemented.
	s.pending = s.pending[:0]
	return nil
}
