package glyphatlas

import (
	"fmt"
	"sync"
)

// GlyphLocation is the opaque handle returned by Allocate. The zero value
// is invalid. A GlyphLocation must not be used after the GlyphAtlas that
// produced it calls Deallocate on it or Clear.
type GlyphLocation struct {
	rect  *Rectangle
	layer int
}

// Valid reports whether this handle refers to a live allocation.
func (l GlyphLocation) Valid() bool { return l.rect != nil }

// Location returns the unpadded origin of the underlying rectangle, or
// (-1, -1) if the handle is invalid.
func (l GlyphLocation) Location() (x, y int) {
	if !l.Valid() {
		return -1, -1
	}
	return l.rect.UnpaddedOrigin()
}

// Size returns the unpadded dimensions of the underlying rectangle, or
// (-1, -1) if the handle is invalid.
func (l GlyphLocation) Size() Size {
	if !l.Valid() {
		return Size{X: -1, Y: -1}
	}
	return l.rect.UnpaddedSize()
}

// Layer returns the owning layer index, or -1 if the handle is invalid.
func (l GlyphLocation) Layer() int {
	if !l.Valid() {
		return -1
	}
	return l.layer
}

// GlyphAtlas is the concurrency-safe façade over a set of per-layer
// RectAtlases and a single IntervalAllocator. Every mutating operation
// serializes under a single mutex; there is no intra-atlas parallelism.
type GlyphAtlas struct {
	mu sync.Mutex

	texels   TexelBackingStore
	geometry GeometryBackingStore

	layers        []*RectAtlas
	interval      *IntervalAllocator
	width, height int

	cfg Config
}

// New constructs a GlyphAtlas over the given backing stores, validating cfg
// and building one RectAtlas per existing texture layer.
func New(texels TexelBackingStore, geometry GeometryBackingStore, cfg Config) (*GlyphAtlas, error) {
	if texels == nil || geometry == nil {
		return nil, fmt.Errorf("glyphatlas: New: texels and geometry backing stores must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	width, height, layerCount := texels.Dimensions()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glyphatlas: New: texel store reports invalid dimensions %dx%d", width, height)
	}
	if layerCount < 0 {
		return nil, fmt.Errorf("glyphatlas: New: texel store reports negative layer count %d", layerCount)
	}

	layers := make([]*RectAtlas, layerCount)
	for i := range layers {
		layers[i] = NewRectAtlas(width, height)
	}

	return &GlyphAtlas{
		texels:   texels,
		geometry: geometry,
		layers:   layers,
		interval: NewIntervalAllocator(geometry.Size()),
		width:    width,
		height:   height,
		cfg:      cfg,
	}, nil
}

// NewDefault constructs a GlyphAtlas with DefaultConfig().
func NewDefault(texels TexelBackingStore, geometry GeometryBackingStore) (*GlyphAtlas, error) {
	return New(texels, geometry, DefaultConfig())
}

// TexelStore returns the underlying texel backing store.
func (g *GlyphAtlas) TexelStore() TexelBackingStore { return g.texels }

// GeometryStore returns the underlying geometry backing store.
func (g *GlyphAtlas) GeometryStore() GeometryBackingStore { return g.geometry }

// LayerCount returns the number of RectAtlas layers currently tracked. It
// always equals the texel store's current layer dimension immediately
// after any mutating call returns.
func (g *GlyphAtlas) LayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.layers)
}

// GeometryCapacity returns the interval allocator's current total capacity
// in blocks, which always matches the geometry store's Size().
func (g *GlyphAtlas) GeometryCapacity() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.interval.Size()
}

// GeometryUsed returns the number of blocks currently allocated.
func (g *GlyphAtlas) GeometryUsed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	free := 0
	for _, iv := range g.interval.FreeIntervals() {
		free += iv.Length
	}
	return g.interval.Size() - free
}

// Allocate attempts to place a glyph of the given unpadded size (plus
// padding) into the atlas, uploading pixels through the texel backing
// store. Returns an invalid GlyphLocation if the glyph is larger than any
// single layer, or if every layer is full and the texel store can't (or
// won't) grow. A zero-value pad is replaced by cfg.InitialPadding applied
// uniformly on all four sides.
func (g *GlyphAtlas) Allocate(size Size, pixels []byte, pad Padding) GlyphLocation {
	if size.X > g.width || size.Y > g.height {
		Logger().Debug("glyphatlas: allocate rejected", "size", size, "error", errOversizedGlyph)
		return GlyphLocation{}
	}

	if pad == (Padding{}) && g.cfg.InitialPadding != 0 {
		pad = Padding{
			Left:   g.cfg.InitialPadding,
			Right:  g.cfg.InitialPadding,
			Top:    g.cfg.InitialPadding,
			Bottom: g.cfg.InitialPadding,
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i, layer := range g.layers {
		if rect := layer.AddRectangle(size, pad); rect != nil {
			return g.finishAllocate(i, rect, pixels)
		}
	}

	if !g.canGrowLayers() {
		Logger().Debug("glyphatlas: allocate failed", "layers", len(g.layers), "error", errAtlasFull)
		return GlyphLocation{}
	}

	newIndex := len(g.layers)
	if err := g.texels.Resize(newIndex + 1); err != nil {
		Logger().Warn("glyphatlas: texel store resize failed", "error", err)
		return GlyphLocation{}
	}
	newLayer := NewRectAtlas(g.width, g.height)
	g.layers = append(g.layers, newLayer)
	Logger().Info("glyphatlas: grew texel store", "layers", len(g.layers))

	rect := newLayer.AddRectangle(size, pad)
	if rect == nil {
		// The check above compares the unpadded size against (W,H), so a
		// fresh empty layer rejects the rectangle only when padding pushes
		// the padded size past the layer dimensions.
		Logger().Warn("glyphatlas: allocation failed on freshly grown layer")
		return GlyphLocation{}
	}
	return g.finishAllocate(newIndex, rect, pixels)
}

func (g *GlyphAtlas) canGrowLayers() bool {
	if !g.texels.Resizeable() {
		return false
	}
	if g.cfg.MaxLayers > 0 && len(g.layers) >= g.cfg.MaxLayers {
		return false
	}
	return true
}

func (g *GlyphAtlas) finishAllocate(layer int, rect *Rectangle, pixels []byte) GlyphLocation {
	x, y := rect.UnpaddedOrigin()
	size := rect.UnpaddedSize()
	if err := g.texels.SetData(x, y, layer, size.X, size.Y, pixels); err != nil {
		Logger().Warn("glyphatlas: SetData failed", "error", err, "x", x, "y", y, "layer", layer)
	}
	return GlyphLocation{rect: rect, layer: layer}
}

// Deallocate releases a glyph previously returned by Allocate. loc must be
// valid; calling Deallocate with an invalid or already-freed handle is a
// precondition violation.
func (g *GlyphAtlas) Deallocate(loc GlyphLocation) {
	if !loc.Valid() {
		panic("glyphatlas: Deallocate: invalid GlyphLocation")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	DeleteRectangle(loc.rect)
}

// AllocateGeometryData reserves and uploads geometry blocks, growing the
// geometry store if necessary. len(data) must be a positive multiple of
// GeometryStore().Alignment(); violating that is a precondition violation.
// Returns -1 if the store is full and cannot grow.
func (g *GlyphAtlas) AllocateGeometryData(data []uint32) int {
	align := g.geometry.Alignment()
	count := len(data)
	if align <= 0 || count == 0 || count%align != 0 {
		panic(fmt.Sprintf("glyphatlas: AllocateGeometryData: len(data)=%d is not a positive multiple of alignment=%d", count, align))
	}
	blocks := count / align

	g.mu.Lock()
	defer g.mu.Unlock()

	offset := g.interval.AllocateInterval(blocks)
	if offset == -1 {
		if !g.geometry.Resizeable() {
			Logger().Debug("glyphatlas: geometry allocation failed", "blocks", blocks, "error", errGeometryFull)
			return -1
		}

		oldSize := g.geometry.Size()
		newSize := blocks + geometryGrowthFactor*oldSize
		if err := g.geometry.Resize(newSize); err != nil {
			Logger().Warn("glyphatlas: geometry store resize failed", "error", err)
			return -1
		}
		g.interval.Resize(newSize)
		Logger().Info("glyphatlas: grew geometry store", "blocks", newSize)

		offset = g.interval.AllocateInterval(blocks)
		if offset == -1 {
			Logger().Warn("glyphatlas: geometry allocation failed after grow")
			return -1
		}
	}

	if err := g.geometry.SetValues(offset, data); err != nil {
		Logger().Warn("glyphatlas: SetValues failed", "error", err, "offset", offset)
	}
	return offset
}

// DeallocateGeometryData returns geometry blocks to the free pool. count is
// in raw 32-bit-record units, matching the data slice length originally
// passed to AllocateGeometryData (not in blocks). If offset < 0, count must
// be 0 (no-op); this mirrors the sentinel failure value AllocateGeometryData
// may return.
func (g *GlyphAtlas) DeallocateGeometryData(offset int, count uint32) {
	if offset < 0 {
		if count != 0 {
			panic("glyphatlas: DeallocateGeometryData: count must be 0 when offset < 0")
		}
		return
	}

	align := g.geometry.Alignment()
	if align <= 0 || int(count)%align != 0 {
		panic(fmt.Sprintf("glyphatlas: DeallocateGeometryData: count=%d is not a multiple of alignment=%d", count, align))
	}
	blocks := int(count) / align

	g.mu.Lock()
	defer g.mu.Unlock()
	g.interval.FreeInterval(offset, blocks)
}

// Clear resets every layer to a single Empty root and resets the interval
// allocator to the geometry store's current capacity. It does not shrink
// either backing store. Outstanding GlyphLocation/offset handles become
// invalid; using one after Clear is undefined behavior (the caller's
// responsibility to have dropped them first).
func (g *GlyphAtlas) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.interval.Reset(g.geometry.Size())
	for _, layer := range g.layers {
		layer.Clear()
	}
}

// Flush delegates to both backing stores, making all uploads issued since
// the last Flush visible to subsequent GPU use.
func (g *GlyphAtlas) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.texels.Flush(); err != nil {
		return fmt.Errorf("glyphatlas: texel store flush: %w", err)
	}
	if err := g.geometry.Flush(); err != nil {
		return fmt.Errorf("glyphatlas: geometry store flush: %w", err)
	}
	return nil
}
