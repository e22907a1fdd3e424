package glyphatlas

// TexelBackingStore abstracts a 3D GPU texture array of (width, height,
// layers) that GlyphAtlas uploads rasterized glyph bitmaps into. An
// implementation must preserve the contents of layers [0, Layers) across
// Resize.
type TexelBackingStore interface {
	// Dimensions returns the current (width, height, layers) of the store.
	Dimensions() (width, height, layers int)

	// Resizeable reports whether Resize may be called.
	Resizeable() bool

	// SetData uploads a rectangular region into the given layer at (x, y).
	// len(data) must equal w*h times the store's bytes per texel, which is
	// a property of the concrete implementation; the store may buffer the
	// write until the next Flush.
	SetData(x, y, layer, w, h int, data []byte) error

	// Resize grows the store to newLayers along the layer dimension.
	// newLayers must be > the current layer count. Only valid when
	// Resizeable reports true. Contents of existing layers are preserved.
	Resize(newLayers int) error

	// Flush makes all previously issued SetData calls visible to
	// subsequent GPU use.
	Flush() error
}

// GeometryBackingStore abstracts a 1D GPU buffer of `Size` blocks at a
// fixed per-record alignment, used for per-glyph geometry data (e.g.
// position/UV quads).
type GeometryBackingStore interface {
	// Size returns the current capacity in blocks.
	Size() int

	// Alignment returns the number of raw 32-bit records per block.
	Alignment() int

	// Resizeable reports whether Resize may be called.
	Resizeable() bool

	// SetValues writes len(data)/Alignment() blocks starting at
	// blockOffset. len(data) must be a multiple of Alignment().
	SetValues(blockOffset int, data []uint32) error

	// Resize grows the store to newSize blocks. newSize must be > Size().
	// Only valid when Resizeable reports true. Contents are preserved.
	Resize(newSize int) error

	// Flush makes all previously issued SetValues calls visible to
	// subsequent GPU use.
	Flush() error
}
