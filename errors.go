package glyphatlas

import "errors"

// Sentinel errors describing the conditions in §7 of the atlas's design.
// OversizedGlyph, AtlasFull and GeometryFull never escape as Go errors —
// they are only used internally for logging; the public API reports them
// through an invalid GlyphLocation or a -1 offset, matching the opaque
// handle contract of the allocate/allocate_geometry_data operations.
var (
	// errOversizedGlyph means a requested glyph's unpadded size exceeds
	// the width or height of a single RectAtlas layer.
	errOversizedGlyph = errors.New("glyphatlas: glyph size exceeds atlas dimensions")

	// errAtlasFull means every layer rejected the rectangle and the texel
	// store is not resizeable (or refused to grow).
	errAtlasFull = errors.New("glyphatlas: all layers full and texel store not resizeable")

	// errGeometryFull means the interval allocator is empty and the
	// geometry store is not resizeable (or refused to grow).
	errGeometryFull = errors.New("glyphatlas: no free geometry space and store not resizeable")

	// ErrNotResizeable is returned by a backing-store Resize implementation
	// when Resizeable() reports false.
	ErrNotResizeable = errors.New("glyphatlas: backing store is not resizeable")

	// ErrShrink is returned by a backing-store Resize implementation when
	// asked to shrink instead of grow.
	ErrShrink = errors.New("glyphatlas: new size must not be smaller than current size")

	// ErrClosed is returned when operating on a closed backing store.
	ErrClosed = errors.New("glyphatlas: backing store is closed")
)
