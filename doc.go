// Package glyphatlas implements the glyph atlas core of a GPU-accelerated
// 2D rendering library: packing rasterized glyph bitmaps and per-glyph
// geometry into a small set of GPU-resident backing stores, handing out
// stable handles, and releasing them when glyphs are evicted.
//
// # Overview
//
// The atlas combines three pieces:
//
//   - [IntervalAllocator]: a 1D free-space manager over a linear geometry
//     buffer, with coalescing free and growable tail.
//   - [RectAtlas]: a single-layer 2D guillotine packer that subdivides a
//     WxH region into padded sub-rectangles, with coalescing free.
//   - [GlyphAtlas]: the concurrency-safe façade that owns one RectAtlas per
//     texture layer and one IntervalAllocator, routes allocations, grows
//     the backing stores on exhaustion, and defers uploads until Flush.
//
// # Quick Start
//
//	texels, err := gpuback.NewTexelStore(backend, gpuback.TexelStoreConfig{
//		Width: 1024, Height: 1024, Layers: 1, Resizeable: true,
//	})
//	geometry, err := gpuback.NewGeometryStore(backend, gpuback.GeometryStoreConfig{
//		Size: 4096, Alignment: 4, Resizeable: true,
//	})
//	atlas, err := glyphatlas.NewDefault(texels, geometry)
//
//	loc := atlas.Allocate(glyphatlas.Size{X: 18, Y: 22}, pixels, glyphatlas.Padding{
//		Left: 1, Right: 1, Top: 1, Bottom: 1,
//	})
//	if !loc.Valid() {
//		// atlas is full and the texel store refused to grow
//	}
//	atlas.Flush()
//
// # Concurrency
//
// GlyphAtlas serializes every mutating call behind a single mutex. There is
// no intra-atlas parallelism; the backing stores are assumed safe to call
// from the thread holding that lock.
//
// # Backing stores
//
// TexelBackingStore and GeometryBackingStore are the only collaborator
// contracts this package depends on. The gpuback subpackage implements
// both on top of github.com/gogpu/wgpu; any implementation satisfying the
// two interfaces can be used instead (see the cpuback subpackage for a
// CPU-only reference implementation used in tests).
package glyphatlas
