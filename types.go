package glyphatlas

// Size is a 2D integer extent, used both for a requested glyph size and for
// the unpadded dimensions reported back through a GlyphLocation.
type Size struct {
	X int
	Y int
}

// Padding describes the border reserved around a glyph's visible pixels to
// prevent bilinear-filter bleed into neighboring glyphs. The rectangle
// reserved in the atlas is size + (Left+Right, Top+Bottom); the region
// handed back to the caller (via GlyphLocation/Rectangle) is the inner,
// unpadded size.
type Padding struct {
	Left   uint32
	Right  uint32
	Top    uint32
	Bottom uint32
}

// paddedWidth and paddedHeight are the full allocation size for a requested
// glyph size under this padding.
func (p Padding) paddedWidth(w int) int  { return w + int(p.Left) + int(p.Right) }
func (p Padding) paddedHeight(h int) int { return h + int(p.Top) + int(p.Bottom) }
