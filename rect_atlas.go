package glyphatlas

import "fmt"

// nodeState is the state of a single node in a RectAtlas tree.
type nodeState int

const (
	nodeEmpty nodeState = iota
	nodeSplitX
	nodeSplitY
	nodeFilled
)

// node is an internal RectAtlas tree node covering a region of the layer.
type node struct {
	x, y, w, h int
	state      nodeState
	left       *node
	right      *node
	parent     *node
	rect       *Rectangle
}

// Rectangle is a leaf allocation returned by RectAtlas.AddRectangle. It
// holds a weak, non-owning back-pointer to its owning node/atlas so that
// DeleteRectangle can locate and free it; the rectangle itself carries no
// ownership of tree state.
type Rectangle struct {
	atlas *RectAtlas
	node  *node

	// MinX, MinY is the origin of the full, padded region in layer-local
	// pixels.
	MinX, MinY int
	// W, H is the full size including padding.
	W, H int

	pad       Padding
	unpaddedW int
	unpaddedH int

	freed bool
}

// UnpaddedOrigin returns the origin of the visible, unpadded sub-region.
func (r *Rectangle) UnpaddedOrigin() (x, y int) {
	return r.MinX + int(r.pad.Left), r.MinY + int(r.pad.Top)
}

// UnpaddedSize returns the dimensions of the visible, unpadded sub-region.
// This always equals the size originally requested from AddRectangle.
func (r *Rectangle) UnpaddedSize() Size {
	return Size{X: r.unpaddedW, Y: r.unpaddedH}
}

// RectAtlas is a single-layer 2D guillotine packer over a WxH region. It is
// not safe for concurrent use; GlyphAtlas serializes all access to it.
type RectAtlas struct {
	width, height int
	root          *node
}

// NewRectAtlas constructs a packer with a single Empty root node covering
// [0,width) x [0,height).
func NewRectAtlas(width, height int) *RectAtlas {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("glyphatlas: NewRectAtlas: invalid dimensions %dx%d", width, height))
	}
	a := &RectAtlas{width: width, height: height}
	a.root = &node{w: width, h: height}
	return a
}

// Width returns the atlas width in pixels.
func (a *RectAtlas) Width() int { return a.width }

// Height returns the atlas height in pixels.
func (a *RectAtlas) Height() int { return a.height }

// AddRectangle attempts to place a rectangle of size+padding inside the
// atlas. On success it returns an owned Rectangle whose unpadded region
// begins at (x+pad.Left, y+pad.Top) and has dimensions size. On failure (no
// sub-region large enough) it returns nil without mutating the tree.
// size.X and size.Y must both be > 0.
func (a *RectAtlas) AddRectangle(size Size, pad Padding) *Rectangle {
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}

	w := pad.paddedWidth(size.X)
	h := pad.paddedHeight(size.Y)

	n := placeInto(a.root, w, h)
	if n == nil {
		return nil
	}

	rect := &Rectangle{
		atlas:     a,
		node:      n,
		MinX:      n.x,
		MinY:      n.y,
		W:         w,
		H:         h,
		pad:       pad,
		unpaddedW: size.X,
		unpaddedH: size.Y,
	}
	n.rect = rect

	Logger().Debug("glyphatlas: rectangle placed", "x", n.x, "y", n.y, "w", w, "h", h)
	return rect
}

// CanFit reports whether a rectangle of the given padded size could be
// placed without mutating the tree. It is a read-only probe.
func (a *RectAtlas) CanFit(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return canFit(a.root, w, h)
}

// Clear resets the tree to a single Empty root, discarding every
// outstanding Rectangle. Handles into the previous tree become invalid.
func (a *RectAtlas) Clear() {
	a.root = &node{w: a.width, h: a.height}
}

// DeleteRectangle frees a Rectangle previously returned by any RectAtlas's
// AddRectangle. It finds the owning node via the rectangle's node
// back-pointer, marks it Empty, and coalesces upward. Calling it with nil
// or an already-freed Rectangle is a precondition violation.
func DeleteRectangle(r *Rectangle) {
	if r == nil || r.freed {
		panic("glyphatlas: DeleteRectangle: nil or already-freed Rectangle")
	}

	n := r.node
	n.state = nodeEmpty
	n.rect = nil
	r.freed = true

	Logger().Debug("glyphatlas: rectangle freed", "x", r.MinX, "y", r.MinY, "w", r.W, "h", r.H)
	coalesceUp(n.parent)
}

// placeInto implements the recursive first-fit-with-splitting placement
// algorithm. It returns the Filled leaf node on success, or nil.
func placeInto(n *node, w, h int) *node {
	switch n.state {
	case nodeFilled:
		return nil

	case nodeSplitX, nodeSplitY:
		if placed := placeInto(n.left, w, h); placed != nil {
			return placed
		}
		return placeInto(n.right, w, h)

	case nodeEmpty:
		if w > n.w || h > n.h {
			return nil
		}
		if w == n.w && h == n.h {
			n.state = nodeFilled
			return n
		}

		if n.w-w >= n.h-h {
			// Split vertically at x=w: left child is full-height, width w;
			// right child is full-height, width n.w-w.
			n.left = &node{x: n.x, y: n.y, w: w, h: n.h, parent: n}
			n.right = &node{x: n.x + w, y: n.y, w: n.w - w, h: n.h, parent: n}
			n.state = nodeSplitX
		} else {
			// Split horizontally at y=h: top child is full-width, height h;
			// bottom child is full-width, height n.h-h.
			n.left = &node{x: n.x, y: n.y, w: n.w, h: h, parent: n}
			n.right = &node{x: n.x, y: n.y + h, w: n.w, h: n.h - h, parent: n}
			n.state = nodeSplitY
		}
		// n.left always has the same origin as n, i.e. contains (0,0)
		// relative to n's region.
		return placeInto(n.left, w, h)

	default:
		panic(fmt.Sprintf("glyphatlas: unknown node state %d", n.state))
	}
}

// canFit mirrors placeInto without mutating the tree.
func canFit(n *node, w, h int) bool {
	switch n.state {
	case nodeFilled:
		return false
	case nodeSplitX, nodeSplitY:
		return canFit(n.left, w, h) || canFit(n.right, w, h)
	case nodeEmpty:
		return w <= n.w && h <= n.h
	default:
		return false
	}
}

// coalesceUp merges a parent's two Empty children upward, continuing until
// a non-mergeable ancestor or the root is reached.
func coalesceUp(n *node) {
	for n != nil {
		if n.left == nil || n.right == nil {
			return
		}
		if n.left.state != nodeEmpty || n.right.state != nodeEmpty {
			return
		}
		n.left = nil
		n.right = nil
		n.state = nodeEmpty
		n = n.parent
	}
}
