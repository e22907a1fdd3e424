package glyphatlas

import "testing"

func noPad() Padding { return Padding{} }

// TestRectAtlas_S1 is a literal boundary scenario: exact-fit allocate, fail, free, reallocate.
func TestRectAtlas_S1(t *testing.T) {
	a := NewRectAtlas(16, 16)

	r1 := a.AddRectangle(Size{16, 16}, noPad())
	if r1 == nil {
		t.Fatal("expected success allocating exact-fit 16x16")
	}
	if r1.MinX != 0 || r1.MinY != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", r1.MinX, r1.MinY)
	}

	if r2 := a.AddRectangle(Size{1, 1}, noPad()); r2 != nil {
		t.Fatal("expected failure, atlas is full")
	}

	DeleteRectangle(r1)

	r3 := a.AddRectangle(Size{16, 16}, noPad())
	if r3 == nil {
		t.Fatal("expected success after freeing the only rectangle")
	}
	if r3.MinX != 0 || r3.MinY != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", r3.MinX, r3.MinY)
	}
}

// TestRectAtlas_S2 is a literal boundary scenario: split, fail, free two neighbors, coalesce.
func TestRectAtlas_S2(t *testing.T) {
	a := NewRectAtlas(32, 32)

	r1 := a.AddRectangle(Size{16, 32}, noPad())
	if r1 == nil || r1.MinX != 0 || r1.MinY != 0 {
		t.Fatalf("expected (0,0), got %+v", r1)
	}

	r2 := a.AddRectangle(Size{16, 16}, noPad())
	if r2 == nil || r2.MinX != 16 || r2.MinY != 0 {
		t.Fatalf("expected (16,0), got %+v", r2)
	}

	r3 := a.AddRectangle(Size{16, 16}, noPad())
	if r3 == nil || r3.MinX != 16 || r3.MinY != 16 {
		t.Fatalf("expected (16,16), got %+v", r3)
	}

	if r4 := a.AddRectangle(Size{1, 1}, noPad()); r4 != nil {
		t.Fatal("expected failure, atlas is full")
	}

	DeleteRectangle(r3)
	DeleteRectangle(r2)

	r5 := a.AddRectangle(Size{16, 32}, noPad())
	if r5 == nil || r5.MinX != 16 || r5.MinY != 0 {
		t.Fatalf("expected coalesced (16,0) 16x32 region, got %+v", r5)
	}
}

func TestRectAtlas_RejectsOversized(t *testing.T) {
	a := NewRectAtlas(16, 16)
	if r := a.AddRectangle(Size{17, 1}, noPad()); r != nil {
		t.Fatal("expected nil, width exceeds atlas")
	}
	if r := a.AddRectangle(Size{1, 17}, noPad()); r != nil {
		t.Fatal("expected nil, height exceeds atlas")
	}
}

func TestRectAtlas_RejectsZeroSized(t *testing.T) {
	a := NewRectAtlas(16, 16)
	if r := a.AddRectangle(Size{0, 4}, noPad()); r != nil {
		t.Fatal("expected nil for zero width")
	}
	if r := a.AddRectangle(Size{4, 0}, noPad()); r != nil {
		t.Fatal("expected nil for zero height")
	}
}

func TestRectAtlas_PaddingExpandsReservedRegion(t *testing.T) {
	a := NewRectAtlas(16, 16)
	pad := Padding{Left: 1, Right: 1, Top: 1, Bottom: 1}

	r := a.AddRectangle(Size{10, 10}, pad)
	if r == nil {
		t.Fatal("expected success")
	}
	if r.W != 12 || r.H != 12 {
		t.Fatalf("expected padded size 12x12, got %dx%d", r.W, r.H)
	}
	ux, uy := r.UnpaddedOrigin()
	if ux != r.MinX+1 || uy != r.MinY+1 {
		t.Fatalf("unpadded origin (%d,%d) does not match MinX+pad", ux, uy)
	}
	if us := r.UnpaddedSize(); us.X != 10 || us.Y != 10 {
		t.Fatalf("UnpaddedSize() = %+v, want {10 10}", us)
	}
}

func TestRectAtlas_Clear(t *testing.T) {
	a := NewRectAtlas(32, 32)
	a.AddRectangle(Size{16, 32}, noPad())
	a.AddRectangle(Size{16, 16}, noPad())

	a.Clear()

	r := a.AddRectangle(Size{32, 32}, noPad())
	if r == nil || r.MinX != 0 || r.MinY != 0 {
		t.Fatalf("expected full-atlas allocation after Clear, got %+v", r)
	}
}

func TestRectAtlas_CanFit(t *testing.T) {
	a := NewRectAtlas(16, 16)
	if !a.CanFit(16, 16) {
		t.Fatal("expected CanFit(16,16) true on empty atlas")
	}
	if a.CanFit(17, 1) {
		t.Fatal("expected CanFit(17,1) false, exceeds atlas width")
	}

	a.AddRectangle(Size{16, 16}, noPad())
	if a.CanFit(1, 1) {
		t.Fatal("expected CanFit(1,1) false, atlas is full")
	}
}

func TestRectAtlas_DeleteRectanglePanicsOnDoubleFree(t *testing.T) {
	a := NewRectAtlas(16, 16)
	r := a.AddRectangle(Size{16, 16}, noPad())

	DeleteRectangle(r)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double free")
		}
	}()
	DeleteRectangle(r)
}

func TestRectAtlas_DeleteRectanglePanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic deleting nil Rectangle")
		}
	}()
	DeleteRectangle(nil)
}

// TestRectAtlas_NoEmptySiblings covers invariant 2: after any sequence of
// AddRectangle/DeleteRectangle, no two Empty sibling nodes exist.
func TestRectAtlas_NoEmptySiblings(t *testing.T) {
	a := NewRectAtlas(64, 64)

	var rects []*Rectangle
	sizes := []Size{{8, 8}, {16, 8}, {8, 16}, {32, 32}, {4, 4}, {8, 8}}
	for _, s := range sizes {
		if r := a.AddRectangle(s, noPad()); r != nil {
			rects = append(rects, r)
		}
	}
	for i, r := range rects {
		if i%2 == 0 {
			DeleteRectangle(r)
		}
	}

	assertNoEmptySiblings(t, a.root)
}

func assertNoEmptySiblings(t *testing.T, n *node) {
	t.Helper()
	if n == nil {
		return
	}
	if n.left != nil && n.right != nil {
		if n.left.state == nodeEmpty && n.right.state == nodeEmpty {
			t.Fatalf("found two empty siblings under node at (%d,%d) %dx%d", n.x, n.y, n.w, n.h)
		}
	}
	assertNoEmptySiblings(t, n.left)
	assertNoEmptySiblings(t, n.right)
}

// TestRectAtlas_LeavesTileExactly covers invariant 1: every leaf's region
// tiles the atlas exactly (area of all leaves sums to the atlas area, and
// no two Filled leaves overlap is implied by the guillotine construction).
func TestRectAtlas_LeavesTileExactly(t *testing.T) {
	a := NewRectAtlas(20, 20)
	a.AddRectangle(Size{7, 5}, noPad())
	a.AddRectangle(Size{13, 5}, noPad())
	a.AddRectangle(Size{20, 15}, noPad())

	var area int
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.left == nil && n.right == nil {
			area += n.w * n.h
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(a.root)

	if area != 20*20 {
		t.Fatalf("leaf area sum = %d, want %d", area, 20*20)
	}
}
