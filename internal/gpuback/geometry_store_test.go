package gpuback

import "testing"

func TestNewGeometryStore_NilBackendLogicalMode(t *testing.T) {
	s, err := NewGeometryStore(nil, GeometryStoreConfig{Size: 1024, Alignment: 4})
	if err != nil {
		t.Fatalf("NewGeometryStore: %v", err)
	}
	if s.Size() != 1024 || s.Alignment() != 4 {
		t.Fatalf("Size()=%d Alignment()=%d, want 1024,4", s.Size(), s.Alignment())
	}
}

func TestNewGeometryStore_RejectsInvalidAlignment(t *testing.T) {
	if _, err := NewGeometryStore(nil, GeometryStoreConfig{Size: 16, Alignment: 0}); err == nil {
		t.Fatal("expected error for zero alignment")
	}
}

func TestGeometryStore_SetValuesValidatesAlignment(t *testing.T) {
	s, _ := NewGeometryStore(nil, GeometryStoreConfig{Size: 16, Alignment: 4})

	if err := s.SetValues(0, make([]uint32, 4)); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	if err := s.SetValues(0, make([]uint32, 3)); err == nil {
		t.Fatal("expected alignment error")
	}
}

func TestGeometryStore_SetValuesRejectsOutOfBounds(t *testing.T) {
	s, _ := NewGeometryStore(nil, GeometryStoreConfig{Size: 4, Alignment: 4})

	if err := s.SetValues(4, make([]uint32, 4)); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if err := s.SetValues(-1, make([]uint32, 4)); err == nil {
		t.Fatal("expected out-of-bounds error for negative offset")
	}
}

func TestGeometryStore_ResizeRequiresResizeable(t *testing.T) {
	s, _ := NewGeometryStore(nil, GeometryStoreConfig{Size: 16, Alignment: 4, Resizeable: false})

	if err := s.Resize(32); err != ErrNotResizeable {
		t.Fatalf("Resize() = %v, want ErrNotResizeable", err)
	}
}

func TestGeometryStore_ResizeGrows(t *testing.T) {
	s, _ := NewGeometryStore(nil, GeometryStoreConfig{Size: 16, Alignment: 4, Resizeable: true})

	if err := s.Resize(48); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.Size() != 48 {
		t.Fatalf("Size() = %d, want 48", s.Size())
	}
	if err := s.Resize(10); err != ErrShrink {
		t.Fatalf("Resize(10) = %v, want ErrShrink", err)
	}
}

func TestGeometryStore_FlushDrainsPendingWrites(t *testing.T) {
	s, _ := NewGeometryStore(nil, GeometryStoreConfig{Size: 16, Alignment: 4})

	if err := s.SetValues(0, make([]uint32, 4)); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	if len(s.pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(s.pending))
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(s.pending) != 0 {
		t.Fatalf("pending after Flush = %d, want 0", len(s.pending))
	}
}
