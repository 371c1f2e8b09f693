package page

import (
	"bytes"
	"testing"

	"BrambleDB/types"
)

func TestPageHeaderLayout(t *testing.T) {
	p := New(64)
	if p.PageID() != types.InvalidPageID {
		t.Errorf("fresh page id = %d, want InvalidPageID", p.PageID())
	}

	p.SetPageID(7)
	if p.PageID() != 7 {
		t.Errorf("PageID() = %d, want 7", p.PageID())
	}
	// Little-endian uint32 at byte offset 4; bytes [0,4) stay reserved.
	want := []byte{0, 0, 0, 0, 7, 0, 0, 0}
	if !bytes.Equal(p.Data()[:types.PageHeaderSize], want) {
		t.Errorf("header bytes = %v, want %v", p.Data()[:types.PageHeaderSize], want)
	}

	if len(p.Content()) != 64-types.PageHeaderSize {
		t.Errorf("Content() length = %d, want %d", len(p.Content()), 64-types.PageHeaderSize)
	}
	copy(p.Content(), "x")
	if p.Data()[types.PageHeaderSize] != 'x' {
		t.Errorf("content must start right after the header")
	}
}

func TestPageReset(t *testing.T) {
	p := New(32)
	p.SetPageID(3)
	copy(p.Content(), "dirty bytes")
	p.SetDirty(true)

	p.ResetMemory()
	if p.IsDirty() {
		t.Errorf("ResetMemory must clear the dirty flag")
	}
	for i, b := range p.Data() {
		if b != 0 {
			t.Fatalf("byte %d = %d after reset, want 0", i, b)
		}
	}
}

func TestPageRejectsTinySizes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New(8) must reject a page with no content bytes")
		}
	}()
	New(8)
}
