package page

import (
	"encoding/binary"
	"fmt"

	"BrambleDB/types"
)

/*
A Page is one buffer-pool frame: a fixed-size byte buffer with a small
header in front of the caller-visible content.

Layout: [ reserved (4B, zero) | page id (4B, LE uint32) | content ].
The dirty flag lives next to the buffer and is never persisted. All
operations here are O(1) and do no I/O; the disk manager moves whole
buffers, header included, so the stamped page id travels with the page.
*/

type Page struct {
	data  []byte
	dirty bool
}

// New allocates a zeroed frame of pageSize bytes with the page id set
// to InvalidPageID. Sizes that do not leave at least one content byte
// after the header are rejected.
func New(pageSize int) *Page {
	if pageSize <= types.PageHeaderSize {
		panic(fmt.Sprintf("page size %d leaves no content after the %d byte header", pageSize, types.PageHeaderSize))
	}
	p := &Page{data: make([]byte, pageSize)}
	p.SetPageID(types.InvalidPageID)
	return p
}

// Data returns the whole buffer, header included.
func (p *Page) Data() []byte { return p.data }

// Content returns the caller-usable byte range after the header.
func (p *Page) Content() []byte { return p.data[types.PageHeaderSize:] }

func (p *Page) PageID() types.PageID {
	return types.PageID(binary.LittleEndian.Uint32(p.data[types.PageIDOffset:]))
}

func (p *Page) SetPageID(pageID types.PageID) {
	binary.LittleEndian.PutUint32(p.data[types.PageIDOffset:], uint32(pageID))
}

func (p *Page) IsDirty() bool { return p.dirty }

func (p *Page) SetDirty(dirty bool) { p.dirty = dirty }

// ResetMemory zero-fills the whole buffer and clears the dirty flag.
func (p *Page) ResetMemory() {
	for i := range p.data {
		p.data[i] = 0
	}
	p.dirty = false
}
