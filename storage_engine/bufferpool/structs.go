package bufferpool

import (
	diskmanager "BrambleDB/storage_engine/disk_manager"
	"BrambleDB/storage_engine/page"
	"BrambleDB/types"
)

// ############################################# BUFFER POOL #############################################

// BufferPool owns a fixed array of page frames, an LRU replacer
// deciding which frame to reuse, and access to the disk manager for
// write-back and fetch.
//
// The pool is single-threaded by contract: it takes no locks, and
// callers accessing one instance from several goroutines must
// serialise themselves.
type BufferPool struct {
	poolSize    int
	frames      []*page.Page
	replacer    *LRUReplacer
	diskManager *diskmanager.DiskManager
	pagesMap    map[types.PageID]types.FrameID // resident page id -> frame id
	nextPageID  types.PageID
}
