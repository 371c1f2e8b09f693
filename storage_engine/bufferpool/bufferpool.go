package bufferpool

import (
	"BrambleDB/logger"
	diskmanager "BrambleDB/storage_engine/disk_manager"
	"BrambleDB/storage_engine/page"
	"BrambleDB/types"
)

/*
This file is the main file of the buffer pool.

The pool caches fixed-size disk pages in a fixed array of frames. The
LRU replacer decides which frame a new or fetched page lands in, pin
counts keep in-use frames safe from eviction, and the disk manager
handles write-back of dirty frames plus loading on a cache miss.

Pages are identified by PageID; frames by their index in the array.
*/

// NewBufferPool creates a pool of poolSize frames sized by the disk
// manager's page size. The next page id continues from the file's
// current page count.
func NewBufferPool(poolSize int, diskManager *diskmanager.DiskManager) *BufferPool {
	frames := make([]*page.Page, poolSize)
	for i := range frames {
		frames[i] = page.New(int(diskManager.PageSize()))
	}
	return &BufferPool{
		poolSize:    poolSize,
		frames:      frames,
		replacer:    NewLRUReplacer(poolSize),
		diskManager: diskManager,
		pagesMap:    make(map[types.PageID]types.FrameID, poolSize),
		nextPageID:  types.PageID(diskManager.PageNum()),
	}
}

// PoolSize returns the number of frames the pool owns.
func (bp *BufferPool) PoolSize() int { return bp.poolSize }

// NewPage allocates a fresh page id and places it in a frame, pinned.
// The frame starts dirty so its zeroed content reaches disk even if the
// caller never writes. Returns nil when every frame is pinned; the id
// allocated for that attempt is then burned. Unpin the page when done
// with it.
func (bp *BufferPool) NewPage() *page.Page {
	pageID := bp.allocatePageID()
	frameID, ok := bp.getFreeFrame()
	if !ok {
		logger.Debug("[BufferPool] NewPage pageID=%d rejected, all frames pinned", pageID)
		return nil
	}
	pg := bp.frames[frameID]
	pg.SetPageID(pageID)
	pg.SetDirty(true)
	bp.pagesMap[pageID] = frameID
	return pg
}

// FetchPage returns the frame holding pageID, pinned. A resident page
// is re-pinned without touching disk or its dirty flag; otherwise a
// victim frame is loaded from disk. Returns nil when the page is not
// resident and every frame is pinned. Unpin the page when done with it.
func (bp *BufferPool) FetchPage(pageID types.PageID) *page.Page {
	if frameID, ok := bp.pagesMap[pageID]; ok {
		poolHits.Inc()
		logger.Debug("[BufferPool] HIT  pageID=%d", pageID)
		bp.replacer.Pin(frameID)
		return bp.frames[frameID]
	}
	poolMisses.Inc()
	logger.Debug("[BufferPool] MISS pageID=%d, loading from disk", pageID)
	frameID, ok := bp.getFreeFrame()
	if !ok {
		return nil
	}
	pg := bp.frames[frameID]
	bp.diskManager.ReadPage(pageID, pg.Data())
	pg.SetDirty(false)
	bp.pagesMap[pageID] = frameID
	return pg
}

// UnpinPage drops one pin from the frame holding pageID. Returns false
// if the page is not resident. The dirty flag is only ever raised here,
// never cleared.
func (bp *BufferPool) UnpinPage(pageID types.PageID, isDirty bool) bool {
	frameID, ok := bp.pagesMap[pageID]
	if !ok {
		return false
	}
	if isDirty {
		bp.frames[frameID].SetDirty(true)
	}
	bp.replacer.Unpin(frameID)
	return true
}

// GetPage returns the resident frame for pageID without touching disk
// or pin state. Returns nil if the page is not resident.
func (bp *BufferPool) GetPage(pageID types.PageID) *page.Page {
	frameID, ok := bp.pagesMap[pageID]
	if !ok {
		return nil
	}
	return bp.frames[frameID]
}

// FlushAll writes every dirty resident page to disk and marks it
// clean. Residency and pin state are untouched.
func (bp *BufferPool) FlushAll() {
	for pageID, frameID := range bp.pagesMap {
		pg := bp.frames[frameID]
		if !pg.IsDirty() {
			continue
		}
		bp.diskManager.WritePage(pageID, pg.Data())
		pg.SetDirty(false)
		flushedPages.Inc()
	}
}

// Close flushes all dirty frames and releases them. The disk manager
// stays open; shut it down separately.
func (bp *BufferPool) Close() {
	bp.FlushAll()
	bp.frames = nil
}

func (bp *BufferPool) allocatePageID() types.PageID {
	pageID := bp.nextPageID
	bp.nextPageID++
	return pageID
}

// getFreeFrame asks the replacer for a victim, writes the victim back
// if dirty, drops its old residency entry, and hands over a zeroed
// frame. The frame comes back already pinned by the replacer.
func (bp *BufferPool) getFreeFrame() (types.FrameID, bool) {
	frameID, ok := bp.replacer.Victim()
	if !ok {
		return 0, false
	}
	pg := bp.frames[frameID]
	if pg.IsDirty() {
		logger.Debug("[BufferPool] EVICT pageID=%d dirty, writing back", pg.PageID())
		bp.diskManager.WritePage(pg.PageID(), pg.Data())
		writebacks.Inc()
	}
	if _, resident := bp.pagesMap[pg.PageID()]; resident {
		delete(bp.pagesMap, pg.PageID())
		evictions.Inc()
	}
	pg.ResetMemory()
	return frameID, true
}
