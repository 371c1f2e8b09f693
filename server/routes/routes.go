package routes

import (
	"bytes"
	"strconv"
	"sync"

	"BrambleDB/storage_engine/bufferpool"
	diskmanager "BrambleDB/storage_engine/disk_manager"
	"BrambleDB/trie"
	"BrambleDB/types"

	"github.com/gofiber/fiber/v2"
)

// Pages serialises HTTP access to a buffer pool over one page file.
// The pool itself is single-threaded and takes no locks, so every
// handler that touches it goes through mu.
type Pages struct {
	mu   sync.Mutex
	path string
	pool *bufferpool.BufferPool
	disk *diskmanager.DiskManager
}

// NewPages wraps a buffer pool and its disk manager for the page
// routes.
func NewPages(path string, pool *bufferpool.BufferPool, disk *diskmanager.DiskManager) *Pages {
	return &Pages{path: path, pool: pool, disk: disk}
}

// known reports whether pageID can be fetched without reading past the
// recorded end of file: the page is either resident or already on
// disk. An id burned by a failed NewPage is neither, until a higher
// page is written to disk; it then counts as on disk and reads back as
// zeroes.
func (p *Pages) known(pageID types.PageID) bool {
	return p.pool.GetPage(pageID) != nil || uint64(pageID) < p.disk.PageNum()
}

func parsePageID(c *fiber.Ctx) (types.PageID, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return types.PageID(id), true
}

// SetupRoutes registers the KV routes over the trie store plus the
// page routes over the buffer pool. pages may be nil, which disables
// the page surface.
func SetupRoutes(router fiber.Router, store *trie.TrieStore, instanceID string, pages *Pages) {
	router.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "instance": instanceID})
	})

	router.Get("/kv/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		guard, ok := trie.StoreGet[string](store, key)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "key not found"})
		}
		return c.JSON(fiber.Map{"key": key, "value": *guard.Value()})
	})

	router.Put("/kv/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		trie.StorePut(store, key, string(c.Body()))
		return c.JSON(fiber.Map{"status": "stored", "key": key})
	})

	router.Delete("/kv/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		store.Remove(key)
		return c.JSON(fiber.Map{"status": "removed", "key": key})
	})

	router.Get("/pagefile", func(c *fiber.Ctx) error {
		if pages == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no page file configured"})
		}
		stat, err := diskmanager.StatFile(pages.path)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(stat)
	})

	router.Post("/pages", func(c *fiber.Ctx) error {
		if pages == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no page file configured"})
		}
		pages.mu.Lock()
		defer pages.mu.Unlock()

		pg := pages.pool.NewPage()
		if pg == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "all frames pinned"})
		}
		copy(pg.Content(), c.Body())
		pageID := pg.PageID()
		pages.pool.UnpinPage(pageID, true)
		return c.JSON(fiber.Map{"status": "created", "page": pageID})
	})

	router.Get("/pages/:id", func(c *fiber.Ctx) error {
		if pages == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no page file configured"})
		}
		pageID, ok := parsePageID(c)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad page id"})
		}
		pages.mu.Lock()
		defer pages.mu.Unlock()

		if !pages.known(pageID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "page not found"})
		}
		pg := pages.pool.FetchPage(pageID)
		if pg == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "all frames pinned"})
		}
		content := bytes.TrimRight(append([]byte(nil), pg.Content()...), "\x00")
		pages.pool.UnpinPage(pageID, false)
		return c.JSON(fiber.Map{"page": pageID, "content": string(content)})
	})

	router.Put("/pages/:id", func(c *fiber.Ctx) error {
		if pages == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no page file configured"})
		}
		pageID, ok := parsePageID(c)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad page id"})
		}
		pages.mu.Lock()
		defer pages.mu.Unlock()

		if !pages.known(pageID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "page not found"})
		}
		pg := pages.pool.FetchPage(pageID)
		if pg == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "all frames pinned"})
		}
		content := pg.Content()
		for i := range content {
			content[i] = 0
		}
		copy(content, c.Body())
		pages.pool.UnpinPage(pageID, true)
		return c.JSON(fiber.Map{"status": "stored", "page": pageID})
	})
}
