package server

import (
	"net/http"
	"strings"

	"BrambleDB/logger"
	routes "BrambleDB/server/routes"
	"BrambleDB/storage_engine/bufferpool"
	diskmanager "BrambleDB/storage_engine/disk_manager"
	"BrambleDB/trie"
	"BrambleDB/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config carries the serve-time settings resolved by the entrypoint.
type Config struct {
	ListenAddr  string
	MetricsAddr string // empty disables the metrics listener
	PageFile    string // db file served on the page routes, empty disables
	PageSize    int    // bytes per page when creating PageFile
	PoolSize    int    // buffer pool frames for PageFile
}

// NewApp builds the fiber app over a trie store and an optional page
// service. Split out from Serve so tests can drive it with app.Test.
func NewApp(store *trie.TrieStore, instanceID string, pages *routes.Pages) *fiber.App {
	app := fiber.New()
	routes.SetupRoutes(app, store, instanceID, pages)
	return app
}

// Serve runs the KV service until the listener fails.
func Serve(cfg Config) error {
	store := trie.NewTrieStore()
	defer store.Close()

	instanceID := "bramble_" + strings.Split(uuid.NewString(), "-")[0]

	var pages *routes.Pages
	if cfg.PageFile != "" {
		if cfg.PageSize == 0 {
			cfg.PageSize = types.DefaultPageSize
		}
		if cfg.PoolSize == 0 {
			cfg.PoolSize = types.DefaultPoolSize
		}
		disk := diskmanager.NewDiskManager(cfg.PageFile, uint64(cfg.PageSize))
		pool := bufferpool.NewBufferPool(cfg.PoolSize, disk)
		defer disk.ShutDown()
		defer pool.Close()
		pages = routes.NewPages(cfg.PageFile, pool, disk)
		logger.Info("page file %s open, page_size=%d pool_size=%d",
			cfg.PageFile, disk.PageSize(), cfg.PoolSize)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics listener: %v", err)
			}
		}()
	}

	app := NewApp(store, instanceID, pages)
	logger.Info("fiber listening on %s as %s", cfg.ListenAddr, instanceID)
	return app.Listen(cfg.ListenAddr)
}
