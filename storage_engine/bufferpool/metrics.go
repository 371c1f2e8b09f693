package bufferpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// poolHits counts FetchPage calls served from a resident frame.
	poolHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brambledb_bufferpool_hits_total",
		Help: "FetchPage calls served without disk I/O",
	})
	// poolMisses counts FetchPage calls that had to go to disk.
	poolMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brambledb_bufferpool_misses_total",
		Help: "FetchPage calls that loaded the page from disk",
	})
	// evictions counts resident pages displaced by a victim frame reuse.
	evictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brambledb_bufferpool_evictions_total",
		Help: "Resident pages evicted to make room",
	})
	// writebacks counts dirty victim frames written back to disk.
	writebacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brambledb_bufferpool_writebacks_total",
		Help: "Dirty frames written back during eviction",
	})
	// flushedPages counts pages persisted by FlushAll.
	flushedPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brambledb_bufferpool_flushed_pages_total",
		Help: "Dirty pages written to disk by FlushAll",
	})
)
