// Package stats periodically logs the memory usage of the process.
package stats

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
)

// Snapshot is a summary of the runtime memory statistics.
type Snapshot struct {
	TotalAllocMB float64
	HeapAllocMB  float64
	Mallocs      uint64
	Frees        uint64
	Goroutines   int
}

// Read returns the current memory statistics.
func Read() Snapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return Snapshot{
		TotalAllocMB: toMegabytes(memStats.TotalAlloc),
		HeapAllocMB:  toMegabytes(memStats.HeapAlloc),
		Mallocs:      memStats.Mallocs,
		Frees:        memStats.Frees,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// EnableMemoryStatistics logs the memory statistics every interval until
// ctx is done.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s := Read()
				log.WithFields(log.Fields{
					"total_alloc_mb": s.TotalAllocMB,
					"heap_alloc_mb":  s.HeapAllocMB,
					"mallocs":        s.Mallocs,
					"frees":          s.Frees,
					"goroutines":     s.Goroutines,
				}).Info("memory statistics")
			case <-ctx.Done():
				return
			}
		}
	}()
}

func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / MEGABYTE
}
