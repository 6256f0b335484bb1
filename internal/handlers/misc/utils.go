package misc

import (
	"math"
	"runtime"
	"time"
)

// serverStats is the runtime snapshot reported by the health endpoint
type serverStats struct {
	Uptime        string  `json:"uptime"`
	NumCPU        int     `json:"num_cpu"`
	GOMAXPROCS    int     `json:"gomaxprocs"`
	NumGoroutine  int     `json:"num_goroutine"`
	NumGC         uint32  `json:"num_gc"`
	HeapAllocMiB  float64 `json:"heap_alloc_mib"`
	HeapSysMiB    float64 `json:"heap_sys_mib"`
	StackSysMiB   float64 `json:"stack_sys_mib"`
	TotalSysMiB   float64 `json:"total_sys_mib"`
	LastGCPauseMs float64 `json:"last_gc_pause_ms"`
}

var started = time.Now()

func bToMib(bytes uint64) float64 {
	return math.Round(float64(bytes)/(1<<20)*100) / 100
}

func newServerStats() serverStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var lastPause float64
	if m.NumGC > 0 {
		lastPause = float64(m.PauseNs[(m.NumGC+255)%256]) / float64(time.Millisecond)
	}

	return serverStats{
		Uptime:        time.Since(started).Round(time.Second).String(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		NumGoroutine:  runtime.NumGoroutine(),
		NumGC:         m.NumGC,
		HeapAllocMiB:  bToMib(m.HeapAlloc),
		HeapSysMiB:    bToMib(m.HeapSys),
		StackSysMiB:   bToMib(m.StackSys),
		TotalSysMiB:   bToMib(m.Sys),
		LastGCPauseMs: lastPause,
	}
}
