package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MetricsManager is a singleton that owns the Prometheus registry and the
// system gauges.
type MetricsManager struct {
	// System metrics
	systemCPUUsage    *prometheus.GaugeVec
	systemMemoryUsage *prometheus.GaugeVec

	// Go runtime metrics
	goGoroutines    prometheus.Gauge
	goHeapAlloc     prometheus.Gauge
	goHeapSys       prometheus.Gauge
	goGCPauseNs     prometheus.Histogram
	goGCCPUFraction prometheus.Gauge

	// Process metrics
	processOpenFDs   prometheus.Gauge
	processRSS       prometheus.Gauge
	processStartTime prometheus.Gauge

	// Registry for manual control
	registry *prometheus.Registry

	initialized bool
	mu          sync.RWMutex
}

var (
	instance *MetricsManager
	once     sync.Once
)

// GetInstance returns the singleton instance of MetricsManager
func GetInstance() *MetricsManager {
	once.Do(func() {
		instance = &MetricsManager{
			registry: prometheus.NewRegistry(),
		}
	})
	return instance
}

// Registry exposes the registry for handlers and tests.
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

// InitializeMetrics registers the system gauges (thread-safe)
func (mm *MetricsManager) InitializeMetrics() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if mm.initialized {
		return
	}

	// System metrics
	mm.systemCPUUsage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage",
		},
		[]string{"core"},
	)
	mm.systemMemoryUsage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_memory_usage_bytes",
			Help: "Current memory usage in bytes",
		},
		[]string{"type"},
	)

	// Go runtime metrics
	mm.goGoroutines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_go_goroutines",
		Help: "Number of goroutines that currently exist",
	})
	mm.goHeapAlloc = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_go_heap_alloc_bytes",
		Help: "Heap memory usage in bytes",
	})
	mm.goHeapSys = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_go_heap_sys_bytes",
		Help: "Heap memory reserved in bytes",
	})
	mm.goGCPauseNs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "opsboard_go_gc_pause_nanoseconds",
		Help:    "GC pause time in nanoseconds",
		Buckets: prometheus.ExponentialBuckets(1000, 2, 20),
	})
	mm.goGCCPUFraction = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_go_gc_cpu_fraction",
		Help: "Fraction of CPU time used by GC",
	})

	// Process metrics
	mm.processOpenFDs = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_process_open_fds",
		Help: "Number of open file descriptors",
	})
	mm.processRSS = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_process_resident_memory_bytes",
		Help: "Resident set size of the process",
	})
	mm.processStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "opsboard_process_start_time_seconds",
		Help: "Start time of the process since unix epoch in seconds",
	})

	// Register all metrics with our custom registry
	mm.registry.MustRegister(
		mm.systemCPUUsage,
		mm.systemMemoryUsage,
		mm.goGoroutines,
		mm.goHeapAlloc,
		mm.goHeapSys,
		mm.goGCPauseNs,
		mm.goGCCPUFraction,
		mm.processOpenFDs,
		mm.processRSS,
		mm.processStartTime,
	)

	mm.initialized = true
}

// Handler serves everything registered on the singleton registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetInstance().registry, promhttp.HandlerOpts{})
}

// StartSystemMetrics collects system gauges every interval until ctx is
// done. It does nothing unless ENABLE_SYSTEM_METRICS is on.
func StartSystemMetrics(ctx context.Context, interval time.Duration) {
	// Check if system metrics are enabled
	if !SystemEnabled() {
		return
	}

	mm := GetInstance()
	mm.InitializeMetrics()
	mm.collect()

	log.Info().
		Dur("interval", interval).
		Msg("System metrics collection started")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("System metrics collection stopped")
				return
			case <-ticker.C:
				mm.collect()
			}
		}
	}()
}

func (mm *MetricsManager) collect() {
	mm.collectSystemMetrics()
	mm.collectGoRuntimeMetrics()
	mm.collectProcessMetrics()
}

// collectSystemMetrics collects system-level metrics
func (mm *MetricsManager) collectSystemMetrics() {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	if !mm.initialized {
		return
	}

	// CPU usage
	if cpuPercentages, err := cpu.Percent(0, true); err == nil {
		for i, percentage := range cpuPercentages {
			mm.systemCPUUsage.WithLabelValues(fmt.Sprintf("cpu%d", i)).Set(percentage)
		}
	}

	// Memory usage
	if vmstat, err := mem.VirtualMemory(); err == nil {
		mm.systemMemoryUsage.WithLabelValues("total").Set(float64(vmstat.Total))
		mm.systemMemoryUsage.WithLabelValues("available").Set(float64(vmstat.Available))
		mm.systemMemoryUsage.WithLabelValues("used").Set(float64(vmstat.Used))
		mm.systemMemoryUsage.WithLabelValues("free").Set(float64(vmstat.Free))
	}
}

// collectGoRuntimeMetrics collects Go runtime metrics
func (mm *MetricsManager) collectGoRuntimeMetrics() {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	if !mm.initialized {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.goGoroutines.Set(float64(runtime.NumGoroutine()))
	mm.goHeapAlloc.Set(float64(m.HeapAlloc))
	mm.goHeapSys.Set(float64(m.HeapSys))
	// Most recent GC pause
	mm.goGCPauseNs.Observe(float64(m.PauseNs[(m.NumGC+255)%256]))
	mm.goGCCPUFraction.Set(m.GCCPUFraction)
}

func (mm *MetricsManager) collectProcessMetrics() {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	if !mm.initialized {
		return
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Debug().Err(err).Msg("Process metrics unavailable")
		return
	}
	// Open FDs are not available on every platform
	if fds, err := p.NumFDs(); err == nil {
		mm.processOpenFDs.Set(float64(fds))
	}
	if memInfo, err := p.MemoryInfo(); err == nil {
		mm.processRSS.Set(float64(memInfo.RSS))
	}
	// CreateTime is in milliseconds
	if created, err := p.CreateTime(); err == nil {
		mm.processStartTime.Set(float64(created) / 1000)
	}
}
