package metrics

import (
	"context"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	systemCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_cpu_percent",
		Help: "Host CPU utilization percent",
	})
	systemMemoryUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_used_bytes",
		Help: "Host memory in use",
	})
	systemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})
)

// SampleSystem takes one host stats sample. Model calls are CPU-heavy,
// so these gauges are the first thing to look at when jobs slow down.
// The caller owns the schedule.
func SampleSystem(_ context.Context) {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		systemCPUPercent.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		systemMemoryUsed.Set(float64(vm.Used))
	}
	systemGoroutines.Set(float64(runtime.NumGoroutine()))
}
