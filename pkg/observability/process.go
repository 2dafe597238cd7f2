package observability

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessStats is a point-in-time snapshot of the gateway process for the
// introspection endpoint.
type ProcessStats struct {
	UptimeSeconds float64
	MemoryMB      float64
	CPUPercent    float64
}

// Stats captures process statistics relative to the given start instant.
// Fields that cannot be read stay zero; introspection never fails a
// request.
func Stats(start time.Time) ProcessStats {
	stats := ProcessStats{UptimeSeconds: time.Since(start).Seconds()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		stats.MemoryMB = float64(mem.RSS) / (1 << 20)
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
