package metrics

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// LoadInfo is the system load snapshot.
type LoadInfo struct {
	Load1  float64
	Load5  float64
	Load15 float64
	Tasks  uint64
	// CPUs is the logical CPU count the averages are judged against.
	CPUs int
}

// LoadCollector reads load averages, task count and CPU count.
type LoadCollector struct {
	Avg      func(ctx context.Context) (*load.AvgStat, error)
	Misc     func(ctx context.Context) (*load.MiscStat, error)
	CPUCount func(ctx context.Context) (int, error)
}

// NewLoadCollector returns a collector backed by gopsutil.
func NewLoadCollector() *LoadCollector {
	return &LoadCollector{
		Avg:  load.AvgWithContext,
		Misc: load.MiscWithContext,
		CPUCount: func(ctx context.Context) (int, error) {
			return cpu.CountsWithContext(ctx, true)
		},
	}
}

func (c *LoadCollector) Collect(ctx context.Context) (section.Renderable, error) {
	avg, err := c.Avg(ctx)
	if err != nil {
		return nil, fmt.Errorf("read load average: %w", err)
	}
	misc, err := c.Misc(ctx)
	if err != nil {
		return nil, fmt.Errorf("read task count: %w", err)
	}

	cpus, err := c.CPUCount(ctx)
	if err != nil || cpus <= 0 {
		cpus = runtime.NumCPU()
	}

	tasks := uint64(0)
	if misc.ProcsTotal > 0 {
		tasks = uint64(misc.ProcsTotal)
	}

	return LoadInfo{
		Load1:  avg.Load1,
		Load5:  avg.Load5,
		Load15: avg.Load15,
		Tasks:  tasks,
		CPUs:   cpus,
	}, nil
}

// loadStyle is red at or above one runnable task per CPU and yellow from
// 80% of that.
func loadStyle(v float64, cpus int) render.Style {
	switch n := float64(cpus); {
	case v >= n:
		return render.Style{Color: render.Red}
	case v >= 0.8*n:
		return render.Style{Color: render.Yellow}
	default:
		return render.Plain
	}
}

func (i LoadInfo) Render(l render.Layout) string {
	paint := func(v float64) string {
		return l.Paint(loadStyle(v, i.CPUs), strconv.FormatFloat(v, 'f', -1, 64))
	}
	return fmt.Sprintf("Load avg 1min: %s, 5 min: %s, 15 min: %s\nTasks: %s\n",
		paint(i.Load1), paint(i.Load5), paint(i.Load15),
		humanize.Comma(int64(i.Tasks)))
}
