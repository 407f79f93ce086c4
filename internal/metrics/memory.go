package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// MemInfo is one memory and swap snapshot, in bytes.
type MemInfo struct {
	Total     uint64
	Free      uint64
	Buffers   uint64
	Cached    uint64
	SwapTotal uint64
	SwapFree  uint64
}

// Used is memory neither free nor reclaimable cache.
func (m MemInfo) Used() uint64 {
	return subSat(m.Total, m.Free+m.Buffers+m.Cached)
}

// CachedTotal is buffers plus page cache.
func (m MemInfo) CachedTotal() uint64 {
	return m.Buffers + m.Cached
}

// SwapUsed is swap in use.
func (m MemInfo) SwapUsed() uint64 {
	return subSat(m.SwapTotal, m.SwapFree)
}

func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// MemorySource reads memory counters at most once and shares the result
// between the memory and swap sections.
type MemorySource struct {
	Virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Swap    func(ctx context.Context) (*mem.SwapMemoryStat, error)

	once sync.Once
	info MemInfo
	err  error
}

// NewMemorySource returns a source backed by gopsutil.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		Virtual: mem.VirtualMemoryWithContext,
		Swap:    mem.SwapMemoryWithContext,
	}
}

// Snapshot returns the shared snapshot, reading it on first use. Concurrent
// callers block until the first read completes and all see the same result.
func (s *MemorySource) Snapshot(ctx context.Context) (MemInfo, error) {
	s.once.Do(func() {
		s.info, s.err = s.read(ctx)
	})
	return s.info, s.err
}

func (s *MemorySource) read(ctx context.Context) (MemInfo, error) {
	vm, err := s.Virtual(ctx)
	if err != nil {
		return MemInfo{}, fmt.Errorf("read memory info: %w", err)
	}
	sw, err := s.Swap(ctx)
	if err != nil {
		return MemInfo{}, fmt.Errorf("read swap info: %w", err)
	}
	return MemInfo{
		Total:     vm.Total,
		Free:      vm.Free,
		Buffers:   vm.Buffers,
		Cached:    vm.Cached,
		SwapTotal: sw.Total,
		SwapFree:  sw.Free,
	}, nil
}

// MemoryCollector renders the memory bar from a shared source.
type MemoryCollector struct {
	Source *MemorySource
}

func (c *MemoryCollector) Collect(ctx context.Context) (section.Renderable, error) {
	info, err := c.Source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return MemoryUsage(info), nil
}

// SwapCollector renders the swap bar from a shared source.
type SwapCollector struct {
	Source *MemorySource
}

func (c *SwapCollector) Collect(ctx context.Context) (section.Renderable, error) {
	info, err := c.Source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return SwapUsage(info), nil
}

var (
	usedText   = render.Style{Bold: true, Reverse: true}
	cachedText = render.Style{Dim: true, Reverse: true}
	cachedFill = render.Style{Dim: true}
)

func usageLabels(name string, v, total uint64) []string {
	return []string{
		name,
		" " + render.Bytes(v),
		fmt.Sprintf(" (%.1f%%)", render.Percent(v, total)),
	}
}

func barWidth(l render.Layout, parts int) int {
	return max(l.Columns, parts+2)
}

// MemoryUsage renders as a total line and a used/cached/free bar.
type MemoryUsage MemInfo

func (m MemoryUsage) Render(l render.Layout) string {
	info := MemInfo(m)
	if info.Total == 0 {
		return ""
	}
	used, cached := info.Used(), info.CachedTotal()
	free := subSat(info.Total, used+cached)

	parts := []render.BarPart{
		{
			Labels:    usageLabels("Used", used, info.Total),
			Share:     render.Percent(used, info.Total),
			Fill:      render.FillBlock,
			TextStyle: usedText,
		},
		{
			Labels:    usageLabels("Cached", cached, info.Total),
			Share:     render.Percent(cached, info.Total),
			Fill:      render.FillBlock,
			TextStyle: cachedText,
			FillStyle: cachedFill,
		},
		{
			Labels: usageLabels("Free", free, info.Total),
			Share:  render.Percent(free, info.Total),
			Fill:   render.FillSpace,
		},
	}
	return fmt.Sprintf("Total: %s\n%s\n",
		render.Bytes(info.Total),
		render.RenderBar(parts, barWidth(l, len(parts)), l.Profile))
}

// SwapUsage renders as a total line and a used/free bar, or nothing when
// no swap is configured.
type SwapUsage MemInfo

func (s SwapUsage) Render(l render.Layout) string {
	info := MemInfo(s)
	if info.SwapTotal == 0 {
		return ""
	}
	used := info.SwapUsed()
	free := info.SwapTotal - used

	parts := []render.BarPart{
		{
			Labels:    usageLabels("Used", used, info.SwapTotal),
			Share:     render.Percent(used, info.SwapTotal),
			Fill:      render.FillBlock,
			TextStyle: usedText,
		},
		{
			Labels: usageLabels("Free", free, info.SwapTotal),
			Share:  render.Percent(free, info.SwapTotal),
			Fill:   render.FillSpace,
		},
	}
	return fmt.Sprintf("Total: %s\n%s\n",
		render.Bytes(info.SwapTotal),
		render.RenderBar(parts, barWidth(l, len(parts)), l.Profile))
}
