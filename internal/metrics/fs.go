package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/tw93/motd/internal/config"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// minFSBarWidth is the narrowest filesystem bar; paths are shortened to
// keep at least this much room.
const minFSBarWidth = 30

// Mount is the usage of one mounted filesystem, in bytes.
type Mount struct {
	Path  string
	Used  uint64
	Total uint64
}

// FSCollector lists mounted filesystems and their usage.
type FSCollector struct {
	Config     config.FSConfig
	Partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	Usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	Log        logger.Logger
}

// NewFSCollector returns a collector backed by gopsutil.
func NewFSCollector(cfg config.FSConfig, log logger.Logger) *FSCollector {
	return &FSCollector{
		Config:     cfg,
		Partitions: disk.PartitionsWithContext,
		Usage:      disk.UsageWithContext,
		Log:        log,
	}
}

func (c *FSCollector) Collect(ctx context.Context) (section.Renderable, error) {
	partitions, err := c.Partitions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list mounts: %w", err)
	}

	log := orNoop(c.Log)
	var (
		mounts     []Mount
		seenDevice = make(map[string]bool)
	)
	for _, part := range partitions {
		if c.Config.MountTypeBlacklist.Match(part.Fstype) {
			continue
		}
		if c.Config.MountPathBlacklist.Match(part.Mountpoint) {
			continue
		}
		// Bind mounts and btrfs subvolumes share a block device.
		if strings.HasPrefix(part.Device, "/") {
			if seenDevice[part.Device] {
				continue
			}
			seenDevice[part.Device] = true
		}

		usage, err := c.Usage(ctx, part.Mountpoint)
		if err != nil {
			log.Debug("skipping %s: %v", part.Mountpoint, err)
			continue
		}
		if usage.Total == 0 {
			continue
		}
		mounts = append(mounts, Mount{
			Path:  part.Mountpoint,
			Used:  usage.Used,
			Total: usage.Total,
		})
	}

	sort.Slice(mounts, func(i, j int) bool {
		return mounts[i].Path < mounts[j].Path
	})

	return FSUsage{Mounts: mounts}, nil
}

// FSUsage renders one line per mount: the mount path then a usage bar.
type FSUsage struct {
	Mounts []Mount
}

func fsStyle(pct float64) render.Style {
	switch {
	case pct >= 95:
		return render.Style{Color: render.Red}
	case pct >= 85:
		return render.Style{Color: render.Yellow}
	default:
		return render.Plain
	}
}

func (u FSUsage) Render(l render.Layout) string {
	if len(u.Mounts) == 0 {
		return ""
	}

	termWidth := max(l.Columns, minFSBarWidth+3)
	pathMax := termWidth - 1 - minFSBarWidth

	paths := make([]string, len(u.Mounts))
	maxPath := 0
	for i, m := range u.Mounts {
		paths[i] = render.Ellipsis(m.Path, pathMax)
		maxPath = max(maxPath, utf8.RuneCountInString(paths[i]))
	}
	width := max(termWidth-maxPath-1, minFSBarWidth)

	var b strings.Builder
	for i, m := range u.Mounts {
		used := min(m.Used, m.Total)
		pct := render.Percent(used, m.Total)
		style := fsStyle(pct)

		bar := render.Bar{
			Border: style,
			Parts: []render.BarPart{
				{
					Labels: []string{
						render.Bytes(used),
						" / " + render.Bytes(m.Total),
						fmt.Sprintf(" (%.1f%%)", pct),
					},
					Share:     pct,
					Fill:      render.FillBlock,
					TextStyle: style.Reversed(),
					FillStyle: style,
				},
				{
					Labels:    []string{render.Bytes(m.Total - used), " free"},
					Share:     100 - pct,
					Fill:      render.FillSpace,
					TextStyle: style,
					FillStyle: style,
				},
			},
		}

		pad := strings.Repeat(" ", maxPath-utf8.RuneCountInString(paths[i]))
		b.WriteString(l.Paint(style, paths[i]+pad))
		b.WriteString(" ")
		b.WriteString(bar.Render(width, l.Profile))
		b.WriteString("\n")
	}
	return b.String()
}
