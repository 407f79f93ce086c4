package metrics

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tw93/motd/internal/config"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/render"
)

func TestFSCollector_Collect(t *testing.T) {
	partitions := []disk.PartitionStat{
		{Device: "/dev/sdb1", Mountpoint: "/boot", Fstype: "vfat"},
		{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
		{Device: "tmpfs", Mountpoint: "/run", Fstype: "tmpfs"},
		{Device: "/dev/sda1", Mountpoint: "/var/lib/docker", Fstype: "ext4"},
		{Device: "proc", Mountpoint: "/proc", Fstype: "proc"},
		{Device: "/dev/loop3", Mountpoint: "/snap/core/1", Fstype: "squashfs"},
		{Device: "/dev/sdd1", Mountpoint: "/mnt/gone", Fstype: "xfs"},
		{Device: "overlay", Mountpoint: "/merged", Fstype: "overlay"},
	}
	usage := map[string]*disk.UsageStat{
		"/boot":   {Total: 512, Used: 128},
		"/":       {Total: 1000, Used: 400},
		"/proc":   {Total: 0},
		"/merged": {Total: 300, Used: 300},
	}

	var gotAll bool
	log := logger.NewBufferLogger()
	c := &FSCollector{
		Config: config.FSConfig{
			MountTypeBlacklist: config.Patterns{regexp.MustCompile(`^tmpfs$`)},
			MountPathBlacklist: config.Patterns{regexp.MustCompile(`^/snap/`)},
		},
		Partitions: func(_ context.Context, all bool) ([]disk.PartitionStat, error) {
			gotAll = all
			return partitions, nil
		},
		Usage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			if u, ok := usage[path]; ok {
				return u, nil
			}
			return nil, stderrors.New("stale file handle")
		},
		Log: log,
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, gotAll)

	assert.Equal(t, FSUsage{Mounts: []Mount{
		{Path: "/", Used: 400, Total: 1000},
		{Path: "/boot", Used: 128, Total: 512},
		{Path: "/merged", Used: 300, Total: 300},
	}}, data)
	assert.True(t, log.HasLevel("debug"))
}

func TestFSCollector_DedupsBlockDevices(t *testing.T) {
	partitions := []disk.PartitionStat{
		{Device: "/dev/nvme0n1p2", Mountpoint: "/home", Fstype: "btrfs"},
		{Device: "/dev/nvme0n1p2", Mountpoint: "/", Fstype: "btrfs"},
		{Device: "/dev/nvme0n1p1", Mountpoint: "/boot", Fstype: "vfat"},
		{Device: "overlay", Mountpoint: "/a", Fstype: "overlay"},
		{Device: "overlay", Mountpoint: "/b", Fstype: "overlay"},
	}

	c := &FSCollector{
		Partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return partitions, nil
		},
		Usage: func(context.Context, string) (*disk.UsageStat, error) {
			return &disk.UsageStat{Total: 100, Used: 10}, nil
		},
	}

	data, err := c.Collect(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, m := range data.(FSUsage).Mounts {
		paths = append(paths, m.Path)
	}
	// The first mount of a block device wins; pseudo devices are never merged.
	assert.Equal(t, []string{"/a", "/b", "/boot", "/home"}, paths)
}

func TestFSCollector_PartitionError(t *testing.T) {
	c := &FSCollector{
		Partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return nil, stderrors.New("no /proc/mounts")
		},
	}

	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list mounts")
}

func TestFSUsage_Render(t *testing.T) {
	u := FSUsage{Mounts: []Mount{
		{Path: "/foo/bar", Used: 234560, Total: 7891011},
		{Path: "/foo/baz", Used: 2345600000, Total: 7891011000},
	}}
	l := render.Layout{Columns: 40, Profile: termenv.ANSI}

	want := "/foo/bar ▕█" + strings.Repeat(" ", 8) + "7.3 MB free" + strings.Repeat(" ", 9) + "▏\n" +
		"/foo/baz ▕█\x1b[7m2.2 GB\x1b[0m██" + strings.Repeat(" ", 4) + "5.2 GB free" + strings.Repeat(" ", 5) + "▏\n"
	assert.Equal(t, want, u.Render(l))
}

func TestFSUsage_RenderEllipsizesLongPaths(t *testing.T) {
	u := FSUsage{Mounts: []Mount{{Path: "/0123456789", Used: 500, Total: 1000}}}
	l := render.Layout{Columns: 40, Profile: termenv.Ascii}

	assert.Equal(t, "/0123456… ▕500 B / 1000 B  500 B free  ▏\n", u.Render(l))
}

func TestFSUsage_RenderPadsPaths(t *testing.T) {
	u := FSUsage{Mounts: []Mount{
		{Path: "/", Used: 1, Total: 2},
		{Path: "/home", Used: 1, Total: 2},
	}}
	l := render.Layout{Columns: 60, Profile: termenv.Ascii}

	lines := strings.Split(strings.TrimSuffix(u.Render(l), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "/     ▕"))
	assert.True(t, strings.HasPrefix(lines[1], "/home ▕"))
	for _, line := range lines {
		assert.Equal(t, 60, utf8.RuneCountInString(line))
	}
}

func TestFSUsage_RenderCriticalIsRed(t *testing.T) {
	u := FSUsage{Mounts: []Mount{{Path: "/x", Used: 96, Total: 100}}}
	l := render.Layout{Columns: 40, Profile: termenv.ANSI}

	want := "\x1b[31m/x\x1b[0m " +
		"\x1b[31m▕\x1b[0m" +
		"\x1b[31m███████\x1b[0m" +
		"\x1b[7;31m96 B / 100 B (96.0%)\x1b[0m" +
		"\x1b[31m███████\x1b[0m" +
		"\x1b[31m \x1b[0m" +
		"\x1b[31m▏\x1b[0m\n"
	assert.Equal(t, want, u.Render(l))
}

func TestFSStyle(t *testing.T) {
	assert.Equal(t, render.Plain, fsStyle(84.9))
	assert.Equal(t, render.Style{Color: render.Yellow}, fsStyle(85))
	assert.Equal(t, render.Style{Color: render.Yellow}, fsStyle(94.9))
	assert.Equal(t, render.Style{Color: render.Red}, fsStyle(95))
}

func TestFSUsage_RenderEmpty(t *testing.T) {
	assert.Equal(t, "", FSUsage{}.Render(ansi))
}
