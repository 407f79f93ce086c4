package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// MinSampleInterval is the shortest gap between the two counter samples.
const MinSampleInterval = 30 * time.Millisecond

// InterfaceRate is the throughput of one interface, in bits per second.
type InterfaceRate struct {
	Name  string
	RxBps uint64
	TxBps uint64
}

// NetCollector samples interface byte counters twice and derives rates.
type NetCollector struct {
	Counters func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
	Interval time.Duration
	Now      func() time.Time
}

// NewNetCollector returns a collector backed by gopsutil.
func NewNetCollector() *NetCollector {
	return &NetCollector{
		Counters: net.IOCountersWithContext,
		Interval: MinSampleInterval,
		Now:      time.Now,
	}
}

func (c *NetCollector) sample(ctx context.Context) (map[string]net.IOCountersStat, time.Time, error) {
	stats, err := c.Counters(ctx, true)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read interface counters: %w", err)
	}
	at := c.Now()
	out := make(map[string]net.IOCountersStat, len(stats))
	for _, s := range stats {
		if s.Name == "lo" {
			continue
		}
		out[s.Name] = s
	}
	return out, at, nil
}

func (c *NetCollector) Collect(ctx context.Context) (section.Renderable, error) {
	first, t0, err := c.sample(ctx)
	if err != nil {
		return nil, err
	}

	if wait := c.Interval - c.Now().Sub(t0); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	second, t1, err := c.sample(ctx)
	if err != nil {
		return nil, err
	}

	elapsedMs := uint64(t1.Sub(t0).Milliseconds())
	if elapsedMs == 0 {
		elapsedMs = 1
	}

	rates := make([]InterfaceRate, 0, len(second))
	for name, cur := range second {
		prev, ok := first[name]
		if !ok {
			continue
		}
		rates = append(rates, InterfaceRate{
			Name:  name,
			RxBps: subSat(cur.BytesRecv, prev.BytesRecv) * 8 * 1000 / elapsedMs,
			TxBps: subSat(cur.BytesSent, prev.BytesSent) * 8 * 1000 / elapsedMs,
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Name < rates[j].Name
	})

	return NetworkStats{Interfaces: rates}, nil
}

// NetworkStats renders one line per interface with aligned rate columns.
type NetworkStats struct {
	Interfaces []InterfaceRate
}

func (s NetworkStats) Render(render.Layout) string {
	if len(s.Interfaces) == 0 {
		return ""
	}

	rx := make([]string, len(s.Interfaces))
	tx := make([]string, len(s.Interfaces))
	var nameW, rxW, txW int
	for i, itf := range s.Interfaces {
		rx[i] = render.BitRate(itf.RxBps)
		tx[i] = render.BitRate(itf.TxBps)
		nameW = max(nameW, utf8.RuneCountInString(itf.Name))
		rxW = max(rxW, len(rx[i]))
		txW = max(txW, len(tx[i]))
	}

	var b strings.Builder
	for i, itf := range s.Interfaces {
		fmt.Fprintf(&b, "%s:%s ↓ %*s  ↑ %*s\n",
			itf.Name, strings.Repeat(" ", nameW-utf8.RuneCountInString(itf.Name)),
			rxW, rx[i], txW, tx[i])
	}
	return b.String()
}
