package metrics

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/muesli/termenv"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tw93/motd/internal/render"
)

const gib = 1 << 30

func fakeMemory(vm *mem.VirtualMemoryStat, sw *mem.SwapMemoryStat, err error, calls *int32) *MemorySource {
	return &MemorySource{
		Virtual: func(context.Context) (*mem.VirtualMemoryStat, error) {
			atomic.AddInt32(calls, 1)
			return vm, err
		},
		Swap: func(context.Context) (*mem.SwapMemoryStat, error) {
			return sw, nil
		},
	}
}

func TestMemInfo_Derived(t *testing.T) {
	m := MemInfo{Total: 100, Free: 20, Buffers: 5, Cached: 25, SwapTotal: 50, SwapFree: 10}

	assert.Equal(t, uint64(50), m.Used())
	assert.Equal(t, uint64(30), m.CachedTotal())
	assert.Equal(t, uint64(40), m.SwapUsed())

	odd := MemInfo{Total: 10, Free: 8, Cached: 8, SwapTotal: 1, SwapFree: 2}
	assert.Equal(t, uint64(0), odd.Used())
	assert.Equal(t, uint64(0), odd.SwapUsed())
}

func TestMemorySource_ReadsOnce(t *testing.T) {
	var calls int32
	src := fakeMemory(
		&mem.VirtualMemoryStat{Total: 8 * gib, Free: gib},
		&mem.SwapMemoryStat{Total: gib, Free: gib},
		nil, &calls)

	var wg sync.WaitGroup
	results := make([]MemInfo, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := src.Snapshot(context.Background())
			assert.NoError(t, err)
			results[i] = info
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestMemoryAndSwapShareFailure(t *testing.T) {
	var calls int32
	boom := stderrors.New("no meminfo")
	src := fakeMemory(nil, nil, boom, &calls)

	_, err := (&MemoryCollector{Source: src}).Collect(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = (&SwapCollector{Source: src}).Collect(context.Background())
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryUsage_Render(t *testing.T) {
	info := MemInfo{Total: 8 * gib, Free: 2 * gib, Buffers: gib / 2, Cached: 3 * gib / 2}
	l := render.Layout{Columns: 42, Profile: termenv.Ascii}

	assert.Equal(t,
		"Total: 8.0 GB\n▕Used 4.0 GB (50.0%)███Cached██   Free   ▏\n",
		MemoryUsage(info).Render(l))
}

func TestMemoryUsage_RenderStyles(t *testing.T) {
	info := MemInfo{Total: 8 * gib, Free: 2 * gib, Buffers: gib / 2, Cached: 3 * gib / 2}
	l := render.Layout{Columns: 42, Profile: termenv.ANSI}

	out := MemoryUsage(info).Render(l)
	assert.Contains(t, out, "\x1b[1;7mUsed 4.0 GB (50.0%)\x1b[0m")
	assert.Contains(t, out, "\x1b[2;7mCached\x1b[0m")
	assert.Contains(t, out, "\x1b[2m██\x1b[0m")
}

func TestMemoryUsage_NarrowTerminal(t *testing.T) {
	info := MemInfo{Total: 8 * gib, Free: 2 * gib}
	l := render.Layout{Columns: 1, Profile: termenv.Ascii}

	assert.NotPanics(t, func() { MemoryUsage(info).Render(l) })
}

func TestSwapUsage_Render(t *testing.T) {
	l := render.Layout{Columns: 22, Profile: termenv.Ascii}

	assert.Equal(t, "", SwapUsage(MemInfo{Total: 8 * gib}).Render(l))

	info := MemInfo{SwapTotal: 2 * gib, SwapFree: 3 * gib / 2}
	assert.Equal(t,
		"Total: 2.0 GB\n▕Used█  Free 1.5 GB  ▏\n",
		SwapUsage(info).Render(l))
}

func TestSwapCollector_Collect(t *testing.T) {
	var calls int32
	src := fakeMemory(
		&mem.VirtualMemoryStat{Total: 4 * gib, Free: gib, Buffers: 10, Cached: 20},
		&mem.SwapMemoryStat{Total: 2 * gib, Free: gib},
		nil, &calls)

	data, err := (&SwapCollector{Source: src}).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SwapUsage{Total: 4 * gib, Free: gib, Buffers: 10, Cached: 20, SwapTotal: 2 * gib, SwapFree: gib}, data)
}
