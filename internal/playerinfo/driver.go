package playerinfo

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/rs2go/internal/metrics"
)

// parallelThreshold is the viewer count below which a tick runs sequentially.
// Goroutine overhead dominates for small viewer sets.
const parallelThreshold = 64

// Sink receives each viewer's encoded blob. The framer behind it is external.
type Sink func(vid int, blob []byte)

// Driver runs the encoding pass for every registered viewer once per tick.
// Viewers are partitioned across workers; a viewer's record table is only
// ever touched by one worker per tick, which is the ownership contract
// Process requires.
type Driver struct {
	info     *PlayerInfo
	interval time.Duration
	sink     Sink

	workers    int
	beforeTick func()
	tick       *metrics.Tick
}

// NewDriver creates a driver emitting each viewer's blob into sink.
func NewDriver(info *PlayerInfo, interval time.Duration, sink Sink) *Driver {
	return &Driver{
		info:     info,
		interval: interval,
		sink:     sink,
		workers:  runtime.NumCPU(),
	}
}

// SetWorkers sets the worker count for the parallel path.
func (d *Driver) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	d.workers = n
}

// SetBeforeTick installs the world phase: it runs to completion before any
// Process call of the same tick.
func (d *Driver) SetBeforeTick(fn func()) {
	d.beforeTick = fn
}

// SetMetrics installs the tick collectors.
func (d *Driver) SetMetrics(m *metrics.Tick) {
	d.tick = m
}

// Start runs ticks on the configured interval until ctx is cancelled.
func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	slog.Info("player info driver started", "interval", d.interval, "workers", d.workers)

	for {
		select {
		case <-ctx.Done():
			slog.Info("player info driver stopping")
			return ctx.Err()
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick runs one full pass: world phase, then every viewer's encoding.
func (d *Driver) Tick() {
	start := time.Now()

	if d.beforeTick != nil {
		d.beforeTick()
	}

	vids := d.info.Viewers()
	if len(vids) == 0 {
		return
	}

	if len(vids) < parallelThreshold {
		for _, vid := range vids {
			d.processOne(vid)
		}
	} else {
		d.tickParallel(vids)
	}

	if d.tick != nil {
		d.tick.Duration.Observe(time.Since(start).Seconds())
		d.tick.Viewers.Set(float64(len(vids)))
	}
}

// tickParallel splits the viewer list into one chunk per worker. Per-viewer
// failures are logged and counted, never propagated: one bad viewer must not
// cost the rest of the tick.
func (d *Driver) tickParallel(vids []int) {
	workers := d.workers
	if workers > len(vids) {
		workers = len(vids)
	}
	chunkSize := len(vids) / workers

	var g errgroup.Group
	for i := range workers {
		start := i * chunkSize
		end := start + chunkSize
		if i == workers-1 {
			end = len(vids)
		}
		chunk := vids[start:end]
		g.Go(func() error {
			for _, vid := range chunk {
				d.processOne(vid)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Driver) processOne(vid int) {
	blob, err := d.info.Process(vid)
	if err != nil {
		slog.Error("player info tick failed", "vid", vid, "err", err)
		if d.tick != nil {
			d.tick.Errors.Inc()
		}
		return
	}
	if d.tick != nil {
		d.tick.BlobBytes.Observe(float64(len(blob)))
		if stats, ok := d.info.Stats(vid); ok {
			d.tick.Additions.Add(float64(stats.Additions))
		}
	}
	if d.sink != nil {
		d.sink(vid, blob)
	}
}
