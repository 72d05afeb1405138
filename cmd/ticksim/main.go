// Command ticksim drives the player-info encoder over a synthetic world:
// it registers a population of avatars, random-walks them every tick, and
// reports blob-size and timing statistics.
//
// Usage:
//
//	ticksim [-c ticksim.yaml] [-n players] [-t ticks] [--metrics-addr :9100]
//
// With a database configured, stored appearances seed the population and
// newly generated ones are written back.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/udisondev/rs2go/internal/config"
	"github.com/udisondev/rs2go/internal/db"
	"github.com/udisondev/rs2go/internal/metrics"
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/playerinfo"
	"github.com/udisondev/rs2go/internal/world"
)

type options struct {
	Config      string `short:"c" long:"config" description:"path to YAML config" default:"ticksim.yaml"`
	Players     int    `short:"n" long:"players" description:"override configured player count"`
	Ticks       int    `short:"t" long:"ticks" description:"override configured tick count (0 = run until interrupted)"`
	MetricsAddr string `long:"metrics-addr" description:"override metrics listen address"`
	Seed        int64  `long:"seed" description:"PRNG seed" default:"1"`
	Verbose     bool   `short:"v" long:"verbose" description:"debug logging"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "ticksim"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(opts, log); err != nil {
		log.Error().Err(err).Msg("ticksim failed")
		os.Exit(1)
	}
}

func run(opts options, log zerolog.Logger) error {
	cfg, err := config.LoadSimulator(opts.Config)
	if err != nil {
		return err
	}
	if opts.Players > 0 {
		cfg.Players = opts.Players
	}
	if opts.Ticks > 0 {
		cfg.Ticks = opts.Ticks
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.Players > playerinfo.MaxPlayers {
		return fmt.Errorf("players %d exceeds the id space (%d)", cfg.Players, playerinfo.MaxPlayers)
	}

	log = log.Level(parseLevel(cfg.SlogLevel()))
	slog.SetDefault(slog.New(newZerologHandler(log)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim, err := newSimulator(ctx, cfg, opts.Seed, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	tickMetrics := metrics.NewTick(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, reg, log)
	}

	driver := playerinfo.NewDriver(sim.info, cfg.Interval(), sim.sink)
	if cfg.Workers > 0 {
		driver.SetWorkers(cfg.Workers)
	}
	driver.SetBeforeTick(sim.worldPhase)
	driver.SetMetrics(tickMetrics)

	start := time.Now()
	if cfg.Ticks > 0 {
		for i := 0; i < cfg.Ticks && ctx.Err() == nil; i++ {
			driver.Tick()
		}
	} else if err := driver.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	sim.report(log, time.Since(start))
	return nil
}

func parseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics listener failed")
	}
}

// simulator owns the synthetic population and plays the world phase each tick.
type simulator struct {
	cfg         config.Simulator
	rng         *rand.Rand
	grid        *world.World
	info        *playerinfo.PlayerInfo
	appearances []model.Appearance
	vids        []int

	ticks     atomic.Int64
	blobs     atomic.Int64
	blobBytes atomic.Int64
}

func newSimulator(ctx context.Context, cfg config.Simulator, seed int64, log zerolog.Logger) (*simulator, error) {
	s := &simulator{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		grid: world.New(),
	}
	s.info = playerinfo.New(s.grid)

	if err := s.loadAppearances(ctx, log); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Players; i++ {
		c := s.randomCoordinate()
		vid, err := s.info.Register(c)
		if err != nil {
			return nil, fmt.Errorf("registering avatar %d: %w", i, err)
		}
		s.grid.Place(vid, c)
		s.vids = append(s.vids, vid)
	}

	log.Info().Int("players", len(s.vids)).Msg("population registered")
	return s, nil
}

// loadAppearances seeds from the database when configured, topping up with
// generated ones so every avatar has an appearance to announce.
func (s *simulator) loadAppearances(ctx context.Context, log zerolog.Logger) error {
	if s.cfg.Database.Enabled() {
		dsn := s.cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return err
		}
		handle, err := db.New(ctx, dsn)
		if err != nil {
			return err
		}
		defer handle.Close()

		repo := db.NewAppearanceRepository(handle)
		stored, err := repo.LoadAll(ctx)
		if err != nil {
			return err
		}
		s.appearances = stored
		log.Info().Int("stored", len(stored)).Msg("appearances loaded")

		for len(s.appearances) < s.cfg.Players {
			a := s.randomAppearance(len(s.appearances))
			if err := repo.Save(ctx, a); err != nil {
				return err
			}
			s.appearances = append(s.appearances, a)
		}
		return nil
	}

	for len(s.appearances) < s.cfg.Players {
		s.appearances = append(s.appearances, s.randomAppearance(len(s.appearances)))
	}
	return nil
}

func (s *simulator) randomAppearance(i int) model.Appearance {
	return model.Appearance{
		Gender:      int8(s.rng.Intn(2)),
		Hair:        int16(s.rng.Intn(9)),
		Beard:       int16(10 + s.rng.Intn(8)),
		Arms:        int16(26 + s.rng.Intn(6)),
		Legs:        int16(36 + s.rng.Intn(6)),
		Hands:       int16(33 + s.rng.Intn(2)),
		Feet:        int16(42 + s.rng.Intn(2)),
		Stances:     [7]int16{808, 823, 819, 820, 821, 822, 824},
		Username:    fmt.Sprintf("Avatar%04d", i),
		CombatLevel: int8(3 + s.rng.Intn(123)),
	}
}

func (s *simulator) randomCoordinate() model.Coordinate {
	// Confine the population to one quadrant so view ranges overlap often.
	return model.PackCoordinate(0, int32(s.rng.Intn(120)), int32(s.rng.Intn(120)))
}

// worldPhase mutates the world and queues pending record state; it completes
// before the driver encodes any viewer, per the encoder's ownership contract.
func (s *simulator) worldPhase() {
	for _, vid := range s.vids {
		roll := s.rng.Intn(1000)
		switch {
		case roll < s.cfg.TeleportRate:
			s.teleport(vid)
		case roll < s.cfg.TeleportRate+s.cfg.RunRate:
			s.step(vid, true)
		case roll < s.cfg.TeleportRate+s.cfg.RunRate+s.cfg.WalkRate:
			s.step(vid, false)
		}
		if s.rng.Intn(1000) < s.cfg.MaskRate {
			s.faceSomeone(vid)
		}
	}

	s.reconcile()
}

// step moves an avatar one walk step (or two for a run) and queues the steps
// on every record that tracks it locally.
func (s *simulator) step(vid int, run bool) {
	steps := []uint8{uint8(s.rng.Intn(8))}
	if run {
		steps = append(steps, steps[0])
	}
	for _, st := range steps {
		dx, dy := stepDelta(st)
		s.grid.Move(vid, dx, dy)
	}
	for _, viewer := range s.vids {
		if local, err := s.info.IsLocal(viewer, vid); err == nil && local {
			for _, st := range steps {
				_ = s.info.PushStep(viewer, vid, st)
			}
		}
	}
}

func (s *simulator) teleport(vid int) {
	s.grid.Place(vid, s.randomCoordinate())
	for _, viewer := range s.vids {
		if local, err := s.info.IsLocal(viewer, vid); err == nil && local {
			_ = s.info.SetDisplaced(viewer, vid)
		}
	}
}

// faceSomeone turns an avatar toward a visible neighbour and queues the
// direction mask on every tracking record.
func (s *simulator) faceSomeone(vid int) {
	var facing int16
	found := false
	s.grid.ForEachVisible(vid, func(target int, c model.Coordinate) bool {
		facing = int16(c.X()<<8 | c.Y())
		found = true
		return false
	})
	if !found {
		return
	}
	for _, viewer := range s.vids {
		if local, err := s.info.IsLocal(viewer, vid); err == nil && local {
			_ = s.info.PushMask(viewer, vid, playerinfo.DirectionMask{Facing: facing})
		}
	}
}

// reconcile queues removals for tracked targets that walked out of view and
// appearance announcements for visible targets about to be added.
func (s *simulator) reconcile() {
	for _, viewer := range s.vids {
		for _, target := range s.vids {
			if viewer == target {
				continue
			}
			local, err := s.info.IsLocal(viewer, target)
			if err != nil {
				continue
			}
			visible := s.grid.CanView(viewer, target)
			switch {
			case local && !visible:
				_ = s.info.RemoveLocalPlayer(viewer, target)
			case !local && visible:
				_ = s.info.PushMask(viewer, target, playerinfo.AppearanceMask{
					Appearance: s.appearances[target],
				})
			}
		}
	}
}

func (s *simulator) sink(vid int, blob []byte) {
	s.blobs.Add(1)
	s.blobBytes.Add(int64(len(blob)))
	if vid == s.vids[0] {
		s.ticks.Add(1)
	}
}

func (s *simulator) report(log zerolog.Logger, elapsed time.Duration) {
	blobs := s.blobs.Load()
	total := s.blobBytes.Load()
	avg := int64(0)
	if blobs > 0 {
		avg = total / blobs
	}
	log.Info().
		Int64("ticks", s.ticks.Load()).
		Int64("blobs", blobs).
		Int64("bytes", total).
		Int64("avg_blob_bytes", avg).
		Dur("elapsed", elapsed).
		Msg("simulation finished")
}

func stepDelta(step uint8) (int32, int32) {
	dx := [8]int32{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int32{-1, -1, -1, 0, 0, 1, 1, 1}
	return dx[step&7], dy[step&7]
}
