// Package playerinfo encodes the per-tick player information blob each
// connected client receives: which other players it tracks locally, how they
// moved this tick, and any update masks (appearance, facing direction) that
// must be delivered alongside.
package playerinfo

import (
	"log/slog"
	"sync"

	"github.com/udisondev/rs2go/internal/model"
)

const (
	// MaxPlayers is the size of the target id space and of every record table.
	MaxPlayers = 2047

	// MaxAdditionsPerTick caps how many global players may transition to
	// local in a single tick for one viewer.
	MaxAdditionsPerTick = 40

	// MaxLocalPlayers caps how many players a client tracks locally.
	MaxLocalPlayers = 255
)

// WorldView supplies the world-side inputs the encoder consumes. The encoder
// never computes visibility from raw coordinates itself.
type WorldView interface {
	// CanView reports whether target is currently visible to viewer.
	CanView(viewer, target int) bool
	// CoordinateOf returns target's current packed coordinate.
	CoordinateOf(target int) model.Coordinate
}

// TickStats summarises the most recent Process call for one viewer.
type TickStats struct {
	LocalPlayers int
	Additions    int
	BlobBytes    int
}

// PlayerInfo owns the per-viewer record tables and exposes the per-tick
// encoding entry point. Register/Unregister are safe for concurrent use;
// Process performs no interior locking beyond the table lookup, so distinct
// viewers may be processed by distinct workers but a single viewer must not
// be processed concurrently with world writes to its records.
type PlayerInfo struct {
	world WorldView

	mu      sync.RWMutex
	viewers [MaxPlayers]*viewerTable
}

// New creates a PlayerInfo drawing visibility and coordinates from world.
func New(world WorldView) *PlayerInfo {
	return &PlayerInfo{world: world}
}

// Register allocates the lowest free viewer id and creates its record table.
// The viewer's own record starts local at the given coordinate; every other
// record starts empty.
func (p *PlayerInfo) Register(coordinates model.Coordinate) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for vid := range p.viewers {
		if p.viewers[vid] == nil {
			p.viewers[vid] = newViewerTable(vid, coordinates)
			slog.Debug("viewer registered", "vid", vid)
			return vid, nil
		}
	}
	return 0, ErrCapacityExceeded
}

// Unregister frees a viewer id and destroys its record table. Freed ids are
// recycled by later Register calls (lowest free slot wins).
func (p *PlayerInfo) Unregister(vid int) {
	if vid < 0 || vid >= MaxPlayers {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.viewers[vid] != nil {
		p.viewers[vid] = nil
		slog.Debug("viewer unregistered", "vid", vid)
	}
}

// Registered reports whether vid currently has a record table.
func (p *PlayerInfo) Registered(vid int) bool {
	return p.table(vid) != nil
}

// Viewers returns a snapshot of the registered viewer ids in ascending order.
func (p *PlayerInfo) Viewers() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	vids := make([]int, 0, 64)
	for vid := range p.viewers {
		if p.viewers[vid] != nil {
			vids = append(vids, vid)
		}
	}
	return vids
}

// Stats returns the summary of vid's most recent tick.
func (p *PlayerInfo) Stats(vid int) (TickStats, bool) {
	t := p.table(vid)
	if t == nil {
		return TickStats{}, false
	}
	return t.stats, true
}

func (p *PlayerInfo) table(vid int) *viewerTable {
	if vid < 0 || vid >= MaxPlayers {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.viewers[vid]
}

func (p *PlayerInfo) record(vid, target int) (*record, error) {
	if target < 0 || target >= MaxPlayers {
		return nil, ErrMissingRecord
	}
	t := p.table(vid)
	if t == nil {
		return nil, ErrMissingRecord
	}
	return &t.records[target], nil
}

// PushMask queues an update mask on (vid, target) for the next tick.
func (p *PlayerInfo) PushMask(vid, target int, m Mask) error {
	rec, err := p.record(vid, target)
	if err != nil {
		return err
	}
	rec.masks = append(rec.masks, m)
	return nil
}

// PushStep queues a movement step (direction code 0..7) on (vid, target).
// A record carries at most one walk step plus one run step per tick.
func (p *PlayerInfo) PushStep(vid, target int, step uint8) error {
	rec, err := p.record(vid, target)
	if err != nil {
		return err
	}
	rec.steps = append(rec.steps, step&0x7)
	return nil
}

// SetDisplaced flags (vid, target) as having moved by teleport or jump; the
// encoder reports the world coordinate instead of steps.
func (p *PlayerInfo) SetDisplaced(vid, target int) error {
	rec, err := p.record(vid, target)
	if err != nil {
		return err
	}
	rec.displaced = true
	return nil
}

// RemoveLocalPlayer flags (vid, target) for the local-to-global transition on
// the next tick.
func (p *PlayerInfo) RemoveLocalPlayer(vid, target int) error {
	rec, err := p.record(vid, target)
	if err != nil {
		return err
	}
	rec.removeLocal = true
	return nil
}

// IsLocal reports whether target is currently tracked locally for vid.
func (p *PlayerInfo) IsLocal(vid, target int) (bool, error) {
	rec, err := p.record(vid, target)
	if err != nil {
		return false, err
	}
	return rec.local, nil
}

// RecordCoordinate returns the last coordinate reported to vid's client for
// target.
func (p *PlayerInfo) RecordCoordinate(vid, target int) (model.Coordinate, error) {
	rec, err := p.record(vid, target)
	if err != nil {
		return 0, err
	}
	return rec.coordinates, nil
}
