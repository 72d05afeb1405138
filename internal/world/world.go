// Package world tracks avatar positions on a zone grid and answers the two
// questions the player-info encoder asks of it: who can see whom, and where
// everyone currently is.
package world

import (
	"sync"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/playerinfo"
)

type avatar struct {
	present bool
	coord   model.Coordinate
}

// World is the grid-backed visibility provider. It implements
// playerinfo.WorldView. Reads may run concurrently; writes belong to the
// world phase, which completes before any encoding of the same tick.
type World struct {
	mu      sync.RWMutex
	avatars [playerinfo.MaxPlayers]avatar
	zones   [Zones][Zones]map[int]struct{}
}

// New creates an empty world.
func New() *World {
	w := &World{}
	for zx := range Zones {
		for zy := range Zones {
			w.zones[zx][zy] = make(map[int]struct{})
		}
	}
	return w
}

// Place puts id at c, moving it between zones as needed.
func (w *World) Place(id int, c model.Coordinate) {
	if id < 0 || id >= playerinfo.MaxPlayers {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	av := &w.avatars[id]
	if av.present {
		ozx, ozy := CoordToZoneIndex(av.coord.X(), av.coord.Y())
		nzx, nzy := CoordToZoneIndex(c.X(), c.Y())
		if ozx != nzx || ozy != nzy {
			delete(w.zones[ozx][ozy], id)
			w.zones[nzx][nzy][id] = struct{}{}
		}
	} else {
		zx, zy := CoordToZoneIndex(c.X(), c.Y())
		w.zones[zx][zy][id] = struct{}{}
	}
	av.present = true
	av.coord = c
}

// Move translates id by (dx, dy). A no-op for absent avatars.
func (w *World) Move(id int, dx, dy int32) {
	w.mu.RLock()
	av := w.avatars[id]
	w.mu.RUnlock()
	if !av.present {
		return
	}
	w.Place(id, av.coord.Translate(dx, dy))
}

// Remove takes id off the grid.
func (w *World) Remove(id int) {
	if id < 0 || id >= playerinfo.MaxPlayers {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	av := &w.avatars[id]
	if !av.present {
		return
	}
	zx, zy := CoordToZoneIndex(av.coord.X(), av.coord.Y())
	delete(w.zones[zx][zy], id)
	*av = avatar{}
}

// CoordinateOf returns id's current packed coordinate, or zero when absent.
func (w *World) CoordinateOf(id int) model.Coordinate {
	if id < 0 || id >= playerinfo.MaxPlayers {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.avatars[id].coord
}

// CanView reports whether target is within viewer's view distance on the
// same level. An avatar never views itself.
func (w *World) CanView(viewer, target int) bool {
	if viewer == target ||
		viewer < 0 || viewer >= playerinfo.MaxPlayers ||
		target < 0 || target >= playerinfo.MaxPlayers {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	v, t := w.avatars[viewer], w.avatars[target]
	if !v.present || !t.present {
		return false
	}
	return inView(v.coord, t.coord)
}

func inView(a, b model.Coordinate) bool {
	if a.Level() != b.Level() {
		return false
	}
	dx := a.X() - b.X()
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y() - b.Y()
	if dy < 0 {
		dy = -dy
	}
	return dx <= ViewDistance && dy <= ViewDistance
}

// ForEachVisible calls fn for every avatar visible to viewer, walking the
// zone window around the viewer's zone. If fn returns false, iteration
// stops early.
func (w *World) ForEachVisible(viewer int, fn func(target int, c model.Coordinate) bool) {
	if viewer < 0 || viewer >= playerinfo.MaxPlayers {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	v := w.avatars[viewer]
	if !v.present {
		return
	}
	vzx, vzy := CoordToZoneIndex(v.coord.X(), v.coord.Y())

	for dzx := int32(-viewZoneRadius); dzx <= viewZoneRadius; dzx++ {
		for dzy := int32(-viewZoneRadius); dzy <= viewZoneRadius; dzy++ {
			zx, zy := vzx+dzx, vzy+dzy
			if !IsValidZoneIndex(zx, zy) {
				continue
			}
			for id := range w.zones[zx][zy] {
				if id == viewer {
					continue
				}
				t := w.avatars[id]
				if !inView(v.coord, t.coord) {
					continue
				}
				if !fn(id, t.coord) {
					return
				}
			}
		}
	}
}

// Count returns the number of avatars on the grid.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for i := range w.avatars {
		if w.avatars[i].present {
			n++
		}
	}
	return n
}
