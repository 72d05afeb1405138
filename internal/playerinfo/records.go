package playerinfo

import "github.com/udisondev/rs2go/internal/model"

// Flag bits of a record's 2-bit rotating group register. Bit 0 is this tick's
// group; bit 1 is the pending next-tick group. The grouping pass at the end
// of every tick shifts the register right by one.
const (
	groupActive      int32 = 0x0
	groupInactive    int32 = 0x1
	pendingNextGroup int32 = 0x2
)

// record tracks one (viewer, target) pair across ticks.
type record struct {
	flags       int32
	local       bool
	coordinates model.Coordinate
	reset       bool
	removeLocal bool
	masks       []Mask
	steps       []uint8
	displaced   bool
}

// localUpdateRequired reports whether the record carries anything the local
// phase must emit this tick.
func (r *record) localUpdateRequired() bool {
	return r.removeLocal || len(r.masks) > 0 || len(r.steps) > 0 || r.displaced
}

// viewerTable is the dense per-viewer table of MaxPlayers update records.
type viewerTable struct {
	records []record
	stats   TickStats
}

func newViewerTable(vid int, coordinates model.Coordinate) *viewerTable {
	t := &viewerTable{records: make([]record, MaxPlayers)}
	t.records[vid] = record{local: true, coordinates: coordinates}
	return t
}

// regroup advances every record to the next tick: pending groups become
// current, and records flagged for reset are cleared. Pending masks and
// movement that no phase consumed are dropped so a tick never leaks into the
// next one.
func (t *viewerTable) regroup() {
	for i := range t.records {
		rec := &t.records[i]
		if rec.reset {
			*rec = record{}
			continue
		}
		rec.flags >>= 1
		rec.masks = rec.masks[:0]
		rec.steps = rec.steps[:0]
		rec.displaced = false
		rec.removeLocal = false
	}
}
