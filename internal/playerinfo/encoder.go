package playerinfo

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/protocol"
)

// Process encodes one tick for vid and advances its record table. The blob is
// the bit stream of the four phase traversals followed by the mask buffer.
// An unregistered vid yields an empty blob. On error the grouping pass is not
// run: the failing record and every record not yet reached keep their pending
// state for the next tick, while records emitted earlier in the same call
// have already consumed theirs. Other viewers are unaffected.
func (p *PlayerInfo) Process(vid int) ([]byte, error) {
	t := p.table(vid)
	if t == nil {
		return nil, nil
	}

	bits := protocol.GetBitWriter()
	defer bits.Put()
	maskBuf := protocol.GetByteWriter()
	defer maskBuf.Put()

	localActive, err := p.localPhase(vid, t, groupActive, bits, maskBuf)
	if err != nil {
		return nil, fmt.Errorf("local phase (active): %w", err)
	}
	bits.ByteAlign()

	localInactive, err := p.localPhase(vid, t, groupInactive, bits, maskBuf)
	if err != nil {
		return nil, fmt.Errorf("local phase (inactive): %w", err)
	}
	bits.ByteAlign()

	localCount := localActive + localInactive

	added, err := p.globalPhase(vid, t, groupInactive, bits, maskBuf, localCount, 0)
	if err != nil {
		return nil, fmt.Errorf("global phase (inactive): %w", err)
	}
	bits.ByteAlign()

	added2, err := p.globalPhase(vid, t, groupActive, bits, maskBuf, localCount, added)
	if err != nil {
		return nil, fmt.Errorf("global phase (active): %w", err)
	}
	bits.ByteAlign()

	blob := make([]byte, 0, bits.Len()+maskBuf.Len())
	blob = append(blob, bits.Bytes()...)
	blob = append(blob, maskBuf.Bytes()...)

	t.regroup()
	t.stats = TickStats{
		LocalPlayers: localCount,
		Additions:    added + added2,
		BlobBytes:    len(blob),
	}
	return blob, nil
}

// localPhase walks the whole table for one update group and encodes the local
// records in it: removals, movement, mask signals, and skip runs over records
// with nothing to report. Returns the number of local records it processed.
func (p *PlayerInfo) localPhase(vid int, t *viewerTable, group int32, bits *protocol.BitWriter, maskBuf *protocol.ByteWriter) (int, error) {
	processed := 0
	skip := 0

	for i := range t.records {
		rec := &t.records[i]
		if rec.flags != group {
			continue
		}
		if skip > 0 {
			skip--
			rec.flags |= pendingNextGroup
			continue
		}
		if !rec.local {
			continue
		}
		processed++

		if rec.removeLocal {
			rec.reset = true
			writeRemoveLocalPlayer(bits, rec.coordinates, p.world.CoordinateOf(i))
			continue
		}

		maskUpdate := len(rec.masks) > 0
		moveUpdate := len(rec.steps) > 0 || rec.displaced

		if maskUpdate {
			writeMasks(rec.masks, maskBuf)
			rec.masks = rec.masks[:0]
		}

		switch {
		case moveUpdate:
			bits.WriteBit(true)
			next := rec.coordinates
			if rec.displaced {
				next = p.world.CoordinateOf(i)
			} else {
				for _, s := range rec.steps {
					next = next.Translate(stepDX[s], stepDY[s])
				}
			}
			writeLocalMovement(bits, maskUpdate, rec.coordinates, next, rec.steps, rec.displaced)
			rec.coordinates = next
			rec.steps = rec.steps[:0]
			rec.displaced = false

		case maskUpdate:
			bits.WriteBit(true)
			writeMaskUpdateSignal(bits)

		default:
			rec.flags |= pendingNextGroup
			n := p.localSkipCount(vid, t, group, i+1)
			if err := writeSkipCount(bits, n); err != nil {
				return processed, err
			}
			skip = n
		}
	}
	return processed, nil
}

// localSkipCount returns the largest k such that the next k same-group
// records need no emission this tick: no pending local update, and not a
// visible global candidate the addition phases must pick up.
func (p *PlayerInfo) localSkipCount(vid int, t *viewerTable, group int32, from int) int {
	n := 0
	for i := from; i < MaxPlayers; i++ {
		rec := &t.records[i]
		if rec.flags != group {
			continue
		}
		if rec.local && rec.localUpdateRequired() {
			break
		}
		if !rec.local && p.world.CanView(vid, i) {
			break
		}
		n++
	}
	return n
}

// globalPhase walks the whole table for one update group and transitions
// visible global records to local, within the per-tick addition budget and
// the client's local-list capacity. Everything else becomes a skip run.
// Returns the number of players added.
func (p *PlayerInfo) globalPhase(vid int, t *viewerTable, group int32, bits *protocol.BitWriter, maskBuf *protocol.ByteWriter, localCount, prevAdded int) (int, error) {
	added := 0
	skip := 0

	for i := range t.records {
		rec := &t.records[i]
		if rec.flags != group {
			continue
		}
		if skip > 0 {
			skip--
			rec.flags |= pendingNextGroup
			continue
		}
		if rec.local {
			continue
		}

		if p.world.CanView(vid, i) && added+prevAdded < MaxAdditionsPerTick && localCount < MaxLocalPlayers {
			coord := p.world.CoordinateOf(i)
			writeAddition(bits, coord, len(rec.masks) > 0)
			if len(rec.masks) > 0 {
				writeMasks(rec.masks, maskBuf)
				rec.masks = rec.masks[:0]
			}
			rec.local = true
			rec.coordinates = coord
			rec.flags |= pendingNextGroup
			added++
			continue
		}

		rec.flags |= pendingNextGroup
		n := p.globalSkipCount(vid, t, group, i+1, localCount, added+prevAdded)
		if err := writeSkipCount(bits, n); err != nil {
			return added, err
		}
		skip = n
	}
	return added, nil
}

// globalSkipCount returns the largest k such that the next k same-group
// records need no addition this tick: not visible, or no budget left.
func (p *PlayerInfo) globalSkipCount(vid int, t *viewerTable, group int32, from, localCount, addedSoFar int) int {
	n := 0
	for i := from; i < MaxPlayers; i++ {
		rec := &t.records[i]
		if rec.flags != group {
			continue
		}
		if !rec.local && p.world.CanView(vid, i) &&
			addedSoFar < MaxAdditionsPerTick && localCount < MaxLocalPlayers {
			break
		}
		n++
	}
	return n
}
