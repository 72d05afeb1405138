package playerinfo

import (
	"fmt"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Walk step codes 0..7 map to tile deltas through these tables.
var (
	stepDX = [8]int32{-1, 0, 1, -1, 1, -1, 0, 1}
	stepDY = [8]int32{-1, -1, -1, 0, 0, 1, 1, 1}
)

// compassDir holds the 8-direction codes for single-tile coordinate changes,
// indexed [dx+1][dy+1]. (0,0) ties to 6.
var compassDir = [3][3]uint32{
	{0, 3, 5},
	{1, 6, 6},
	{2, 4, 7},
}

// runDirection returns the 4-bit direction code for a two-step delta, or -1
// when the combined delta folds back inside the single-step range and has no
// run code.
func runDirection(dx, dy int32) int32 {
	switch {
	case dx == -2 && dy == -2:
		return 0
	case dx == -1 && dy == -2:
		return 1
	case dx == 0 && dy == -2:
		return 2
	case dx == 1 && dy == -2:
		return 3
	case dx == 2 && dy == -2:
		return 4
	case dx == -2 && dy == -1:
		return 5
	case dx == 2 && dy == -1:
		return 6
	case dx == -2 && dy == 0:
		return 7
	case dx == 2 && dy == 0:
		return 8
	case dx == -2 && dy == 1:
		return 9
	case dx == 2 && dy == 1:
		return 10
	case dx == -2 && dy == 2:
		return 11
	case dx == -1 && dy == 2:
		return 12
	case dx == 0 && dy == 2:
		return 13
	case dx == 1 && dy == 2:
		return 14
	case dx == 2 && dy == 2:
		return 15
	}
	return -1
}

// writeCoordinateMultiplier encodes the transition from old to new as a
// type-prefixed delta: level change, 8-direction step, or absolute 8-bit
// deltas. The decoder resolves new from old plus the payload.
func writeCoordinateMultiplier(bw *protocol.BitWriter, old, new model.Coordinate) {
	dx := new.X() - old.X()
	dy := new.Y() - old.Y()
	dl := new.Level() - old.Level()

	switch {
	case dl != 0:
		bw.WriteBits(2, 1)
		bw.WriteBits(2, uint32(dl)&0x3)
	case dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1:
		bw.WriteBits(2, 2)
		bw.WriteBits(2, uint32(dl)&0x3)
		bw.WriteBits(3, compassDir[dx+1][dy+1])
	default:
		bw.WriteBits(2, 3)
		bw.WriteBits(2, uint32(dl)&0x3)
		bw.WriteBits(8, uint32(dx)&0xFF)
		bw.WriteBits(8, uint32(dy)&0xFF)
	}
}

// writeLocalMovement encodes this tick's movement for a local record: the
// mask-update bit, then a teleport/jump, a two-step run, or a one-step walk.
func writeLocalMovement(bw *protocol.BitWriter, maskUpdate bool, old, new model.Coordinate, steps []uint8, displaced bool) {
	bw.WriteBit(maskUpdate)

	dx := new.X() - old.X()
	dy := new.Y() - old.Y()

	if displaced {
		dl := new.Level() - old.Level()
		large := dx < -16 || dx > 15 || dy < -16 || dy > 15
		bw.WriteBits(2, 3)
		bw.WriteBit(large)
		bw.WriteBits(2, uint32(dl)&0x3)
		if large {
			bw.WriteBits(14, uint32(dx)&0x3FFF)
			bw.WriteBits(14, uint32(dy)&0x3FFF)
		} else {
			bw.WriteBits(5, uint32(dx)&0x1F)
			bw.WriteBits(5, uint32(dy)&0x1F)
		}
		return
	}

	if len(steps) >= 2 {
		if rd := runDirection(dx, dy); rd >= 0 {
			bw.WriteBits(2, 2)
			bw.WriteBits(4, uint32(rd))
			return
		}
		// Two steps that fold into a sub-run delta (a turn mid-run) have no
		// run code; a small jump carries the same end position.
		bw.WriteBits(2, 3)
		bw.WriteBit(false)
		bw.WriteBits(2, 0)
		bw.WriteBits(5, uint32(dx)&0x1F)
		bw.WriteBits(5, uint32(dy)&0x1F)
		return
	}

	bw.WriteBits(2, 1)
	bw.WriteBits(3, uint32(steps[0]))
}

// writeMaskUpdateSignal flags a record that has masks but no movement.
func writeMaskUpdateSignal(bw *protocol.BitWriter) {
	bw.WriteBits(1, 1)
	bw.WriteBits(2, 0)
}

// writeRemoveLocalPlayer emits the local-to-global transition opcode,
// followed by the coordinate multiplier when the global position differs
// from the last one reported.
func writeRemoveLocalPlayer(bw *protocol.BitWriter, old, new model.Coordinate) {
	bw.WriteBit(true)
	bw.WriteBits(1, 1)
	bw.WriteBits(1, 0)
	bw.WriteBits(2, 0)
	change := old != new
	bw.WriteBit(change)
	if change {
		writeCoordinateMultiplier(bw, old, new)
	}
}

// writeAddition emits the player-addition opcode carrying the target's packed
// 18-bit coordinate and a flag for a pending mask block.
func writeAddition(bw *protocol.BitWriter, coord model.Coordinate, hasMasks bool) {
	bw.WriteBit(true)
	bw.WriteBits(2, 0)
	bw.WriteBits(2, uint32(coord.Level())&0x3)
	bw.WriteBits(8, uint32(coord.X())&0xFF)
	bw.WriteBits(8, uint32(coord.Y())&0xFF)
	bw.WriteBit(hasMasks)
}

// writeSkipCount run-length encodes n skipped records, preceded by the
// no-update marker bit.
func writeSkipCount(bw *protocol.BitWriter, n int) error {
	bw.WriteBits(1, 0)
	switch {
	case n == 0:
		bw.WriteBits(2, 0)
	case n < 32:
		bw.WriteBits(2, 1)
		bw.WriteBits(5, uint32(n))
	case n < 256:
		bw.WriteBits(2, 2)
		bw.WriteBits(8, uint32(n))
	case n <= MaxPlayers:
		bw.WriteBits(2, 3)
		bw.WriteBits(11, uint32(n))
	default:
		return fmt.Errorf("encoding skip of %d records: %w", n, ErrSkipOutOfRange)
	}
	return nil
}
