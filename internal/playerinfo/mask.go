package playerinfo

import (
	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

// Update-mask ordering slots. Twelve fixed positions; only Appearance and
// Direction carry payloads today, the rest are reserved and contribute
// neither header bits nor payload bytes.
const (
	slotMovementForced = iota
	slotSpotAnimation
	slotSequence
	slotAppearance
	slotShout
	slotLockTurnTo
	slotMovementCached
	slotChat
	slotNameModifiers
	slotHit
	slotMovementTemporary
	slotDirection

	maskSlots
)

// Single-bit header flags. New variants must pick a flag that does not
// collide with these.
const (
	flagAppearance uint32 = 0x2
	flagDirection  uint32 = 0x8
)

// headerContinuation marks a two-byte mask header on the wire.
const headerContinuation uint32 = 0x40

// Mask is one pending update payload for a record. Payloads are emitted into
// the mask buffer in ascending ordering-slot order, after the OR-ed header.
type Mask interface {
	slot() int
	flag() uint32
	writePayload(w *protocol.ByteWriter)
}

// AppearanceMask delivers a full appearance block.
type AppearanceMask struct {
	Appearance model.Appearance
}

func (AppearanceMask) slot() int    { return slotAppearance }
func (AppearanceMask) flag() uint32 { return flagAppearance }

// writePayload serialises the appearance into an intermediate buffer, then
// emits its length followed by the reversed +128 copy. The reversal is a
// client-side obfuscation quirk the wire format requires.
func (m AppearanceMask) writePayload(w *protocol.ByteWriter) {
	a := m.Appearance

	buf := protocol.GetByteWriter()
	defer buf.Put()

	buf.WriteInt8(a.Gender)
	if a.Skull {
		buf.WriteInt8(1)
	} else {
		buf.WriteInt8(-1)
	}
	buf.WriteInt8(a.OverheadPrayer)

	// Equipment slots: head, cape, neck, weapon are placeholders until worn
	// equipment reaches the encoder.
	for range 4 {
		buf.WriteInt8(0)
	}
	buf.WriteInt16(256 + 18) // torso placeholder
	buf.WriteInt8(0)         // shield placeholder
	buf.WriteInt16(256 + a.Arms)
	buf.WriteInt16(256 + a.Legs)
	buf.WriteInt16(256 + a.Hair)
	buf.WriteInt16(256 + a.Hands)
	buf.WriteInt16(256 + a.Feet)
	if a.Gender == 0 {
		buf.WriteInt16(256 + a.Beard)
	} else {
		buf.WriteInt16(0)
	}

	for _, c := range a.Colors {
		buf.WriteInt8(c)
	}
	for _, s := range a.Stances {
		buf.WriteInt16(s)
	}

	buf.WriteCString(a.Username)
	buf.WriteInt8(a.CombatLevel)
	buf.WriteInt16(a.SkillLevel)
	buf.WriteInt8(a.Hidden)

	w.WriteInt8(int8(buf.Len()))
	w.ReverseAddCopy(buf.Bytes())
}

// DirectionMask updates the tile or entity the player faces.
type DirectionMask struct {
	Facing int16
}

func (DirectionMask) slot() int    { return slotDirection }
func (DirectionMask) flag() uint32 { return flagDirection }

func (m DirectionMask) writePayload(w *protocol.ByteWriter) {
	w.WriteInt16Add(m.Facing)
}

// writeMasks emits the mask header and payloads for one record into the mask
// buffer. When the same slot was pushed more than once this tick, the most
// recent push wins. Canonical payload order is ascending slot, regardless of
// push order.
func writeMasks(masks []Mask, w *protocol.ByteWriter) {
	var header uint32
	for _, m := range masks {
		header |= m.flag()
	}

	if header >= 0xFF {
		w.WriteInt8(int8(header | headerContinuation))
		w.WriteInt8(int8(header >> 8))
	} else {
		w.WriteInt8(int8(header))
	}

	for slot := 0; slot < maskSlots; slot++ {
		var pick Mask
		for _, m := range masks {
			if m.slot() == slot {
				pick = m
			}
		}
		if pick != nil {
			pick.writePayload(w)
		}
	}
}
