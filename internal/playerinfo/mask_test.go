package playerinfo

import (
	"bytes"
	"testing"

	"github.com/udisondev/rs2go/internal/model"
	"github.com/udisondev/rs2go/internal/protocol"
)

func testAppearance() model.Appearance {
	return model.Appearance{
		Gender:         0,
		Skull:          false,
		OverheadPrayer: -1,
		Hair:           0,
		Beard:          10,
		Arms:           26,
		Legs:           36,
		Hands:          33,
		Feet:           42,
		Stances:        [7]int16{808, 823, 819, 820, 821, 822, 824},
		Username:       "Sage",
		CombatLevel:    125,
		SkillLevel:     0,
		Hidden:         0,
	}
}

// appearanceIntermediate builds the expected pre-reversal appearance payload
// byte by byte.
func appearanceIntermediate(a model.Appearance) []byte {
	w := protocol.NewByteWriter(128)
	w.WriteInt8(a.Gender)
	if a.Skull {
		w.WriteInt8(1)
	} else {
		w.WriteInt8(-1)
	}
	w.WriteInt8(a.OverheadPrayer)
	for range 4 {
		w.WriteInt8(0)
	}
	w.WriteInt16(256 + 18)
	w.WriteInt8(0)
	w.WriteInt16(256 + a.Arms)
	w.WriteInt16(256 + a.Legs)
	w.WriteInt16(256 + a.Hair)
	w.WriteInt16(256 + a.Hands)
	w.WriteInt16(256 + a.Feet)
	if a.Gender == 0 {
		w.WriteInt16(256 + a.Beard)
	} else {
		w.WriteInt16(0)
	}
	for _, c := range a.Colors {
		w.WriteInt8(c)
	}
	for _, s := range a.Stances {
		w.WriteInt16(s)
	}
	w.WriteCString(a.Username)
	w.WriteInt8(a.CombatLevel)
	w.WriteInt16(a.SkillLevel)
	w.WriteInt8(a.Hidden)
	return w.Bytes()
}

func reverseAdd(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i]+128)
	}
	return out
}

func TestWriteMasks_AppearanceAndDirection(t *testing.T) {
	a := testAppearance()
	masks := []Mask{DirectionMask{Facing: 1536}, AppearanceMask{Appearance: a}}

	w := protocol.NewByteWriter(256)
	writeMasks(masks, w)
	out := w.Bytes()

	// Single-byte header: appearance 0x2 | direction 0x8.
	if out[0] != 0x0A {
		t.Fatalf("header = 0x%02X, want 0x0A", out[0])
	}

	// Appearance payload first (slot 3 < slot 11), despite push order.
	inter := appearanceIntermediate(a)
	wantLen := len(inter)
	if int(out[1]) != wantLen {
		t.Fatalf("appearance length = %d, want %d", out[1], wantLen)
	}
	gotBody := out[2 : 2+wantLen]
	if !bytes.Equal(gotBody, reverseAdd(inter)) {
		t.Errorf("appearance body mismatch:\n got %02X\nwant %02X", gotBody, reverseAdd(inter))
	}

	// Direction payload: 1536 = 0x0600, low byte +128.
	dir := out[2+wantLen:]
	want := []byte{0x06, 0x80}
	if !bytes.Equal(dir, want) {
		t.Errorf("direction payload = %02X, want %02X", dir, want)
	}
	if len(out) != 2+wantLen+2 {
		t.Errorf("total mask bytes = %d, want %d", len(out), 2+wantLen+2)
	}
}

func TestWriteMasks_AppearanceLengthDeterministic(t *testing.T) {
	a := testAppearance()
	// 3 header bytes + 4 equipment + torso/shield 3 + 6 kit shorts 12 +
	// 5 colors + 7 stance shorts 14 + username 5 + combat 1 + skill 2 +
	// hidden 1 = 50 for a 4-rune username.
	inter := appearanceIntermediate(a)
	if len(inter) != 50 {
		t.Fatalf("intermediate length = %d, want 50", len(inter))
	}

	w := protocol.NewByteWriter(256)
	writeMasks([]Mask{AppearanceMask{Appearance: a}}, w)
	out := w.Bytes()

	if out[0] != 0x02 {
		t.Fatalf("header = 0x%02X, want 0x02", out[0])
	}
	if int(out[1]) != 50 {
		t.Errorf("length byte = %d, want 50", out[1])
	}
	if len(out) != 2+50 {
		t.Errorf("total = %d, want 52", len(out))
	}
}

func TestWriteMasks_FemaleSkipsBeard(t *testing.T) {
	a := testAppearance()
	a.Gender = 1
	inter := appearanceIntermediate(a)

	w := protocol.NewByteWriter(256)
	writeMasks([]Mask{AppearanceMask{Appearance: a}}, w)
	out := w.Bytes()

	if !bytes.Equal(out[2:2+len(inter)], reverseAdd(inter)) {
		t.Error("female appearance body mismatch")
	}
}

func TestWriteMasks_LastPushWins(t *testing.T) {
	w := protocol.NewByteWriter(16)
	writeMasks([]Mask{DirectionMask{Facing: 100}, DirectionMask{Facing: 1536}}, w)
	out := w.Bytes()

	want := []byte{0x08, 0x06, 0x80}
	if !bytes.Equal(out, want) {
		t.Errorf("mask bytes = %02X, want %02X", out, want)
	}
}

// wideMask exercises the two-byte header encoding; no shipped variant has a
// flag above 0x8 yet.
type wideMask struct{}

func (wideMask) slot() int                          { return slotHit }
func (wideMask) flag() uint32                       { return 0x100 }
func (wideMask) writePayload(w *protocol.ByteWriter) { w.WriteInt8(0x55) }

func TestWriteMasks_TwoByteHeader(t *testing.T) {
	w := protocol.NewByteWriter(16)
	writeMasks([]Mask{wideMask{}, DirectionMask{Facing: 1536}}, w)
	out := w.Bytes()

	// header = 0x108: low byte (header|0x40)&0xFF = 0x48, high byte 0x01.
	if out[0] != 0x48 || out[1] != 0x01 {
		t.Fatalf("header bytes = %02X %02X, want 48 01", out[0], out[1])
	}
	// Payloads ascend by slot: Hit (9) before Direction (11).
	want := []byte{0x55, 0x06, 0x80}
	if !bytes.Equal(out[2:], want) {
		t.Errorf("payloads = %02X, want %02X", out[2:], want)
	}
}
