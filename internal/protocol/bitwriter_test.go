package protocol

import (
	"bytes"
	"testing"
)

func TestBitWriter_MSBFirst(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBits(3, 0b101)
	w.WriteBits(5, 0b11011)

	got := w.Bytes()
	want := []byte{0b10111011}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %08b, want %08b", got, want)
	}
}

func TestBitWriter_SpansBytes(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBits(11, 0b11111111110) // 2046
	w.WriteBits(5, 0)

	got := w.Bytes()
	want := []byte{0b11111111, 0b11000000}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %08b, want %08b", got, want)
	}
	if w.BitLen() != 16 {
		t.Errorf("BitLen() = %d, want 16", w.BitLen())
	}
}

func TestBitWriter_WriteBit(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBit(true)
	w.WriteBit(false)
	w.WriteBit(true)
	w.WriteBit(true)
	w.ByteAlign()

	got := w.Bytes()
	want := []byte{0b10110000}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %08b, want %08b", got, want)
	}
}

func TestBitWriter_ByteAlign(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBits(3, 0b111)
	w.ByteAlign()
	w.ByteAlign() // idempotent when already aligned
	w.WriteBits(2, 0b10)
	w.ByteAlign()

	got := w.Bytes()
	want := []byte{0b11100000, 0b10000000}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %08b, want %08b", got, want)
	}
	if w.BitLen() != 16 {
		t.Errorf("BitLen() = %d, want 16", w.BitLen())
	}
}

func TestBitWriter_FourteenBitField(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBits(14, 0x3FFF)
	w.WriteBits(2, 0)

	got := w.Bytes()
	want := []byte{0xFF, 0xFC}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %02X, want %02X", got, want)
	}
}

func TestBitWriter_MasksHighBits(t *testing.T) {
	// Only the n lowest bits of v may land in the stream.
	w := NewBitWriter(16)
	w.WriteBits(3, 0xFF)
	w.ByteAlign()

	got := w.Bytes()
	want := []byte{0b11100000}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %08b, want %08b", got, want)
	}
}

func TestBitWriter_Reset(t *testing.T) {
	w := NewBitWriter(16)
	w.WriteBits(8, 0xAB)
	w.Reset()
	if w.Len() != 0 || w.BitLen() != 0 {
		t.Fatalf("after Reset: Len=%d BitLen=%d, want 0/0", w.Len(), w.BitLen())
	}
	w.WriteBits(8, 0xCD)
	if !bytes.Equal(w.Bytes(), []byte{0xCD}) {
		t.Errorf("Bytes() = %02X, want CD", w.Bytes())
	}
}

func BenchmarkBitWriter_WriteBits(b *testing.B) {
	w := NewBitWriter(4096)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		for j := 0; j < 2047; j++ {
			w.WriteBits(1, 0)
			w.WriteBits(2, 3)
			w.WriteBits(11, uint32(j))
		}
	}
}
