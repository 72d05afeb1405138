package protocol

import (
	"bytes"
	"sync"
)

// ByteWriter provides methods for writing byte-granular packet data.
// Uses Big-Endian byte order for all multi-byte values.
type ByteWriter struct {
	buf *bytes.Buffer
}

// byteWriterPool reduces allocations by reusing ByteWriters.
var byteWriterPool = sync.Pool{
	New: func() any {
		return &ByteWriter{buf: bytes.NewBuffer(make([]byte, 0, 512))}
	},
}

// GetByteWriter returns a ByteWriter from the pool (already Reset).
func GetByteWriter() *ByteWriter {
	w := byteWriterPool.Get().(*ByteWriter)
	w.Reset()
	return w
}

// Put returns a ByteWriter to the pool for reuse.
// IMPORTANT: Do not use the ByteWriter after calling Put.
func (w *ByteWriter) Put() {
	byteWriterPool.Put(w)
}

// NewByteWriter creates a new byte writer with the given initial capacity.
func NewByteWriter(capacity int) *ByteWriter {
	return &ByteWriter{buf: bytes.NewBuffer(make([]byte, 0, capacity))}
}

// WriteInt8 writes a signed byte.
func (w *ByteWriter) WriteInt8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteInt16 writes an int16 (2 bytes, BE).
func (w *ByteWriter) WriteInt16(v int16) {
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// WriteInt32 writes an int32 (4 bytes, BE).
func (w *ByteWriter) WriteInt32(v int32) {
	w.buf.WriteByte(byte(v >> 24))
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// WriteInt16Add writes an int16 (2 bytes, BE) with 128 added to the low byte
// modulo 256. Legacy client obfuscation transform.
func (w *ByteWriter) WriteInt16Add(v int16) {
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v) + 128)
}

// WriteCString writes the ASCII bytes of s followed by a single NUL byte.
func (w *ByteWriter) WriteCString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// ReverseAddCopy appends the bytes of src in reverse order, adding 128 to each
// byte modulo 256. Legacy client obfuscation transform.
func (w *ByteWriter) ReverseAddCopy(src []byte) {
	for i := len(src) - 1; i >= 0; i-- {
		w.buf.WriteByte(src[i] + 128)
	}
}

// WriteBytes writes raw bytes.
func (w *ByteWriter) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated data.
func (w *ByteWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the buffer.
func (w *ByteWriter) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *ByteWriter) Reset() {
	w.buf.Reset()
}
