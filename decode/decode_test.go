package decode

import (
	"reflect"
	"testing"
)

func pushByte(b *Buffer, v byte) {
	for i := 0; i < 8; i++ {
		b.GotBit(v >> i & 1)
	}
}

func TestPackingOrder(t *testing.T) {
	// Bits arrive least-significant first and are shifted in from the top
	// of the current byte, so a byte pushed LSB-first reassembles itself.
	b := new(Buffer)
	pushByte(b, 0xAB)
	pushByte(b, 0x12)

	if b.Pos != 2 || b.Bits != 0 || b.TotalBits != 16 {
		t.Fatalf("counters: pos=%d bits=%d total=%d", b.Pos, b.Bits, b.TotalBits)
	}
	if b.Data[0] != 0xAB || b.Data[1] != 0x12 {
		t.Fatalf("packing: % 02X", b.Bytes())
	}
}

func TestManchester(t *testing.T) {
	b := new(Buffer)

	// Long pulse flips the accumulated bit, short pair repeats it.
	b.Manchester(1) // 1
	b.Manchester(0) // 1
	b.Manchester(1) // 0
	b.Manchester(0) // 0
	b.Manchester(1) // 1

	if b.Flip != 1 {
		t.Fatalf("flip: %d", b.Flip)
	}

	b.Finish()
	if b.Data[0] != 0x13 { // bits 1,1,0,0,1 LSB-first
		t.Fatalf("data: %02X", b.Data[0])
	}
}

func TestFinishPadding(t *testing.T) {
	b := new(Buffer)
	b.GotBit(1)
	b.GotBit(1)
	b.GotBit(1)
	b.Finish()

	if b.State != Done {
		t.Fatalf("state: %d", b.State)
	}
	if b.Pos != 1 || b.Bits != 0 {
		t.Fatalf("counters: pos=%d bits=%d", b.Pos, b.Bits)
	}
	if b.Data[0] != 0x07 {
		t.Fatalf("data: %02X", b.Data[0])
	}
}

func TestOverflowReset(t *testing.T) {
	b := new(Buffer)
	for i := 0; i < BufferSize*8-1; i++ {
		b.GotBit(1)
	}
	if b.State != Ok {
		t.Fatalf("state before overflow: %d", b.State)
	}

	// Filling the final slot must leave the buffer indistinguishable from
	// a just-constructed one, never partially filled.
	b.GotBit(1)
	if !reflect.DeepEqual(*b, Buffer{}) {
		t.Fatalf("buffer not reset after overflow: %+v", *b)
	}
}

func TestResetIdempotent(t *testing.T) {
	b := new(Buffer)
	b.Manchester(1)
	b.Manchester(0)
	b.GotBit(1)
	b.State = T2
	b.Reset()

	if !reflect.DeepEqual(*b, Buffer{}) {
		t.Fatalf("reset state: %+v", *b)
	}
}

func TestAlignTail(t *testing.T) {
	b := new(Buffer)
	pushByte(b, 0xAB)
	b.GotBit(1)
	b.GotBit(0)
	b.GotBit(1)
	b.GotBit(0)

	b.AlignTail(0)
	if b.Bits != 0 {
		t.Fatalf("bits: %d", b.Bits)
	}
	// The oldest four bits fall off the front, the partial nibble becomes
	// the new high nibble.
	if b.Data[0] != 0x5A {
		t.Fatalf("data: %02X", b.Data[0])
	}
}

func TestAlignTailTruncate(t *testing.T) {
	b := new(Buffer)
	pushByte(b, 0x11)
	pushByte(b, 0x22)
	pushByte(b, 0x33)

	b.AlignTail(2)
	if b.Pos != 2 || b.Data[0] != 0x22 || b.Data[1] != 0x33 {
		t.Fatalf("truncate: pos=%d % 02X", b.Pos, b.Bytes())
	}
}

func TestReverseBits(t *testing.T) {
	b := new(Buffer)
	pushByte(b, 0xA0)
	pushByte(b, 0x01)

	b.ReverseBits()
	if b.Data[0] != 0x05 || b.Data[1] != 0x80 {
		t.Fatalf("reverse: % 02X", b.Bytes())
	}
}

func TestReverseNibbles(t *testing.T) {
	b := new(Buffer)
	pushByte(b, 0xAB)
	pushByte(b, 0x12)

	b.ReverseNibbles()
	if b.Data[0] != 0xBA || b.Data[1] != 0x21 {
		t.Fatalf("reverse: % 02X", b.Bytes())
	}
}
