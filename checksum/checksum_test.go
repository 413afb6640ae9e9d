package checksum

import (
	"testing"
	"time"

	crand "crypto/rand"
	mrand "math/rand"
)

const (
	Trials = 512
)

func TestSumBytes(t *testing.T) {
	cases := []struct {
		data []byte
		sum  byte
	}{
		{nil, 0x00},
		{[]byte{0x44, 0x53, 0x02}, 0x99},
		{[]byte{0xFF, 0x01}, 0x00},
		{[]byte{0x80, 0x80, 0x01}, 0x01},
	}

	for _, c := range cases {
		if sum := SumBytes(c.data); sum != c.sum {
			t.Fatalf("% 02X: expected %02X, got %02X", c.data, c.sum, sum)
		}
	}
}

func TestSumNibbles(t *testing.T) {
	cases := []struct {
		data []byte
		n    int
		sum  byte
	}{
		{[]byte{0x1A, 0x2D}, 4, 0x1A},
		{[]byte{0x1A, 0x2D}, 3, 0x0D},
		{[]byte{0x1A, 0x2D, 0x20, 0x8B, 0x58, 0x21, 0x40, 0xC7}, 16, 0x56},
		{[]byte{0xFF, 0xFF}, 4, 0x3C},
	}

	for _, c := range cases {
		if sum := SumNibbles(c.data, c.n); sum != c.sum {
			t.Fatalf("% 02X/%d: expected %02X, got %02X", c.data, c.n, c.sum, sum)
		}
	}
}

// Summing both nibbles of every byte must agree with summing whole bytes
// carry-free nibble by nibble.
func TestSumNibblesAgainstBytes(t *testing.T) {
	for trial := 0; trial < Trials; trial++ {
		buf := make([]byte, mrand.Intn(16)+1)
		crand.Read(buf)

		var want byte
		for _, v := range buf {
			want += v>>4 + v&0x0F
		}

		if sum := SumNibbles(buf, len(buf)*2); sum != want {
			t.Fatalf("% 02X: expected %02X, got %02X", buf, want, sum)
		}
	}
}

// A single bit flip changes an additive checksum by a power of two, which
// is never zero modulo 256.
func TestSumBytesBitFlip(t *testing.T) {
	for trial := 0; trial < Trials; trial++ {
		buf := make([]byte, mrand.Intn(16)+1)
		crand.Read(buf)

		sum := SumBytes(buf)
		idx := mrand.Intn(len(buf))
		bit := byte(1) << uint(mrand.Intn(8))
		buf[idx] ^= bit

		if flipped := SumBytes(buf); flipped == sum {
			t.Fatalf("% 02X: flip of %02X at %d not detected", buf, bit, idx)
		}
	}
}

func init() {
	mrand.Seed(time.Now().UnixNano())
}
