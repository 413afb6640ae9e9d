// Package checksum implements the additive checksums used by Oregon
// Scientific sensor packets: a modulo-256 sum of bytes for the v1 family
// and a modulo-256 sum of nibbles for v2.1.
package checksum

// SumBytes returns the modulo-256 sum of data.
func SumBytes(data []byte) (sum byte) {
	for _, v := range data {
		sum += v
	}
	return
}

// SumNibbles returns the modulo-256 sum of the first n nibbles of data,
// high nibble first within each byte.
func SumNibbles(data []byte, n int) (sum byte) {
	for i := 0; i < n; i++ {
		v := data[i>>1]
		if i&1 == 0 {
			sum += v >> 4
		} else {
			sum += v & 0x0F
		}
	}
	return
}
