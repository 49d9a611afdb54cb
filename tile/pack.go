package tile

// Depth is the number of bits used to store one pixel.
type Depth int

// Supported depths
const (
	Depth1 Depth = 1
	Depth2 Depth = 2
	Depth4 Depth = 4
	Depth8 Depth = 8
)

// DepthFor returns the smallest depth able to hold every index of a palette
// with the given number of colors.
func DepthFor(colors int) Depth {
	switch {
	case colors <= 2:
		return Depth1
	case colors <= 4:
		return Depth2
	case colors <= 16:
		return Depth4
	}
	return Depth8
}

// TileSize returns the size in bytes of one tile packed at depth d.
func (d Depth) TileSize() int {
	return Size * int(d) / 8
}

// Compression returns the tag describing tiles packed at depth d.
func (d Depth) Compression() Compression {
	switch d {
	case Depth1:
		return OneBit
	case Depth2:
		return TwoBit
	case Depth4:
		return FourBit
	}
	return None
}

func (d Depth) valid() bool {
	switch d {
	case Depth1, Depth2, Depth4, Depth8:
		return true
	}
	return false
}

// Pack stores the pixels in b at depth d, the first pixel in the most
// significant bits of each byte. Pixel values are masked to the depth. The
// length of b must be a multiple of 8 / d. At Depth8, or any unknown depth,
// a copy of b is returned.
func Pack(b []byte, d Depth) []byte {
	if d == Depth8 || !d.valid() {
		return append([]byte(nil), b...)
	}

	perByte := 8 / int(d)
	mask := byte(1)<<uint(d) - 1
	out := make([]byte, len(b)/perByte)
	for i := range out {
		var v byte
		for j := 0; j < perByte; j++ {
			v = v<<uint(d) | b[i*perByte+j]&mask
		}
		out[i] = v
	}
	return out
}

// Unpack is the inverse of Pack, returning one byte per pixel.
func Unpack(b []byte, d Depth) []byte {
	if !d.valid() {
		d = Depth8
	}
	out := make([]byte, len(b)*8/int(d))
	UnpackTo(out, b, d)
	return out
}

// UnpackTo is like Unpack but expands into dst, which must hold at least
// len(b) * 8 / d bytes. It returns the number of bytes written.
func UnpackTo(dst, b []byte, d Depth) int {
	if d == Depth8 || !d.valid() {
		return copy(dst, b)
	}

	perByte := 8 / int(d)
	mask := byte(1)<<uint(d) - 1
	n := 0
	for _, v := range b {
		for j := perByte - 1; j >= 0; j-- {
			dst[n] = v >> (uint(j) * uint(d)) & mask
			n++
		}
	}
	return n
}
