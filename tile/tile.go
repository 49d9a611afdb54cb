/*
Package tile implements the Zeal tileset building blocks: the 16 by 16 pixel
tile, a deduplicating tile store and the packer that reduces a tile to 1, 2 or
4 bits per pixel when the palette is small enough.

A tile is always held as one byte per pixel, 256 bytes in total. Packing and
run-length encoding replace the bytes of a store entry in place once the
whole image has been scanned.
*/
package tile

const (
	// Width is the width of a tile in pixels
	Width = 16
	// Height is the height of a tile in pixels
	Height = Width
	// Size is the size of an unpacked tile in bytes
	Size = Width * Height
)

// Tile is a single 16 by 16 tile, one palette index per pixel.
type Tile [Size]byte

// Compression describes how the bytes of a tileset are encoded. The depth
// values may be combined with RLE, in which case every tile was packed first
// and then run-length encoded.
type Compression uint8

const (
	None    Compression = 0
	OneBit  Compression = 1
	FourBit Compression = 2
	// TwoBit is produced by the packer but there is no loader for it.
	TwoBit Compression = 4
	RLE    Compression = 16

	depthMask = OneBit | FourBit | TwoBit
)

// Depth returns the pixel depth of the tile bytes once any run-length
// encoding has been removed.
func (c Compression) Depth() Depth {
	switch c & depthMask {
	case OneBit:
		return Depth1
	case TwoBit:
		return Depth2
	case FourBit:
		return Depth4
	}
	return Depth8
}

// IsRLE reports whether the tiles are run-length encoded.
func (c Compression) IsRLE() bool {
	return c&RLE != 0
}

func (c Compression) String() string {
	var s string
	switch c & depthMask {
	case None:
		s = "raw"
	case OneBit:
		s = "1bit"
	case TwoBit:
		s = "2bit"
	case FourBit:
		s = "4bit"
	default:
		return "invalid"
	}
	if c.IsRLE() {
		if c&depthMask == None {
			return "rle"
		}
		return "rle+" + s
	}
	return s
}

// Valid reports whether c names at most one depth, optionally with RLE.
func (c Compression) Valid() bool {
	if c&^(depthMask|RLE) != 0 {
		return false
	}
	switch c & depthMask {
	case None, OneBit, TwoBit, FourBit:
		return true
	}
	return false
}
