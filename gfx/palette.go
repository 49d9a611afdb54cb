package gfx

import (
	"encoding/binary"

	"github.com/bodgit/zealgfx/vram"
)

const paletteSize = 256 * 2

// LoadPalette copies b, a sequence of little-endian RGB565 colors, into the
// palette starting at color index from.
func (c *Context) LoadPalette(b []byte, from uint8) error {
	if len(b) == 0 || len(b)%2 != 0 || int(from)*2+len(b) > paletteSize {
		return ErrInvalidArgument
	}
	return c.vram.Write(vram.PaletteOffset+uint32(from)*2, b)
}

// ReadPalette returns the first n colors of the palette
func (c *Context) ReadPalette(n int) ([]uint16, error) {
	if n <= 0 || n*2 > paletteSize {
		return nil, ErrInvalidArgument
	}

	b := make([]byte, n*2)
	if err := c.vram.Read(vram.PaletteOffset, b); err != nil {
		return nil, err
	}

	colors := make([]uint16, n)
	for i := range colors {
		colors[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return colors, nil
}
