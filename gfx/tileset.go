package gfx

import (
	"github.com/bodgit/zealgfx/rle"
	"github.com/bodgit/zealgfx/tile"
	"github.com/bodgit/zealgfx/vram"
)

// TilesetOptions describes the data passed to LoadTileset
type TilesetOptions struct {
	Compression tile.Compression
	// From is the byte offset in tileset memory to start loading at
	From uint32
	// PaletteOffset is added to every pixel, so a tileset drawn with a
	// small palette can use a different part of the main palette
	PaletteOffset uint8
	// Opacity keeps pixels of color 0 at 0 regardless of PaletteOffset
	Opacity bool
}

func (o *TilesetOptions) relocate(v byte) byte {
	if o.Opacity && v == 0 {
		return 0
	}
	return v + o.PaletteOffset
}

func (o *TilesetOptions) copyFunc() vram.CopyFunc {
	if o.PaletteOffset == 0 {
		return nil
	}
	return func(dst, src []byte) {
		for i, v := range src {
			dst[i] = o.relocate(v)
		}
	}
}

// ExpandedSize returns the number of bytes b, encoded with comp, occupies
// once loaded in the current video mode.
func (c *Context) ExpandedSize(b []byte, comp tile.Compression) (int, error) {
	d := comp.Depth()

	switch {
	case d == tile.Depth2:
		return 0, ErrUnsupportedDepth
	case comp.IsRLE():
		if c.bpp != 8 {
			return 0, ErrUnsupportedDepth
		}
		n, err := rle.Measure(b, d.TileSize())
		if err != nil {
			return 0, err
		}
		return n * tile.Size, nil
	case d == tile.Depth4:
		if c.bpp != 8 {
			return 0, ErrUnsupportedDepth
		}
		return len(b) * 2, nil
	case d == tile.Depth1:
		return len(b) * c.bpp, nil
	}
	return len(b), nil
}

// LoadTileset loads b into tileset memory. A nil opts loads b as is at
// offset 0.
//
// Raw data is copied byte for byte. 1-bit data expands every bit to a pixel
// and 4-bit data every nibble to a byte; the latter is only possible in an
// 8-bit mode. Run-length encoded data, also 8-bit modes only, is decoded one
// tile at a time and each tile then loaded as if it was passed on its own.
// The palette offset and opacity apply to the final pixels in every case.
func (c *Context) LoadTileset(b []byte, opts *TilesetOptions) error {
	var o TilesetOptions
	if opts != nil {
		o = *opts
	}

	if len(b) == 0 || !o.Compression.Valid() {
		return ErrInvalidArgument
	}

	size, err := c.ExpandedSize(b, o.Compression)
	if err != nil {
		return err
	}
	if uint64(o.From)+uint64(size) > uint64(c.tileset.Size()) {
		return ErrInvalidArgument
	}

	d := o.Compression.Depth()
	if !o.Compression.IsRLE() {
		_, err := c.expand(o.From, b, d, &o)
		return err
	}

	var buf [tile.Size]byte
	packed := buf[:d.TileSize()]
	from := o.From
	for len(b) > 0 {
		n, err := rle.DecodeRecords(packed, b)
		if err != nil {
			return err
		}
		written, err := c.expand(from, packed, d, &o)
		if err != nil {
			return err
		}
		from += written
		b = b[n:]
	}

	return nil
}

// expand writes b, holding pixels at depth d, to offset from and returns
// the number of bytes written.
func (c *Context) expand(from uint32, b []byte, d tile.Depth, o *TilesetOptions) (uint32, error) {
	if d == tile.Depth8 {
		return uint32(len(b)), c.tileset.Copy(from, b, o.copyFunc())
	}

	var (
		pixels [tile.Size]byte
		pairs  [tile.Size / 2]byte
		total  uint32
	)
	chunk := d.TileSize()
	for len(b) > 0 {
		n := chunk
		if n > len(b) {
			n = len(b)
		}
		px := pixels[:tile.UnpackTo(pixels[:], b[:n], d)]

		if c.bpp == 8 {
			if err := c.tileset.Copy(from+total, px, o.copyFunc()); err != nil {
				return total, err
			}
			total += uint32(len(px))
		} else {
			out := pairs[:len(px)/2]
			for i := range out {
				out[i] = o.relocate(px[2*i])&0xf<<4 | o.relocate(px[2*i+1])&0xf
			}
			if err := c.tileset.Write(from+total, out); err != nil {
				return total, err
			}
			total += uint32(len(out))
		}

		b = b[n:]
	}

	return total, nil
}

// AddColorTile fills tile index with a single color
func (c *Context) AddColorTile(index uint16, color uint8) error {
	size := tile.Size * c.bpp / 8
	offset := uint32(index) * uint32(size)
	if offset+uint32(size) > c.tileset.Size() {
		return ErrInvalidArgument
	}
	if c.bpp == 4 {
		color = color&0xf<<4 | color&0xf
	}
	return c.tileset.Fill(offset, size, color)
}

// ReadTileset copies len(dst) bytes of tileset memory starting at offset
// from into dst.
func (c *Context) ReadTileset(from uint32, dst []byte) error {
	if len(dst) == 0 || uint64(from)+uint64(len(dst)) > uint64(c.tileset.Size()) {
		return ErrInvalidArgument
	}
	return c.tileset.Read(from, dst)
}
