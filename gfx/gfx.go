/*
Package gfx loads palettes, tilesets and tilemaps into the video memory of
the Zeal Video Board.

Every write goes through a vram.Accessor, so video memory is only ever mapped
for the duration of one bounded copy. Loaders validate their arguments, and
for compressed tilesets the whole stream, before the first byte is written,
so a call that fails leaves video memory untouched.
*/
package gfx

import (
	"errors"

	"github.com/bodgit/zealgfx/rle"
	"github.com/bodgit/zealgfx/vram"
)

var (
	// ErrInvalidArgument is returned for empty input, bad indices or data
	// that does not fit the destination
	ErrInvalidArgument = errors.New("gfx: invalid argument")
	// ErrUnsupportedDepth is returned when the encoding of a tileset cannot
	// be loaded in the current video mode
	ErrUnsupportedDepth = errors.New("gfx: unsupported depth")
	// ErrCorruptStream is returned for malformed run-length encoded data
	ErrCorruptStream = rle.ErrCorruptStream
)

// Mode is a graphics video mode
type Mode uint8

// Graphics modes, named after resolution and pixel depth
const (
	Mode640x8bit Mode = 4 + iota
	Mode320x8bit
	Mode640x4bit
	Mode320x4bit
)

// BPP returns the number of bits per pixel of the mode
func (m Mode) BPP() int {
	if m&2 != 0 {
		return 4
	}
	return 8
}

func (m Mode) valid() bool {
	return m >= Mode640x8bit && m <= Mode320x4bit
}

const (
	columns = 80
	lines   = 40
)

// Context holds the state of an initialized graphics mode
type Context struct {
	mode    Mode
	bpp     int
	vram    *vram.Accessor
	tileset *vram.Accessor
}

// Initialize prepares video memory for mode: the first tile, the first
// layer and the first palette color are cleared.
func Initialize(hw vram.Hardware, mode Mode) (*Context, error) {
	if hw == nil || !mode.valid() {
		return nil, ErrInvalidArgument
	}

	c := &Context{
		mode:    mode,
		bpp:     mode.BPP(),
		vram:    vram.NewAccessor(hw, vram.Page(vram.PhysicalStart), vram.WindowSize),
		tileset: vram.NewAccessor(hw, vram.Page(vram.TilesetStart), vram.TilesetSize),
	}

	if err := c.tileset.Fill(0, 256, 0); err != nil {
		return nil, err
	}
	if err := c.vram.Fill(vram.Layer0Offset, columns*lines, 0); err != nil {
		return nil, err
	}
	if err := c.vram.Fill(vram.PaletteOffset, 2, 0); err != nil {
		return nil, err
	}

	return c, nil
}

// Mode returns the video mode of the context
func (c *Context) Mode() Mode {
	return c.mode
}

// BPP returns the number of bits per pixel of the video mode
func (c *Context) BPP() int {
	return c.bpp
}
