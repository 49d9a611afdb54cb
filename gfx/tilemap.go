package gfx

import "github.com/bodgit/zealgfx/vram"

func tilemapOffset(n int, layer, x, y uint8) (uint32, error) {
	if n == 0 || n > columns || layer > 1 || x >= columns || y >= lines {
		return 0, ErrInvalidArgument
	}

	position := int(y)*columns + int(x)
	if position+n > columns*lines {
		return 0, ErrInvalidArgument
	}

	if layer != 0 {
		return vram.Layer1Offset + uint32(position), nil
	}
	return vram.Layer0Offset + uint32(position), nil
}

// LoadTilemap writes a line of up to 80 tile indices to layer 0 or 1,
// starting at tile coordinates (x, y).
func (c *Context) LoadTilemap(tiles []byte, layer, x, y uint8) error {
	offset, err := tilemapOffset(len(tiles), layer, x, y)
	if err != nil {
		return err
	}
	return c.vram.Write(offset, tiles)
}

// ReadTilemap reads up to 80 tile indices from layer 0 or 1 starting at tile
// coordinates (x, y).
func (c *Context) ReadTilemap(tiles []byte, layer, x, y uint8) error {
	offset, err := tilemapOffset(len(tiles), layer, x, y)
	if err != nil {
		return err
	}
	return c.vram.Read(offset, tiles)
}
