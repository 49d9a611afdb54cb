package zealgfx

import (
	"image"
	"image/color"

	"github.com/bodgit/zealgfx/asset"
	"github.com/bodgit/zealgfx/gfx"
	"github.com/bodgit/zealgfx/tile"
	"github.com/bodgit/zealgfx/vram"
	"golang.org/x/image/draw"
)

const tilesPerRow = 16

// Render loads palette and tileset into an emulated video board running in
// mode, reads the tileset back and returns it as an image with tilesPerRow
// tiles on each row.
func Render(palette, tileset []byte, c tile.Compression, mode gfx.Mode) (*image.Paletted, error) {
	ctx, err := gfx.Initialize(vram.NewMMU(0), mode)
	if err != nil {
		return nil, err
	}

	if err := ctx.LoadPalette(palette, 0); err != nil {
		return nil, err
	}

	if err := ctx.LoadTileset(tileset, &gfx.TilesetOptions{Compression: c}); err != nil {
		return nil, err
	}

	size, err := ctx.ExpandedSize(tileset, c)
	if err != nil {
		return nil, err
	}

	tileBytes := tile.Size * ctx.BPP() / 8
	n := (size + tileBytes - 1) / tileBytes

	b := make([]byte, n*tileBytes)
	if err := ctx.ReadTileset(0, b); err != nil {
		return nil, err
	}

	colors, err := ctx.ReadPalette(256)
	if err != nil {
		return nil, err
	}

	cols := tilesPerRow
	if n < cols {
		cols = n
	}
	rows := (n + tilesPerRow - 1) / tilesPerRow

	m := image.NewPaletted(image.Rect(0, 0, cols*tile.Width, rows*tile.Height), asset.Palette(colors))

	var px [tile.Size]byte
	for i := 0; i < n; i++ {
		data := b[i*tileBytes : (i+1)*tileBytes]
		if ctx.BPP() == 4 {
			tile.UnpackTo(px[:], data, tile.Depth4)
		} else {
			copy(px[:], data)
		}

		x0, y0 := i%tilesPerRow*tile.Width, i/tilesPerRow*tile.Height
		for y := 0; y < tile.Height; y++ {
			copy(m.Pix[m.PixOffset(x0, y0+y):], px[y*tile.Width:(y+1)*tile.Width])
		}
	}

	return m, nil
}

// Scale enlarges m by a factor of n using nearest neighbour sampling so
// the pixels stay sharp.
func Scale(m *image.Paletted, n int) *image.Paletted {
	if n <= 1 {
		return m
	}
	r := m.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, r.Dx()*n, r.Dy()*n), append(color.Palette(nil), m.Palette...))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, r, draw.Src, nil)
	return dst
}
