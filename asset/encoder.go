package asset

import (
	"image"
	"image/color"

	"github.com/bodgit/zealgfx/tile"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

type encoder struct {
	m     *image.Paletted
	opts  Options
	store *tile.Store
}

func (e *encoder) scan() ([]byte, error) {
	b := e.m.Bounds()
	tilesX, tilesY := b.Dx()/tile.Width, b.Dy()/tile.Height

	var tilemap []byte
	if e.opts.Tilemap {
		tilemap = make([]byte, 0, tilesX*tilesY)
	}

	var t tile.Tile
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			for y := 0; y < tile.Height; y++ {
				for x := 0; x < tile.Width; x++ {
					t[y*tile.Width+x] = e.m.ColorIndexAt(tx*tile.Width+x, ty*tile.Height+y)
				}
			}

			i := e.store.Add(t)
			if e.opts.Tilemap {
				if i >= maxColors {
					return nil, ErrTooManyTiles
				}
				tilemap = append(tilemap, byte(i))
			}
		}
	}

	return tilemap, nil
}

// paletted returns m as an image with a palette of no more than 256 colors
// and its top-left corner at (0, 0)
func paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}

	if pm == nil || len(pm.Palette) > maxColors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}

// Export converts m into a palette, a tileset and optionally a tilemap.
// Images that are not paletted, or have more than 256 colors, are quantized
// first.
func Export(m image.Image, opts Options) (*Asset, error) {
	b := m.Bounds()
	if b.Empty() || b.Dx()%tile.Width != 0 || b.Dy()%tile.Height != 0 {
		return nil, ErrDimensions
	}

	e := encoder{
		m:     paletted(m),
		opts:  opts,
		store: tile.NewStore(opts.Merge),
	}

	tilemap, err := e.scan()
	if err != nil {
		return nil, err
	}

	a := &Asset{
		Palette: make([]uint16, len(e.m.Palette)),
		Tiles:   e.store,
		Tilemap: tilemap,
	}
	for i, c := range e.m.Palette {
		a.Palette[i] = RGB565(c)
	}

	if opts.Pack || opts.RLE {
		a.Compression = e.store.Compress(len(a.Palette), opts.Pack, opts.RLE)
	}

	return a, nil
}
