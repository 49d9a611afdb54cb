package asset

import (
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/bodgit/zealgfx/rle"
	"github.com/bodgit/zealgfx/tile"
)

// DecodePalette reads a palette file
func DecodePalette(r io.Reader) ([]uint16, error) {
	b, err := ioutil.ReadAll(io.LimitReader(r, maxColors*2+1))
	if err != nil {
		return nil, err
	}

	switch {
	case len(b) == 0 || len(b)%2 != 0:
		return nil, errNotEnough
	case len(b) > maxColors*2:
		return nil, errTooMuch
	}

	colors := make([]uint16, len(b)/2)
	for i := range colors {
		colors[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return colors, nil
}

// DecodeTileset splits the contents of a tileset file encoded with c back
// into tiles. The store keeps the encoded bytes of each tile so writing it
// out again reproduces b.
func DecodeTileset(b []byte, c tile.Compression) (*tile.Store, error) {
	if !c.Valid() {
		return nil, errCompression
	}

	d := c.Depth()
	packed := make([]byte, d.TileSize())
	s := tile.NewStore(false)

	for len(b) > 0 {
		var n int
		if c.IsRLE() {
			var err error
			if n, err = rle.DecodeRecords(packed, b); err != nil {
				return nil, err
			}
		} else {
			if len(b) < len(packed) {
				return nil, errNotEnough
			}
			n = copy(packed, b)
		}

		var t tile.Tile
		tile.UnpackTo(t[:], packed, d)
		s.Entry(s.Add(t)).Data = append([]byte(nil), b[:n]...)

		b = b[n:]
	}

	return s, nil
}

// Decode rebuilds an asset from the contents of its files. tilemap may be
// nil.
func Decode(palette, tileset, tilemap io.Reader, c tile.Compression) (*Asset, error) {
	colors, err := DecodePalette(palette)
	if err != nil {
		return nil, err
	}

	b, err := ioutil.ReadAll(tileset)
	if err != nil {
		return nil, err
	}
	s, err := DecodeTileset(b, c)
	if err != nil {
		return nil, err
	}

	a := &Asset{
		Palette:     colors,
		Tiles:       s,
		Compression: c,
	}

	if tilemap != nil {
		if a.Tilemap, err = ioutil.ReadAll(tilemap); err != nil {
			return nil, err
		}
		for _, i := range a.Tilemap {
			if int(i) >= s.Len() {
				return nil, errBadIndex
			}
		}
	}

	return a, nil
}
