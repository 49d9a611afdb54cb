/*
Package asset implements the Zeal tileset asset encoder and decoder.

An image is split into 16 by 16 pixel tiles which are written as three files
without any header:

	palette  one little-endian RGB565 color per palette entry, at most 256
	tileset  every distinct tile, one byte per pixel unless packed and/or
	         run-length encoded, concatenated with no length prefix
	tilemap  one byte per tile position in raster order, the index of the
	         tile in the tileset

Whoever loads the tileset must know out of band how it was encoded. The file
extensions carry half of that: run-length encoded assets use .zctp, .zcts and
.zctm instead of .ztp, .zts and .ztm.
*/
package asset

import (
	"encoding/binary"
	"errors"

	"github.com/bodgit/zealgfx/tile"
)

const maxColors = 256

var (
	// ErrDimensions is returned for images whose width or height is not a
	// multiple of the tile size
	ErrDimensions = errors.New("asset: image dimensions must be multiples of 16")
	// ErrTooManyTiles is returned when a tilemap cannot index every tile
	ErrTooManyTiles = errors.New("asset: too many tiles for a tilemap")

	errNotEnough   = errors.New("asset: not enough data")
	errTooMuch     = errors.New("asset: too much data")
	errCompression = errors.New("asset: invalid compression")
	errBadIndex    = errors.New("asset: invalid tile index")
)

// Options control how an image is exported
type Options struct {
	// Merge stores identical tiles only once
	Merge bool
	// Pack stores tiles at 1, 2 or 4 bits per pixel when the palette has
	// few enough colors
	Pack bool
	// RLE run-length encodes every tile
	RLE bool
	// Tilemap generates a tilemap
	Tilemap bool
}

// Asset is an exported image
type Asset struct {
	Palette     []uint16
	Tiles       *tile.Store
	Tilemap     []byte
	Compression tile.Compression
}

// PaletteBytes returns the contents of the palette file
func (a *Asset) PaletteBytes() []byte {
	b := make([]byte, len(a.Palette)*2)
	for i, c := range a.Palette {
		binary.LittleEndian.PutUint16(b[i*2:], c)
	}
	return b
}

// TilesetBytes returns the contents of the tileset file
func (a *Asset) TilesetBytes() []byte {
	return a.Tiles.Bytes()
}

// TilemapBytes returns the contents of the tilemap file, nil if no tilemap
// was generated
func (a *Asset) TilemapBytes() []byte {
	if a.Tilemap == nil {
		return nil
	}
	return append([]byte(nil), a.Tilemap...)
}

// Bytes returns the contents of the palette, tileset and tilemap files
func (a *Asset) Bytes() (palette, tileset, tilemap []byte) {
	return a.PaletteBytes(), a.TilesetBytes(), a.TilemapBytes()
}
