/*
Package tmx reads tile layers from maps saved by the Tiled map editor and
converts them into tilemaps for the Zeal Video Board.

Only the CSV layer encoding is understood.
*/
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EmptyTile is the tilemap index used for cells with no tile
const EmptyTile = 0xff

const (
	maxTiles  = 256
	flipFlags = 0xf0000000
)

var (
	// ErrEncoding is returned for layer data not stored as CSV
	ErrEncoding = errors.New("tmx: unsupported encoding")
	// ErrTileIndex is returned for a tile that can not be addressed by a
	// single byte tilemap entry
	ErrTileIndex = errors.New("tmx: tile index out of range")
)

// Map is a Tiled map
type Map struct {
	XMLName    xml.Name `xml:"map"`
	Width      int      `xml:"width,attr"`
	Height     int      `xml:"height,attr"`
	TileWidth  int      `xml:"tilewidth,attr"`
	TileHeight int      `xml:"tileheight,attr"`
	Layers     []Layer  `xml:"layer"`
}

// Layer is a single tile layer of a Map
type Layer struct {
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Data   Data   `xml:"data"`
}

// Data holds the encoded tiles of a Layer
type Data struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr"`
	Inner       string `xml:",chardata"`
}

// Decode reads a Map from r
func Decode(r io.Reader) (*Map, error) {
	m := new(Map)
	if err := xml.NewDecoder(r).Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Tilemap returns the layer as tilemap indices in row order. Tiled numbers
// tiles from 1 so every index is one less than its global tile ID, with
// empty cells set to EmptyTile. Flip flags are discarded.
func (l *Layer) Tilemap() ([]byte, error) {
	if l.Data.Encoding != "csv" || l.Data.Compression != "" {
		return nil, fmt.Errorf("%w: %q", ErrEncoding, l.Data.Encoding)
	}

	fields := strings.Split(l.Data.Inner, ",")
	b := make([]byte, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		gid, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, err
		}
		gid &^= flipFlags

		switch {
		case gid == 0:
			b = append(b, EmptyTile)
		case gid > maxTiles:
			return nil, fmt.Errorf("%w: %d", ErrTileIndex, gid)
		default:
			b = append(b, byte(gid-1))
		}
	}

	return b, nil
}
