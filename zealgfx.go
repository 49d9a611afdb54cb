/*
Package zealgfx is a library for producing and previewing graphics assets for
the Zeal 8-bit Computer video board.
*/
package zealgfx

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/ioutil"
	"log"

	"github.com/bodgit/zealgfx/asset"
	_ "golang.org/x/image/bmp" // register BMP decoder
)

// Exporter converts image files into asset files, optionally caching the
// results in an AssetDB.
type Exporter struct {
	db     *AssetDB
	logger *log.Logger
}

// New returns an Exporter. db may be nil in which case nothing is cached.
func New(db *AssetDB, logger *log.Logger) *Exporter {
	return &Exporter{
		db:     db,
		logger: logger,
	}
}

func (e *Exporter) export(b []byte, opts asset.Options) (*asset.Asset, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	if e.db != nil {
		a, err := e.db.Lookup(sha, opts)
		if err != nil {
			return nil, err
		}
		if a != nil {
			e.logger.Printf("Using cached export %s\n", sha)
			return a, nil
		}
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	a, err := asset.Export(m, opts)
	if err != nil {
		return nil, err
	}

	if e.db != nil {
		if err := e.db.Store(sha, opts, a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// ExportFile exports the image in file, writing the asset files alongside
// it, and returns their names.
func (e *Exporter) ExportFile(file string, opts asset.Options) (asset.Paths, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return asset.Paths{}, err
	}

	a, err := e.export(b, opts)
	if err != nil {
		return asset.Paths{}, fmt.Errorf("%s: %w", file, err)
	}

	p := asset.Files(file, opts.RLE)
	if err := asset.WriteFiles(p, a); err != nil {
		return asset.Paths{}, err
	}

	e.logger.Printf("Exported \"%s\": %d colors, %d tiles (%s, %d bytes)\n", file, len(a.Palette), a.Tiles.Len(), a.Compression, a.Tiles.Size())

	return p, nil
}
