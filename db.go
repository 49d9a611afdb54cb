package zealgfx

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"

	"github.com/bodgit/zealgfx/asset"
	"github.com/bodgit/zealgfx/tile"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// AssetDB caches exported assets keyed by the SHA1 of the source image and
// the export options.
type AssetDB struct {
	db *sql.DB
}

// NewAssetDB opens or creates the database in file
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, options INTEGER NOT NULL, compression INTEGER NOT NULL, palette BLOB NOT NULL, tileset BLOB NOT NULL, tilemap BLOB, UNIQUE(sha1, options))"); err != nil {
		db.Close()
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

// Close closes the database
func (db *AssetDB) Close() error {
	return db.db.Close()
}

func optionBits(opts asset.Options) int {
	var bits int
	for i, b := range []bool{opts.Merge, opts.Pack, opts.RLE, opts.Tilemap} {
		if b {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// Lookup returns the cached asset for the given image and options, or nil
// if there isn't one.
func (db *AssetDB) Lookup(sha string, opts asset.Options) (*asset.Asset, error) {
	var compression int
	var palette, tileset, tilemap []byte
	switch err := db.db.QueryRow("SELECT compression, palette, tileset, tilemap FROM asset WHERE sha1 = ? AND options = ?", sha, optionBits(opts)).Scan(&compression, &palette, &tileset, &tilemap); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		var tm io.Reader
		if len(tilemap) > 0 {
			tm = bytes.NewReader(tilemap)
		}
		return asset.Decode(bytes.NewReader(palette), bytes.NewReader(tileset), tm, tile.Compression(compression))
	default:
		return nil, err
	}
}

// Store caches a for the given image and options
func (db *AssetDB) Store(sha string, opts asset.Options, a *asset.Asset) error {
	p, t, m := a.Bytes()
	if _, err := db.db.Exec("INSERT OR REPLACE INTO asset (sha1, options, compression, palette, tileset, tilemap) VALUES (?, ?, ?, ?, ?, ?)", sha, optionBits(opts), int(a.Compression), p, t, m); err != nil {
		return err
	}
	return nil
}
