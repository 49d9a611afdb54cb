package asset

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the file names of an asset
type Paths struct {
	Palette string
	Tileset string
	Tilemap string
}

// Files returns the file names for an asset based on base, whose extension,
// if any, is replaced.
func Files(base string, compressed bool) Paths {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := ".zt"
	if compressed {
		prefix = ".zct"
	}
	return Paths{
		Palette: base + prefix + "p",
		Tileset: base + prefix + "s",
		Tilemap: base + prefix + "m",
	}
}

type output struct {
	name string
	b    []byte
}

type pendingFile struct {
	tmp, name string
}

func writeTemp(name string, b []byte) (string, error) {
	f, err := ioutil.TempFile(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

// WriteFiles writes the palette, the tileset and, if there is one, the
// tilemap of a to the files named by p. Either every file is written or, on
// error, none of them are left behind.
func WriteFiles(p Paths, a *Asset) (err error) {
	files := []output{
		{p.Palette, a.PaletteBytes()},
		{p.Tileset, a.TilesetBytes()},
	}
	if a.Tilemap != nil {
		files = append(files, output{p.Tilemap, a.TilemapBytes()})
	}

	var pending []pendingFile
	defer func() {
		if err == nil {
			return
		}
		for _, f := range pending {
			os.Remove(f.tmp)
		}
	}()

	for _, f := range files {
		tmp, err := writeTemp(f.name, f.b)
		if err != nil {
			return fmt.Errorf("asset: writing %s: %w", f.name, err)
		}
		pending = append(pending, pendingFile{tmp, f.name})
	}

	for i, f := range pending {
		if err := os.Rename(f.tmp, f.name); err != nil {
			// Don't leave a partial set of files looking valid
			for _, done := range pending[:i] {
				os.Remove(done.name)
			}
			return fmt.Errorf("asset: writing %s: %w", f.name, err)
		}
	}

	return nil
}
