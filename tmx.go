package zealgfx

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/zealgfx/tmx"
)

// ConvertTMX writes every layer of the Tiled map in file to a tilemap file
// and returns the names written. The files are named after out, or file
// if out is empty, with the extension replaced by ".ztm"; a map with more
// than one layer gets the layer number appended to each name.
func (e *Exporter) ConvertTMX(file, out string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tmx.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if len(m.Layers) == 0 {
		return nil, fmt.Errorf("%s: no layers", file)
	}

	if out == "" {
		out = file
	}
	base := strings.TrimSuffix(out, filepath.Ext(out))

	var names []string
	for i := range m.Layers {
		b, err := m.Layers[i].Tilemap()
		if err != nil {
			return names, fmt.Errorf("%s: layer %q: %w", file, m.Layers[i].Name, err)
		}

		name := base + ".ztm"
		if len(m.Layers) > 1 {
			name = fmt.Sprintf("%s-%d.ztm", base, i)
		}

		if err := ioutil.WriteFile(name, b, 0644); err != nil {
			return names, err
		}
		names = append(names, name)

		e.logger.Printf("Converted layer \"%s\" to \"%s\" (%d cells)\n", m.Layers[i].Name, name, len(b))
	}

	return names, nil
}
