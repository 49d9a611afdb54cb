package zealgfx

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bodgit/zealgfx/asset"
	"github.com/bodgit/zealgfx/gfx"
	"github.com/bodgit/zealgfx/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
}

// testImage returns an image of w by h tiles where every pixel takes its
// color from its position
func testImage(w, h int) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, w*tile.Width, h*tile.Height), testPalette)
	for y := 0; y < h*tile.Height; y++ {
		for x := 0; x < w*tile.Width; x++ {
			m.SetColorIndex(x, y, uint8((x/tile.Width+y/tile.Height+x%3)%len(testPalette)))
		}
	}
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, m))
}

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func TestExportFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "sprites.png")
	writePNG(t, file, testImage(4, 2))

	e := New(nil, discard())

	p, err := e.ExportFile(file, asset.Options{Merge: true, Tilemap: true})
	require.Nil(t, err)
	assert.Equal(t, asset.Files(file, false), p)

	b, err := ioutil.ReadFile(p.Palette)
	require.Nil(t, err)
	assert.Len(t, b, len(testPalette)*2)

	b, err = ioutil.ReadFile(p.Tilemap)
	require.Nil(t, err)
	assert.Len(t, b, 8)

	b, err = ioutil.ReadFile(p.Tileset)
	require.Nil(t, err)
	assert.Equal(t, 0, len(b)%tile.Size)

	p, err = e.ExportFile(file, asset.Options{Merge: true, RLE: true})
	require.Nil(t, err)
	assert.Equal(t, asset.Files(file, true), p)
	_, err = os.Stat(p.Tilemap)
	assert.True(t, os.IsNotExist(err))
}

func TestExportFileInvalid(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "odd.png")
	writePNG(t, file, image.NewPaletted(image.Rect(0, 0, 17, 16), testPalette))

	e := New(nil, discard())
	_, err = e.ExportFile(file, asset.Options{})
	assert.ErrorIs(t, err, asset.ErrDimensions)

	files, err := ioutil.ReadDir(dir)
	require.Nil(t, err)
	assert.Len(t, files, 1)

	_, err = e.ExportFile(filepath.Join(dir, "missing.png"), asset.Options{})
	assert.NotNil(t, err)
}

func TestExportFileCached(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	db, err := NewAssetDB(filepath.Join(dir, "cache.db"))
	require.Nil(t, err)
	defer db.Close()

	file := filepath.Join(dir, "sprites.png")
	writePNG(t, file, testImage(2, 2))

	buf := new(bytes.Buffer)
	e := New(db, log.New(buf, "", 0))
	opts := asset.Options{Merge: true, Pack: true, Tilemap: true}

	p, err := e.ExportFile(file, opts)
	require.Nil(t, err)
	assert.NotContains(t, buf.String(), "cached")

	first := make(map[string][]byte)
	for _, f := range []string{p.Palette, p.Tileset, p.Tilemap} {
		first[f], err = ioutil.ReadFile(f)
		require.Nil(t, err)
		require.Nil(t, os.Remove(f))
	}

	_, err = e.ExportFile(file, opts)
	require.Nil(t, err)
	assert.Contains(t, buf.String(), "Using cached export")

	for f, b := range first {
		again, err := ioutil.ReadFile(f)
		require.Nil(t, err)
		assert.Equal(t, b, again, f)
	}

	// Different options are a different cache entry
	buf.Reset()
	_, err = e.ExportFile(file, asset.Options{})
	require.Nil(t, err)
	assert.NotContains(t, buf.String(), "cached")
}

func TestAssetDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	db, err := NewAssetDB(filepath.Join(dir, "cache.db"))
	require.Nil(t, err)
	defer db.Close()

	opts := asset.Options{Merge: true, RLE: true}

	a, err := db.Lookup("ABCDEF", opts)
	require.Nil(t, err)
	assert.Nil(t, a)

	a, err = asset.Export(testImage(2, 1), opts)
	require.Nil(t, err)
	require.Nil(t, db.Store("ABCDEF", opts, a))

	cached, err := db.Lookup("ABCDEF", opts)
	require.Nil(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, a.Palette, cached.Palette)
	assert.Equal(t, a.Compression, cached.Compression)
	assert.Equal(t, a.TilesetBytes(), cached.TilesetBytes())
	assert.Nil(t, cached.Tilemap)
}

func TestExportDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	require.Nil(t, os.MkdirAll(filepath.Join(dir, "level1"), 0755))
	require.Nil(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0755))

	images := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "level1", "b.png"),
		filepath.Join(dir, "level1", "c.PNG"),
	}
	for _, f := range images {
		writePNG(t, f, testImage(1, 1))
	}
	writePNG(t, filepath.Join(dir, ".hidden", "d.png"), testImage(1, 1))
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))

	e := New(nil, discard())
	require.Nil(t, e.ExportDir(dir, asset.Options{Merge: true}, 2))

	for _, f := range images {
		_, err := os.Stat(asset.Files(f, false).Tileset)
		assert.Nil(t, err, f)
	}

	_, err = os.Stat(asset.Files(filepath.Join(dir, ".hidden", "d.png"), false).Tileset)
	assert.True(t, os.IsNotExist(err))
}

func TestExportDirError(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	writePNG(t, filepath.Join(dir, "bad.png"), image.NewPaletted(image.Rect(0, 0, 8, 8), testPalette))

	e := New(nil, discard())
	assert.ErrorIs(t, e.ExportDir(dir, asset.Options{}, 0), asset.ErrDimensions)
}

func TestRender(t *testing.T) {
	src := testImage(3, 1)

	a, err := asset.Export(src, asset.Options{Merge: true})
	require.Nil(t, err)
	palette, tileset, _ := a.Bytes()

	for _, c := range []struct {
		name  string
		opts  asset.Options
		modes []gfx.Mode
	}{
		{"raw", asset.Options{Merge: true}, []gfx.Mode{gfx.Mode320x8bit}},
		{"rle", asset.Options{Merge: true, RLE: true}, []gfx.Mode{gfx.Mode640x8bit}},
	} {
		t.Run(c.name, func(t *testing.T) {
			a, err := asset.Export(src, c.opts)
			require.Nil(t, err)
			palette, tileset, _ := a.Bytes()

			for _, mode := range c.modes {
				m, err := Render(palette, tileset, a.Compression, mode)
				require.Nil(t, err)
				assert.Equal(t, image.Rect(0, 0, 3*tile.Width, tile.Height), m.Bounds())
				assert.Equal(t, src.Pix, m.Pix)
				assert.Len(t, m.Palette, 256)
				assert.Equal(t, asset.Color(a.Palette[1]), m.Palette[1])
			}
		})
	}

	// Four colors pack to 2 bits per pixel which can't be loaded
	a, err = asset.Export(src, asset.Options{Pack: true})
	require.Nil(t, err)
	assert.Equal(t, tile.TwoBit, a.Compression)
	_, err = Render(a.PaletteBytes(), a.TilesetBytes(), a.Compression, gfx.Mode320x8bit)
	assert.ErrorIs(t, err, gfx.ErrUnsupportedDepth)

	// A fifth color makes it 4 bits per pixel
	m5 := *src
	m5.Palette = append(append(color.Palette(nil), testPalette...), color.RGBA{0x00, 0xff, 0x00, 0xff})
	a, err = asset.Export(&m5, asset.Options{Merge: true, Pack: true, RLE: true})
	require.Nil(t, err)
	assert.Equal(t, tile.FourBit|tile.RLE, a.Compression)
	m, err := Render(a.PaletteBytes(), a.TilesetBytes(), a.Compression, gfx.Mode320x8bit)
	require.Nil(t, err)
	assert.Equal(t, src.Pix, m.Pix)

	_, err = Render(palette, tileset, tile.None, gfx.Mode(0))
	assert.ErrorIs(t, err, gfx.ErrInvalidArgument)

	_, err = Render(palette, tileset, tile.FourBit, gfx.Mode640x4bit)
	assert.ErrorIs(t, err, gfx.ErrUnsupportedDepth)
}

func TestRender4bit(t *testing.T) {
	var tt tile.Tile
	for i := range tt {
		tt[i] = uint8(i % 2)
	}
	packed := tile.Pack(tt[:], tile.Depth1)

	// 17 tiles wrap onto a second row
	var tileset []byte
	for i := 0; i < 17; i++ {
		tileset = append(tileset, packed...)
	}

	m, err := Render([]byte{0x00, 0x00, 0xff, 0xff}, tileset, tile.OneBit, gfx.Mode320x4bit)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 16*tile.Width, 2*tile.Height), m.Bounds())
	assert.Equal(t, uint8(0), m.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), m.ColorIndexAt(1, 0))
	assert.Equal(t, uint8(1), m.ColorIndexAt(tile.Width-1, 2*tile.Height-1))
	assert.Equal(t, uint8(0), m.ColorIndexAt(tile.Width, 2*tile.Height-1))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, m.Palette[1])
}

func TestScale(t *testing.T) {
	src := testImage(1, 1)

	assert.Same(t, src, Scale(src, 1))

	m := Scale(src, 3)
	assert.Equal(t, image.Rect(0, 0, 3*tile.Width, 3*tile.Height), m.Bounds())
	for y := 0; y < tile.Height; y++ {
		for x := 0; x < tile.Width; x++ {
			assert.Equal(t, src.ColorIndexAt(x, y), m.ColorIndexAt(x*3+2, y*3+1))
		}
	}
}

func TestConvertTMX(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "level.tmx")
	require.Nil(t, ioutil.WriteFile(file, []byte(`<map width="3" height="1"><layer name="bg"><data encoding="csv">1,0,3</data></layer></map>`), 0644))

	e := New(nil, discard())

	names, err := e.ConvertTMX(file, "")
	require.Nil(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "level.ztm")}, names)

	b, err := ioutil.ReadFile(names[0])
	require.Nil(t, err)
	assert.Equal(t, []byte{0, 0xff, 2}, b)

	require.Nil(t, ioutil.WriteFile(file, []byte(`<map><layer name="bg"><data encoding="csv">1</data></layer><layer name="fg"><data encoding="csv">2</data></layer></map>`), 0644))

	names, err = e.ConvertTMX(file, filepath.Join(dir, "out.bin"))
	require.Nil(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "out-0.ztm"), filepath.Join(dir, "out-1.ztm")}, names)

	require.Nil(t, ioutil.WriteFile(file, []byte(`<map><layer name="bg"><data encoding="base64">AQAAAA==</data></layer></map>`), 0644))
	_, err = e.ConvertTMX(file, "")
	assert.NotNil(t, err)
}

func TestWatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "zealgfx")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "sprites.png")
	writePNG(t, file, testImage(1, 1))
	p := asset.Files(file, false)

	e := New(nil, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, file, asset.Options{Merge: true})
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(p.Tileset)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	require.Nil(t, os.Remove(p.Tileset))

	// Growing the image produces a bigger tileset
	writePNG(t, file, testImage(2, 1))

	require.Eventually(t, func() bool {
		fi, err := os.Stat(p.Tileset)
		return err == nil && fi.Size() == 2*tile.Size
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
