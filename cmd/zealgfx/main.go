package main

import (
	"context"
	"fmt"
	"image/gif"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bodgit/zealgfx"
	"github.com/bodgit/zealgfx/asset"
	"github.com/bodgit/zealgfx/gfx"
	"github.com/bodgit/zealgfx/tile"
	"github.com/urfave/cli/v2"
)

const defaultDB = "zealgfx.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

var exportFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "rle",
		Usage: "run-length encode the tileset",
	},
	&cli.BoolFlag{
		Name:  "pack",
		Usage: "pack pixels using the fewest bits the palette allows",
	},
	&cli.BoolFlag{
		Name:  "no-merge",
		Usage: "keep duplicate tiles",
	},
	&cli.BoolFlag{
		Name:  "no-tilemap",
		Usage: "do not write a tilemap",
	},
	&cli.BoolFlag{
		Name:  "cache",
		Usage: "cache exports in the database",
	},
}

func exportOptions(c *cli.Context) asset.Options {
	return asset.Options{
		Merge:   !c.Bool("no-merge"),
		Pack:    c.Bool("pack"),
		RLE:     c.Bool("rle"),
		Tilemap: !c.Bool("no-tilemap"),
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newExporter returns an Exporter along with a function to release it
func newExporter(c *cli.Context) (*zealgfx.Exporter, func(), error) {
	logger := newLogger(c)

	if !c.Bool("cache") {
		return zealgfx.New(nil, logger), func() {}, nil
	}

	db, err := zealgfx.NewAssetDB(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return zealgfx.New(db, logger), func() { db.Close() }, nil
}

func parseCompression(s string, depth int) (tile.Compression, error) {
	var c tile.Compression
	switch strings.ToLower(s) {
	case "raw", "":
	case "1bit":
		c = tile.OneBit
	case "4bit":
		c = tile.FourBit
	case "rle":
		c = tile.RLE
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}

	if c == tile.RLE {
		switch depth {
		case 8:
		case 4:
			c |= tile.FourBit
		case 1:
			c |= tile.OneBit
		default:
			return 0, fmt.Errorf("unsupported depth %d", depth)
		}
	}

	return c, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "zealgfx"
	app.Usage = "Zeal Video Board graphics asset utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ZEALGFX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to export cache database",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "export",
			Usage:       "Export an image as palette, tileset and tilemap files",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       exportFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, done, err := newExporter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				p, err := e.ExportFile(c.Args().First(), exportOptions(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Println(p.Palette)
				fmt.Println(p.Tileset)
				if !c.Bool("no-tilemap") {
					fmt.Println(p.Tilemap)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Export every image found under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of concurrent exports",
				},
			}, exportFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, done, err := newExporter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := e.ExportDir(c.Args().First(), exportOptions(c), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Export an image every time it changes",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       exportFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, done, err := newExporter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()

				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt)
				go func() {
					<-sig
					cancel()
				}()

				if err := e.Watch(ctx, c.Args().First(), exportOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Render a tileset to a GIF image",
			Description: "",
			ArgsUsage:   "TILESET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "palette",
					Usage:    "palette file",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "compression",
					Value: "raw",
					Usage: "tileset encoding, one of raw, 1bit, 4bit or rle",
				},
				&cli.IntFlag{
					Name:  "depth",
					Value: 8,
					Usage: "bits per pixel of run-length encoded tiles, one of 1, 4 or 8",
				},
				&cli.BoolFlag{
					Name:  "4bpp",
					Usage: "render using a 4 bits per pixel video mode",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale factor",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "output file, defaults to TILESET with a .gif extension",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				comp, err := parseCompression(c.String("compression"), c.Int("depth"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				file := c.Args().First()
				tileset, err := ioutil.ReadFile(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				palette, err := ioutil.ReadFile(c.String("palette"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				mode := gfx.Mode320x8bit
				if c.Bool("4bpp") {
					mode = gfx.Mode320x4bit
				}

				m, err := zealgfx.Render(palette, tileset, comp, mode)
				if err != nil {
					return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
				}
				m = zealgfx.Scale(m, c.Int("scale"))

				out := c.String("out")
				if out == "" {
					out = strings.TrimSuffix(file, filepath.Ext(file)) + ".gif"
				}

				f, err := os.Create(out)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := gif.Encode(f, m, nil); err != nil {
					return cli.NewExitError(err, 1)
				}

				logger.Printf("Rendered \"%s\" to \"%s\" (%s)\n", file, out, comp)

				return nil
			},
		},
		{
			Name:        "tmx",
			Usage:       "Convert the layers of a Tiled map to tilemaps",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Usage: "base name of the tilemap files",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e := zealgfx.New(nil, newLogger(c))

				names, err := e.ConvertTMX(c.Args().First(), c.String("out"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, name := range names {
					fmt.Println(name)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
