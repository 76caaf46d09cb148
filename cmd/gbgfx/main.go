package main

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/bodgit/gbgfx"
	"github.com/bodgit/gbgfx/palette"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

// Flags shared by every command describing the tile format.
func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			Value:   "2",
			Usage:   "bits per pixel, 1 or 2",
		},
		&cli.StringFlag{
			Name:    "palette-size",
			Aliases: []string{"s"},
			Usage:   "colors per palette, defaults to 1 << depth",
		},
		&cli.StringFlag{
			Name:    "unit-size",
			Aliases: []string{"U"},
			Value:   "8",
			Usage:   "tile edge length in pixels, a multiple of 8",
		},
		&cli.BoolFlag{
			Name:    "color-curve",
			Aliases: []string{"C"},
			Usage:   "use the Game Boy Color color curve",
		},
		&cli.BoolFlag{
			Name:    "columns",
			Aliases: []string{"Z"},
			Usage:   "visit tiles column by column",
		},
		&cli.StringFlag{
			Name:    "trim-end",
			Aliases: []string{"x"},
			Value:   "0",
			Usage:   "number of tiles to drop from the end of the tile data",
		},
		&cli.StringFlag{
			Name:    "base-tiles",
			Aliases: []string{"b"},
			Usage:   "base tile ID of bank 0 and optionally bank 1, as `ID[,ID]`",
		},
		&cli.StringFlag{
			Name:    "max-tiles",
			Aliases: []string{"N"},
			Usage:   "number of tiles in bank 0 and optionally bank 1, as `N[,N]`",
		},
		&cli.StringFlag{
			Name:    "nb-palettes",
			Aliases: []string{"n"},
			Value:   "8",
			Usage:   "maximum number of palettes",
		},
	}
}

// Flags naming the binary artifacts.
func artifactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "tile data `FILE`",
		},
		&cli.StringFlag{
			Name:    "tilemap",
			Aliases: []string{"t"},
			Usage:   "tilemap `FILE`",
		},
		&cli.StringFlag{
			Name:    "attr-map",
			Aliases: []string{"a"},
			Usage:   "attribute map `FILE`",
		},
		&cli.StringFlag{
			Name:    "palette-map",
			Aliases: []string{"q"},
			Usage:   "palette map `FILE`",
		},
		&cli.StringFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "palette table `FILE`",
		},
	}
}

func parseNumber(c *cli.Context, name string) (int, error) {
	n, err := gbgfx.ParseNumber(c.String(name))
	if err != nil {
		return 0, cli.NewExitError("--"+name+": "+err.Error(), 1)
	}
	return n, nil
}

func options(c *cli.Context) (*gbgfx.Options, error) {
	opts := gbgfx.NewOptions()

	var err error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"depth", &opts.BitDepth},
		{"unit-size", &opts.UnitSize},
		{"trim-end", &opts.Trim},
		{"nb-palettes", &opts.NbPalettes},
	} {
		if *f.dst, err = parseNumber(c, f.name); err != nil {
			return nil, err
		}
	}
	if c.IsSet("palette-size") {
		if opts.ColorsPerPalette, err = parseNumber(c, "palette-size"); err != nil {
			return nil, err
		}
	}
	opts.UseColorCurve = c.Bool("color-curve")
	opts.ColumnMajor = c.Bool("columns")

	if c.IsSet("base-tiles") {
		pair, n, err := gbgfx.ParsePair(c.String("base-tiles"))
		if err != nil {
			return nil, err
		}
		opts.BaseTileIDs = pair
		if n == 1 {
			opts.BaseTileIDs[1] = 0
		}
	}
	if c.IsSet("max-tiles") {
		pair, _, err := gbgfx.ParsePair(c.String("max-tiles"))
		if err != nil {
			return nil, err
		}
		opts.MaxNbTiles = pair
	}

	return opts, nil
}

// paletteSpec applies the --colors flag.
func paletteSpec(c *cli.Context, opts *gbgfx.Options) error {
	arg := c.String("colors")
	switch {
	case arg == "":
		return nil
	case arg == "embedded":
		opts.PalSpecType = gbgfx.EmbeddedSpec
		return nil
	}

	var spec palette.Spec
	var err error
	if strings.HasPrefix(arg, "#") {
		spec, err = palette.ParseInline(arg)
	} else {
		size := opts.ColorsPerPalette
		if size == 0 {
			size = 1 << opts.BitDepth
		}
		spec, err = palette.ParseFile(arg, size, opts.UseColorCurve)
	}
	if err != nil {
		return err
	}
	opts.PalSpecType = gbgfx.ExplicitSpec
	opts.PalSpec = spec
	return nil
}

func outputPath(c *cli.Context, name, auto, base, ext string) string {
	if c.Bool(auto) {
		return gbgfx.AutoPath(base, ext)
	}
	return c.String(name)
}

func readOptional(file string) ([]byte, error) {
	if file == "" {
		return nil, nil
	}
	return ioutil.ReadFile(file)
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	opts, err := options(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	opts.AllowDedup = c.Bool("unique-tiles")
	opts.AllowMirroring = c.Bool("mirror-tiles")
	if c.IsSet("slice") {
		if opts.InputSlice, err = gbgfx.ParseSlice(c.String("slice")); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	if err := paletteSpec(c, opts); err != nil {
		return cli.NewExitError(err, 1)
	}

	input := c.Args().First()
	m, err := decodeImage(input)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	base := input
	if c.Bool("group-outputs") && c.String("output") != "" {
		base = c.String("output")
	}
	paths := gbgfx.Paths{
		TileData: c.String("output"),
		Tilemap:  outputPath(c, "tilemap", "auto-tilemap", base, gbgfx.TilemapExt),
		Attrmap:  outputPath(c, "attr-map", "auto-attr-map", base, gbgfx.AttrmapExt),
		Palmap:   outputPath(c, "palette-map", "auto-palette-map", base, gbgfx.PalmapExt),
		Palettes: outputPath(c, "palette", "auto-palette", base, gbgfx.PalettesExt),
	}

	g, err := gbgfx.New(c.String("cache"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer g.Close()

	r, d, err := g.Convert(m, opts)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := d.Print(os.Stderr); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := r.WriteFiles(paths, d); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func reverse(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	opts, err := options(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if opts.Stride, err = parseNumber(c, "reverse"); err != nil {
		return err
	}

	if c.String("output") == "" {
		return cli.NewExitError(errors.New("tile data is required"), 1)
	}

	var a gbgfx.Artifacts
	for _, f := range []struct {
		name string
		dst  *[]byte
	}{
		{"output", &a.TileData},
		{"tilemap", &a.Tilemap},
		{"attr-map", &a.Attrmap},
		{"palette-map", &a.Palmap},
		{"palette", &a.Palettes},
	} {
		if *f.dst, err = readOptional(c.String(f.name)); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	newLogger(c).Printf("Rebuilding %d bytes of tile data, %d tiles wide\n", len(a.TileData), opts.Stride)

	var m image.Image
	if m, err = gbgfx.Reverse(&a, opts); err != nil {
		return cli.NewExitError(err, 1)
	}

	if scale := c.Int("scale"); scale > 1 {
		b := m.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
		m = dst
	}

	f, err := os.Create(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func palettes(c *cli.Context) error {
	opts, err := options(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := paletteSpec(c, opts); err != nil {
		return cli.NewExitError(err, 1)
	}
	if opts.PalSpecType != gbgfx.ExplicitSpec {
		return cli.NewExitError(errors.New("an explicit palette spec is required"), 1)
	}

	g, err := gbgfx.New(c.String("cache"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer g.Close()

	r, err := g.Palettes(opts)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := r.WriteFiles(gbgfx.Paths{Palettes: c.String("palette")}, nil); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "gbgfx"
	app.Usage = "Game Boy graphics converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"GBGFX_CACHE"},
			Usage:   "path to an optional cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	colorsFlag := &cli.StringFlag{
		Name:    "colors",
		Aliases: []string{"c"},
		Usage:   "palettes to use: inline `SPEC`, a palette file or \"embedded\"",
	}

	convertFlags := append(formatFlags(), artifactFlags()...)
	convertFlags = append(convertFlags,
		colorsFlag,
		&cli.BoolFlag{
			Name:    "auto-tilemap",
			Aliases: []string{"T"},
			Usage:   "write the tilemap next to the input",
		},
		&cli.BoolFlag{
			Name:    "auto-attr-map",
			Aliases: []string{"A"},
			Usage:   "write the attribute map next to the input",
		},
		&cli.BoolFlag{
			Name:    "auto-palette-map",
			Aliases: []string{"Q"},
			Usage:   "write the palette map next to the input",
		},
		&cli.BoolFlag{
			Name:    "auto-palette",
			Aliases: []string{"P"},
			Usage:   "write the palette table next to the input",
		},
		&cli.BoolFlag{
			Name:    "group-outputs",
			Aliases: []string{"O"},
			Usage:   "base automatic output paths on the tile data output",
		},
		&cli.BoolFlag{
			Name:    "unique-tiles",
			Aliases: []string{"u"},
			Usage:   "only store unique tiles",
		},
		&cli.BoolFlag{
			Name:    "mirror-tiles",
			Aliases: []string{"m"},
			Usage:   "also merge mirrored tiles, implies --unique-tiles",
		},
		&cli.StringFlag{
			Name:    "slice",
			Aliases: []string{"L"},
			Usage:   "only convert part of the image, as `LEFT,TOP:WIDTH,HEIGHT` in pixels",
		},
	)

	reverseFlags := append(formatFlags(), artifactFlags()...)
	reverseFlags = append(reverseFlags,
		&cli.StringFlag{
			Name:     "reverse",
			Aliases:  []string{"r"},
			Required: true,
			Usage:    "width of the image in tiles",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "scale the image up by `N`",
		},
	)

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an image into tile data",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       convertFlags,
			Action:      convert,
		},
		{
			Name:        "reverse",
			Usage:       "Rebuild an image from tile data",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags:       reverseFlags,
			Action:      reverse,
		},
		{
			Name:        "palettes",
			Usage:       "Write the palette table of a palette spec",
			Description: "",
			Flags: append(formatFlags(), colorsFlag, &cli.StringFlag{
				Name:     "palette",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "palette table `FILE`",
			}),
			Action: palettes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
