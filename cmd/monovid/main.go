package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/bodgit/monovid"
	"github.com/bodgit/monovid/asset"
	"github.com/bodgit/monovid/bitmap"
	"github.com/bodgit/monovid/config"
	"github.com/bodgit/monovid/display"
	"github.com/bodgit/monovid/player"
	"github.com/bodgit/monovid/video"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

const defaultDB = "monovid.db"

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
		logger.SetOutput(colorable.NewColorableStderr())
	}
	return logger
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if file := c.String("config"); file != "" {
		return config.Load(file)
	}
	return config.Default(), nil
}

func openLibrary(c *cli.Context) (*monovid.Monovid, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return monovid.New(c.String("db"), cfg, newLogger(c))
}

func readStream(c *cli.Context, arg string) ([]byte, error) {
	if !c.Bool("clip") {
		return ioutil.ReadFile(arg)
	}

	m, err := openLibrary(c)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	return m.Get(arg)
}

type countingBus struct {
	addresses, bytes int
}

func (b *countingBus) SetAddress(row, column int) error {
	b.addresses++
	return nil
}

func (b *countingBus) WriteData(d byte) error {
	b.bytes++
	return nil
}

func play(c *cli.Context, data []byte) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(c)

	var (
		fb  display.Framebuffer
		lcd *display.LCD12864
		bus countingBus
	)
	if c.Bool("lcd") {
		lcd = new(display.LCD12864)
		fb = lcd
	} else {
		fb = bitmap.NewFrame(cfg.Display.Width, cfg.Display.Height)
	}

	d, err := video.NewDecoder(data, fb.Width(), fb.Height())
	if err != nil {
		return err
	}

	out := colorable.NewColorableStdout()
	home := isatty.IsTerminal(os.Stdout.Fd())
	if home {
		fmt.Fprint(out, "\x1b[2J")
	}

	present := func(fb display.Framebuffer) error {
		if lcd != nil {
			if _, err := lcd.Update(&bus); err != nil {
				return err
			}
		}
		return display.Render(out, fb, home)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := player.New(d, fb, cfg.Display.FrameRate, present, logger)
	for {
		n, err := p.Run(ctx)
		logger.Printf("Played %d frames\n", n)
		if lcd != nil {
			logger.Printf("Panel received %d addresses and %d data bytes\n", bus.addresses, bus.bytes)
		}
		if err != nil {
			if err == ctx.Err() {
				return nil
			}
			return err
		}
		if !c.Bool("loop") {
			return nil
		}
		d.Reset()
	}
}

func writeFrame(dir, format string, i int, m image.Image) error {
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame%05d.%s", i, format)))
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "pbm":
		err = bitmap.Encode(f, m)
	default:
		err = png.Encode(f, m)
	}
	if err != nil {
		return err
	}

	return f.Close()
}

func embed(data []byte, out, pkg string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	a := asset.New(data)
	if pkg != "" {
		err = a.WriteGo(f, pkg)
	} else {
		err = a.WriteC(f)
	}
	if err != nil {
		return err
	}

	return f.Close()
}

func list(w io.Writer, clips []monovid.Clip) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tFRAMES\tBYTES\tHASH")
	for _, clip := range clips {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%.16s\n", clip.Name, clip.Width, clip.Height, clip.Frames, clip.Size, clip.Hash)
	}
	return tw.Flush()
}

func main() {
	app := cli.NewApp()

	app.Name = "monovid"
	app.Usage = "Bilevel video encoder for small monochrome displays"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MONOVID_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"MONOVID_CONFIG"},
			Usage:   "path to TOML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	clipFlag := &cli.BoolFlag{
		Name:  "clip",
		Usage: "treat the argument as the name of a clip in the database",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Encode a directory of frames or an animated GIF",
			Description: "",
			ArgsUsage:   "SOURCE FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "limit",
					Usage: "maximum number of frames to encode",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if _, err := monovid.EncodeFile(cfg, c.Args().Get(0), c.Args().Get(1), c.Int("limit"), newLogger(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a stream to a directory of images",
			Description: "",
			ArgsUsage:   "FILE DIRECTORY",
			Flags: []cli.Flag{
				clipFlag,
				&cli.StringFlag{
					Name:  "format",
					Value: "png",
					Usage: "image format, png or pbm",
				},
				&cli.BoolFlag{
					Name:  "show-unchanged",
					Usage: "show chunks not sent in each frame in grey",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				data, err := readStream(c, c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				dir := c.Args().Get(1)
				if err := os.MkdirAll(dir, os.FileMode(0755)); err != nil {
					return cli.NewExitError(err, 1)
				}

				n, err := monovid.DecodeFrames(cfg, data, c.Bool("show-unchanged"), func(i int, m image.Image) error {
					return writeFrame(dir, c.String("format"), i, m)
				})
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				newLogger(c).Printf("Wrote %d frames\n", n)

				return nil
			},
		},
		{
			Name:        "play",
			Usage:       "Play a stream in the terminal",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				clipFlag,
				&cli.BoolFlag{
					Name:  "loop",
					Usage: "restart from the first frame at the end of the stream",
				},
				&cli.BoolFlag{
					Name:  "lcd",
					Usage: "decode through a 128x64 12864 panel buffer",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, err := readStream(c, c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := play(c, data); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "embed",
			Usage:       "Write a stream as C or Go source",
			Description: "",
			ArgsUsage:   "FILE [OUTPUT]",
			Flags: []cli.Flag{
				clipFlag,
				&cli.StringFlag{
					Name:  "go",
					Usage: "write Go source in package `PKG` instead of C",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, err := readStream(c, c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out := c.Args().Get(1)
				if out == "" {
					out = asset.CFilename
					if c.String("go") != "" {
						out = asset.GoFilename
					}
				}

				if err := embed(data, out, c.String("go")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Validate a stream and show its size and frame count",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				clipFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, err := readStream(c, c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				info, err := video.Probe(data)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("%dx%d, %d frames, %d bytes\n", info.Width, info.Height, info.Frames, len(data))

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Add a stream to the database",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Import(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Write a stream from the database to a file",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Export(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "remove",
			Usage:       "Remove a stream from the database",
			Description: "",
			ArgsUsage:   "NAME",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Remove(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the streams in the database",
			Description: "",
			Action: func(c *cli.Context) error {
				m, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				clips, err := m.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := list(os.Stdout, clips); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and encode every directory of frames",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
