package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/dxt"
	"github.com/bodgit/dxt/dds"
	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

const defaultDB = "dxt.db"

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

func withLibrary(c *cli.Context, f func(*dxt.Library) error) error {
	db, err := dxt.NewTextureDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := f(dxt.New(db, newLogger(c))); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func decodeFile(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := dds.Decode(f)
	if err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := png.Encode(w, m); err != nil {
		return err
	}
	return w.Close()
}

func encodeFile(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := dds.Encode(w, m); err != nil {
		return err
	}
	return w.Close()
}

func info(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	h, ext, err := dds.ReadHeader(f)
	if err != nil {
		return err
	}

	config := spew.NewDefaultConfig()
	config.DisableCapacities = true

	fmt.Printf("%s: %dx%d %s, %d mipmaps\n", file, h.Width, h.Height, h.FourCC(), h.MipMapCount)
	fmt.Print(config.Sdump(h))
	if ext != nil {
		fmt.Print(config.Sdump(ext))
	}
	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "dxt"
	app.Usage = "BC1 compressed texture utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"DXT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import textures into the database",
			Description: "DDS files are stored as is, other images are compressed first",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withLibrary(c, func(l *dxt.Library) error {
					for _, file := range c.Args().Slice() {
						if err := l.Import(file); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		{
			Name:        "export",
			Usage:       "Export a texture from the database as PNG",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withLibrary(c, func(l *dxt.Library) error {
					return l.ExportFile(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:        "list",
			Usage:       "List textures in the database",
			Description: "",
			Action: func(c *cli.Context) error {
				return withLibrary(c, func(l *dxt.Library) error {
					names, err := l.Names()
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Println(name)
					}
					return nil
				})
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and convert DDS textures to PNG",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of concurrent conversions",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return withLibrary(c, func(l *dxt.Library) error {
					return l.Scan(c.Args().First(), c.Int("workers"))
				})
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a DXT1 DDS file to PNG",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := decodeFile(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "encode",
			Usage:       "Encode an image to a DXT1 DDS file",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := encodeFile(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show the header of a DDS file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := info(c.Args().First()); err != nil {
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
