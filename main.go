package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/km-arc/authforms/app/console"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	flags := &console.Flags{}

	serve := func(ctx context.Context, _ *cli.Command) error {
		return console.Serve(ctx, flags)
	}

	return &cli.Command{
		Name:      "authforms",
		Usage:     "Serve and check the login, signup and reset-password forms",
		UsageText: "authforms [global options] [command [command options]]",
		Version:   build(),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "env-file",
				Usage:       "dotenv file(s) to load (default .env)",
				Destination: &flags.EnvFiles,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error, disabled)",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file instead of stderr",
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "locale",
				Usage:       "default page language (pt-BR, en)",
				Destination: &flags.Locale,
			},
			&cli.StringFlag{
				Name:        "forms",
				Usage:       "forms YAML file (default: the embedded forms)",
				Destination: &flags.FormsFile,
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server (default)",
				Action: serve,
			},
			{
				Name:      "validate",
				Usage:     "validate a JSON object against a form",
				ArgsUsage: "<form>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "JSON file to read (default stdin)",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					form := c.Args().First()
					if form == "" {
						return cli.Exit("validate: missing <form> argument", 2)
					}

					var in io.Reader = os.Stdin
					if path := c.String("input"); path != "" && path != "-" {
						f, err := os.Open(path)
						if err != nil {
							return err
						}
						defer f.Close()
						in = f
					}

					err := console.Validate(flags, form, in, c.Root().Writer)
					if errors.Is(err, console.ErrInvalid) {
						return cli.Exit("", 1)
					}
					return err
				},
			},
			{
				Name:      "check",
				Usage:     "load a forms file and report configuration errors",
				ArgsUsage: "[file]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return console.Check(flags, c.Args().First(), c.Root().Writer)
				},
			},
		},
	}
}
