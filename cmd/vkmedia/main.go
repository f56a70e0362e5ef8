package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"github.com/vkngwrapper/vkmedia/config"
	"golang.org/x/exp/slog"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vkmedia: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "vkmedia",
		Usage:   "stream frames rendered with Vulkan through CUDA-shared memory into an encoder",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"VKMEDIA_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "auto, text or json",
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			devicesCommand(),
		},
	}
}

// loadConfig reads the configuration file, when one is given, and applies the global flags over it
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()

	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	return cfg, nil
}

// newLogger writes text to a terminal and JSON anywhere else, unless the format is forced
func newLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}

	format := cfg.LogFormat
	if format == config.LogFormatAuto || format == "" {
		format = config.LogFormatJSON
		if file, ok := w.(*os.File); ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())) {
			format = config.LogFormatText
		}
	}

	switch format {
	case config.LogFormatText:
		return slog.New(slog.NewTextHandler(w, options)), nil
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, options)), nil
	default:
		return nil, errors.Newf("unknown log format %q", cfg.LogFormat)
	}
}
