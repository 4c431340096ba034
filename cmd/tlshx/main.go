// Command tlshx computes and compares TLSHX fuzzy digests of files.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
)

type logConfig struct {
	Level  string `help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error" env:"TLSHX_LOG_LEVEL"`
	Format string `help:"Log format (text, json)" default:"text" enum:"text,json" env:"TLSHX_LOG_FORMAT"`
}

type cli struct {
	Log logConfig `embed:"" prefix:"log-"`

	Hash     hashCmd     `cmd:"" help:"Print the digest of every file under the given paths"`
	Diff     diffCmd     `cmd:"" help:"Print the distance between two digests or files"`
	Parse    parseCmd    `cmd:"" help:"Decode digests into their fields"`
	Scan     scanCmd     `cmd:"" help:"List near-duplicate file pairs under the given paths"`
	Segments segmentsCmd `cmd:"" help:"Print one digest per content-defined segment of a file"`
}

// runContext is bound into every command's Run method.
type runContext struct {
	ctx    context.Context
	stdout io.Writer
	logger *slog.Logger
}

func newParser(params *cli, opts ...kong.Option) (*kong.Kong, error) {
	return kong.New(params, append([]kong.Option{
		kong.Name("tlshx"),
		kong.Description("Locality-sensitive fuzzy hashing of files."),
		kong.UsageOnError(),
	}, opts...)...)
}

func main() {
	var params cli

	parser, err := newParser(&params)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger := newLogger(params.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = kctx.Run(&runContext{ctx: ctx, stdout: os.Stdout, logger: logger})

	stop()
	kctx.FatalIfErrorf(err)
}

func newLogger(cfg logConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
