package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	ArchiveRoot string
	TopAuthors  int
	LogLevel    string
}

func (c Config) Validate() error {
	if c.ArchiveRoot == "" {
		return errors.New("missing archive root argument")
	}
	if c.TopAuthors <= 0 {
		return errors.New("-top must be > 0")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid -log-level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		TopAuthors: 10,
		LogLevel:   "info",
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.IntVar(&cfg.TopAuthors, "top", cfg.TopAuthors, "How many of the busiest authors to list")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log verbosity: debug, info, warn or error")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] <archive-root>\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  archive-inspect ./archive")
		fmt.Fprintln(fs.Output(), "  archive-inspect -top 25 ./archive")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return Config{}, fmt.Errorf("want exactly 1 argument (archive root), got %d", len(rest))
	}
	cfg.ArchiveRoot = filepath.Clean(rest[0])
	return cfg, nil
}
