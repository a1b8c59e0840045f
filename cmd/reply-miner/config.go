package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theimaginaryfoundation/reply-miner/mining"
)

type Config struct {
	ArchiveRoot string
	Author      mining.Snowflake
	OutPath     string
	SchemaPath  string
	Pretty      bool
	LogLevel    string
}

func (c Config) Validate() error {
	if c.ArchiveRoot == "" {
		return errors.New("missing archive root argument")
	}
	if c.Author == 0 {
		return errors.New("author id must be nonzero")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
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
		LogLevel: "info",
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.OutPath, "out", "", "Output file for the mined pairs (default prompt-<author-id>.json)")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print the output JSON")
	fs.StringVar(&cfg.SchemaPath, "schema", "", "Also write the record JSON Schema to this path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log verbosity: debug, info, warn or error")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags] <archive-root> <author-id>\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  reply-miner ./archive 120000000000000001")
		fmt.Fprintln(fs.Output(), "  reply-miner -pretty -out dataset.json ./archive 120000000000000001")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return Config{}, fmt.Errorf("want exactly 2 arguments (archive root, author id), got %d", len(rest))
	}
	cfg.ArchiveRoot = filepath.Clean(rest[0])

	author, err := mining.ParseSnowflake(rest[1])
	if err != nil {
		return Config{}, fmt.Errorf("author id: %w", err)
	}
	cfg.Author = author

	if cfg.OutPath == "" {
		cfg.OutPath = fmt.Sprintf("prompt-%s.json", author)
	}
	cfg.OutPath = filepath.Clean(cfg.OutPath)
	if cfg.SchemaPath != "" {
		cfg.SchemaPath = filepath.Clean(cfg.SchemaPath)
	}
	return cfg, nil
}
