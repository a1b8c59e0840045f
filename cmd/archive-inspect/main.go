package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/theimaginaryfoundation/reply-miner/mining"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timelines, err := mining.LoadArchive(ctx, cfg.ArchiveRoot, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	var total int
	counts := make(map[mining.Snowflake]int)
	for _, tl := range timelines {
		fmt.Fprintf(os.Stdout, "file=%s kind=%s messages=%d\n", tl.Source, tl.Kind, len(tl.Messages))
		total += len(tl.Messages)
		for _, m := range tl.Messages {
			counts[m.Author]++
		}
	}

	for _, ac := range rankAuthors(counts, cfg.TopAuthors) {
		fmt.Fprintf(os.Stdout, "author=%s messages=%d\n", ac.author, ac.n)
	}
	fmt.Fprintf(os.Stdout, "timelines=%d messages=%d authors=%d\n", len(timelines), total, len(counts))
}

type authorCount struct {
	author mining.Snowflake
	n      int
}

func rankAuthors(counts map[mining.Snowflake]int, top int) []authorCount {
	ranked := make([]authorCount, 0, len(counts))
	for a, n := range counts {
		ranked = append(ranked, authorCount{author: a, n: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].author < ranked[j].author
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
