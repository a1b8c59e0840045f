package main

import (
	"flag"
	"testing"

	"github.com/theimaginaryfoundation/reply-miner/mining"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("archive-inspect", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"./archive"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.ArchiveRoot != "archive" {
		t.Fatalf("ArchiveRoot=%q, want %q", cfg.ArchiveRoot, "archive")
	}
	if cfg.TopAuthors != 10 {
		t.Fatalf("TopAuthors=%d, want 10", cfg.TopAuthors)
	}
}

func TestParseFlags_ArgumentErrors(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"a", "b"}} {
		fs := flag.NewFlagSet("archive-inspect", flag.ContinueOnError)
		if _, err := parseFlags(fs, args); err == nil {
			t.Fatalf("expected error for args %v", args)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("expected error for empty config")
	}
	if err := (Config{ArchiveRoot: "a", TopAuthors: 0, LogLevel: "info"}).Validate(); err == nil {
		t.Fatalf("expected error for -top 0")
	}
	if err := (Config{ArchiveRoot: "a", TopAuthors: 5, LogLevel: "info"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRankAuthors(t *testing.T) {
	t.Parallel()

	counts := map[mining.Snowflake]int{
		1: 3,
		2: 7,
		3: 3,
		4: 1,
	}
	ranked := rankAuthors(counts, 3)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked)=%d, want 3", len(ranked))
	}
	if ranked[0].author != 2 || ranked[0].n != 7 {
		t.Fatalf("ranked[0]=%+v, want author 2 with 7", ranked[0])
	}
	// Equal counts rank by ascending author id.
	if ranked[1].author != 1 || ranked[2].author != 3 {
		t.Fatalf("ranked[1..2]=%+v,%+v, want authors 1 then 3", ranked[1], ranked[2])
	}
}
