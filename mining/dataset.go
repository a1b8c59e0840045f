package mining

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Pair is one supervised training example: what others said, and what the
// target author replied. No ids or timestamps are retained.
type Pair struct {
	Prompt string `json:"prompt"`
	Reply  string `json:"reply"`
}

// BuildStats aggregates advisory counters for one BuildDataset run.
type BuildStats struct {
	FilesParsed int
	Channels    int
	Threads     int
	Messages    int
	Pairs       int
}

// BuildDataset mines the whole archive under root for training pairs replied
// by author. Each messages file is loaded, windowed, and discarded before the
// next one is touched, so peak memory is bounded by the largest single file.
// Pair order follows file-discovery order, then occurrence order within a
// file. The context is checked between files.
func BuildDataset(ctx context.Context, root string, author Snowflake, log *slog.Logger) ([]Pair, BuildStats, error) {
	if ctx == nil {
		return nil, BuildStats{}, errors.New("BuildDataset: ctx is nil")
	}
	if root == "" {
		return nil, BuildStats{}, errors.New("BuildDataset: root is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	files, err := DiscoverMessageFiles(root, log)
	if err != nil {
		return nil, BuildStats{}, err
	}

	var (
		pairs []Pair
		stats BuildStats
	)
	for i, mf := range files {
		select {
		case <-ctx.Done():
			return nil, BuildStats{}, ctx.Err()
		default:
		}

		log.Debug("mining messages file", "file", mf.Path, "n", i+1, "total", len(files))

		start := time.Now()
		tl, err := LoadTimeline(mf.Path, mf.Kind)
		if err != nil {
			return nil, BuildStats{}, err
		}
		mined := WindowReplies(tl.Messages, author)
		pairs = append(pairs, mined...)

		stats.FilesParsed++
		switch mf.Kind {
		case KindChannel:
			stats.Channels++
		case KindThread:
			stats.Threads++
		}
		stats.Messages += len(tl.Messages)
		stats.Pairs += len(mined)

		log.Info("mined messages file",
			"file", mf.Path,
			"kind", mf.Kind,
			"n", i+1,
			"total", len(files),
			"messages", len(tl.Messages),
			"pairs", len(mined),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	return pairs, stats, nil
}

// WritePairs serializes pairs as a single JSON array to path, creating the
// file if absent and truncating it if present. A nil or empty slice writes an
// empty array, never null.
func WritePairs(path string, pairs []Pair, pretty bool) error {
	if path == "" {
		return errors.New("WritePairs: path is empty")
	}
	if pairs == nil {
		pairs = []Pair{}
	}

	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(pairs, "", "  ")
	} else {
		b, err = json.Marshal(pairs)
	}
	if err != nil {
		return fmt.Errorf("WritePairs: marshal: %w", err)
	}
	if err := writeFileAtomicSameDir(path, b, 0o644); err != nil {
		return fmt.Errorf("WritePairs: write %s: %w", path, err)
	}
	return nil
}

// writeFileAtomicSameDir writes data plus a trailing newline to a temp file in
// path's directory and renames it into place, so a failed run never leaves a
// half-written dataset behind.
func writeFileAtomicSameDir(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_mined_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write([]byte("\n")); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
