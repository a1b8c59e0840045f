package mining

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	channelMessagesFile = "channel_messages.json"
	threadMessagesFile  = "thread_messages.json"
	threadsDirName      = "threads"
)

// TimelineKind distinguishes top-level channel histories from thread histories.
type TimelineKind int

const (
	KindChannel TimelineKind = iota
	KindThread
)

func (k TimelineKind) String() string {
	switch k {
	case KindChannel:
		return "channel"
	case KindThread:
		return "thread"
	default:
		return "unknown"
	}
}

// MessageFile is one discovered messages file, not yet parsed.
type MessageFile struct {
	Path string
	Kind TimelineKind
}

// Timeline is one independently windowed message sequence. Threads are never
// merged into their parent channel's timeline.
type Timeline struct {
	Source   string
	Kind     TimelineKind
	Messages []Message
}

// DiscoverMessageFiles walks the archive root and returns every messages file
// found: every immediate subdirectory of root is a channel candidate holding an
// optional channel_messages.json and an optional threads/ directory whose
// immediate subdirectories each hold an optional thread_messages.json.
// Candidates missing the expected file or directory are skipped with a warning.
// All channel files are returned before any thread file.
func DiscoverMessageFiles(root string, log *slog.Logger) ([]MessageFile, error) {
	if log == nil {
		log = slog.Default()
	}

	channels, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("DiscoverMessageFiles: %w", err)
	}

	var threadDirs []string
	for _, ch := range channels {
		if !ch.IsDir() {
			continue
		}
		threads, err := os.ReadDir(filepath.Join(root, ch.Name(), threadsDirName))
		if err != nil {
			log.Warn("channel has no threads directory, skipping its threads", "channel", ch.Name())
			continue
		}
		for _, th := range threads {
			if th.IsDir() {
				threadDirs = append(threadDirs, filepath.Join(root, ch.Name(), threadsDirName, th.Name()))
			}
		}
	}

	var files []MessageFile
	for _, ch := range channels {
		if !ch.IsDir() {
			continue
		}
		path := filepath.Join(root, ch.Name(), channelMessagesFile)
		if !fileExists(path) {
			log.Warn("channel has no messages file, skipping", "channel", ch.Name())
			continue
		}
		files = append(files, MessageFile{Path: path, Kind: KindChannel})
	}
	for _, dir := range threadDirs {
		path := filepath.Join(dir, threadMessagesFile)
		if !fileExists(path) {
			log.Warn("thread has no messages file, skipping", "thread", dir)
			continue
		}
		files = append(files, MessageFile{Path: path, Kind: KindThread})
	}
	return files, nil
}

// LoadTimeline parses one messages file into a time-sorted Timeline.
//
// The file must hold a single JSON array of message objects. Elements are
// decoded one at a time so a large history never needs a second in-memory
// copy of its raw bytes. Any malformed element, or an element missing a
// required field, fails the whole file: a partially loaded history would
// silently distort every window built from it.
func LoadTimeline(path string, kind TimelineKind) (Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Timeline{}, fmt.Errorf("LoadTimeline: %w", err)
	}
	defer f.Close()

	// Exports are typically one huge line; use a larger buffer than default.
	dec := json.NewDecoder(bufio.NewReaderSize(f, 1<<20))

	tok, err := dec.Token()
	if err != nil {
		return Timeline{}, fmt.Errorf("LoadTimeline: %s: read first token: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return Timeline{}, fmt.Errorf("LoadTimeline: %s: expected top-level JSON array, got %v", path, tok)
	}

	var msgs []Message
	for dec.More() {
		var raw rawMessage
		if err := dec.Decode(&raw); err != nil {
			return Timeline{}, fmt.Errorf("LoadTimeline: %s: element %d: %w", path, len(msgs), err)
		}
		m, err := raw.message()
		if err != nil {
			return Timeline{}, fmt.Errorf("LoadTimeline: %s: element %d: %w", path, len(msgs), err)
		}
		msgs = append(msgs, m)
	}

	// Consume the closing ']'.
	if tok, err := dec.Token(); err != nil {
		return Timeline{}, fmt.Errorf("LoadTimeline: %s: read closing token: %w", path, err)
	} else if d, ok := tok.(json.Delim); !ok || d != ']' {
		return Timeline{}, fmt.Errorf("LoadTimeline: %s: expected closing ']', got %v", path, tok)
	}

	// Ties keep their original array order.
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	return Timeline{Source: path, Kind: kind, Messages: msgs}, nil
}

// LoadArchive discovers and parses every messages file under root, returning
// one Timeline per file. The context is checked between files.
func LoadArchive(ctx context.Context, root string, log *slog.Logger) ([]Timeline, error) {
	if ctx == nil {
		return nil, errors.New("LoadArchive: ctx is nil")
	}
	if root == "" {
		return nil, errors.New("LoadArchive: root is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	files, err := DiscoverMessageFiles(root, log)
	if err != nil {
		return nil, err
	}

	timelines := make([]Timeline, 0, len(files))
	for i, mf := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		log.Debug("parsing messages file", "file", mf.Path, "n", i+1, "total", len(files))

		start := time.Now()
		tl, err := LoadTimeline(mf.Path, mf.Kind)
		if err != nil {
			return nil, err
		}
		timelines = append(timelines, tl)

		log.Debug("parsed messages file",
			"file", mf.Path,
			"kind", mf.Kind,
			"n", i+1,
			"total", len(files),
			"messages", len(tl.Messages),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	return timelines, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
