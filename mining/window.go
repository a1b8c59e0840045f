package mining

import (
	"strings"
	"time"
)

const (
	// maxContextLines caps how many prior messages a prompt may contain.
	maxContextLines = 5

	// contextWindow is how far before the resolved reference time a message
	// may sit and still qualify as prompt context.
	contextWindow = 10 * time.Minute
)

// WindowReplies scans one time-sorted message sequence and produces a training
// pair for every non-empty message by author that has usable prior context.
//
// Context for a reply is gathered by walking backward from the message before
// it (or from the referenced message, when the reply's reference resolves to an
// earlier position in the sequence). The walk stops at the first message
// authored by the target, at the first message older than contextWindow
// relative to the resolved reference time, after maxContextLines lines have
// been collected, or upon reaching the first position of the sequence, which
// is itself never inspected. Empty-content messages inside the walk consume a
// step but contribute no line. A reply with no collected context produces no
// pair.
func WindowReplies(msgs []Message, author Snowflake) []Pair {
	var pairs []Pair
	for i := range msgs {
		if msgs[i].Author != author || msgs[i].Content == "" {
			continue
		}
		prompt, ok := contextPrompt(msgs, i, author)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Prompt: prompt, Reply: msgs[i].Content})
	}
	return pairs
}

// contextPrompt assembles the newline-joined, oldest-first prompt for the
// reply at position i, reporting false when no context qualifies.
func contextPrompt(msgs []Message, i int, author Snowflake) (string, bool) {
	if i == 0 {
		return "", false
	}

	cursor := i - 1
	refTime := msgs[i].Timestamp

	// A resolvable reference re-anchors both the walk position and the time
	// cutoff at the referenced message. An id that matches nothing earlier
	// falls back silently to previous-message context. The scan stops short
	// of position i-1; the walk itself still reaches that message.
	if ref := msgs[i].Reference; ref != nil {
		for j := 0; j < i-1; j++ {
			if msgs[j].ID == *ref {
				cursor = j
				refTime = msgs[j].Timestamp
				break
			}
		}
	}

	var lines []string
	for cursor != 0 && len(lines) < maxContextLines &&
		msgs[cursor].Author != author &&
		refTime.Sub(msgs[cursor].Timestamp) <= contextWindow {
		if msgs[cursor].Content != "" {
			lines = append(lines, msgs[cursor].Content)
		}
		cursor--
	}
	if len(lines) == 0 {
		return "", false
	}

	// Collected newest-first; reverse to oldest-first.
	for a, b := 0, len(lines)-1; a < b; a, b = a+1, b-1 {
		lines[a], lines[b] = lines[b], lines[a]
	}
	return strings.Join(lines, "\n"), true
}
