package mining

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Snowflake is a 64-bit unsigned id as used for messages and authors.
// Archive exports carry ids either as JSON strings or as bare numbers,
// depending on the exporter version; both forms decode to the same value.
type Snowflake uint64

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("Snowflake: parse %s: %w", string(data), err)
	}
	*s = Snowflake(v)
	return nil
}

// ParseSnowflake parses the textual form of an id, as given on the command line.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ParseSnowflake: %q is not an unsigned 64-bit id", s)
	}
	return Snowflake(v), nil
}

// Message is the normalized in-memory form of one chat message.
type Message struct {
	ID        Snowflake
	Content   string    // empty means no textual content (attachment-only)
	Timestamp time.Time // UTC
	Author    Snowflake
	Reference *Snowflake // replied-to message id, nil when not a reply
}

// rawMessage mirrors the archive's per-message JSON shape. Required fields are
// pointers so an absent field is distinguishable from a zero value.
type rawMessage struct {
	ID               *Snowflake    `json:"id"`
	Content          *string       `json:"content"`
	Timestamp        *string       `json:"timestamp"`
	Author           *rawAuthor    `json:"author"`
	MessageReference *rawReference `json:"message_reference"`
}

type rawAuthor struct {
	ID *Snowflake `json:"id"`
}

// rawReference carries reply metadata. Only the referenced-message id is
// consulted; everything else the exporter puts here is ignored.
type rawReference struct {
	MessageID *Snowflake `json:"message_id"`
}

func (r rawMessage) message() (Message, error) {
	if r.ID == nil {
		return Message{}, errors.New("missing id")
	}
	if r.Content == nil {
		return Message{}, errors.New("missing content")
	}
	if r.Timestamp == nil {
		return Message{}, errors.New("missing timestamp")
	}
	if r.Author == nil || r.Author.ID == nil {
		return Message{}, errors.New("missing author.id")
	}

	ts, err := parseTimestamp(*r.Timestamp)
	if err != nil {
		return Message{}, err
	}

	m := Message{
		ID:        *r.ID,
		Content:   *r.Content,
		Timestamp: ts,
		Author:    *r.Author.ID,
	}
	if r.MessageReference != nil && r.MessageReference.MessageID != nil {
		ref := *r.MessageReference.MessageID
		m.Reference = &ref
	}
	return m, nil
}

// timestampLayouts covers the forms seen across exporter versions. Fractional
// seconds are accepted by time.Parse for all of them even when the layout has
// none. Layouts without a zone are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parseTimestamp: unrecognized timestamp %q", s)
}
