package caption

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aheeb/transcriptor/internal/timecode"
)

var ErrSplitPoint = errors.New("split point must fall strictly inside the caption's time range")

// CursorTimestamp maps a text cursor offset (counted in runes) to a
// timestamp inside the caption's time span by linear interpolation. The
// mapping assumes uniform reading speed across the text; it is an
// approximation, not an exact alignment.
func CursorTimestamp(c Caption, offset int) (timecode.TimeCode, error) {
	start, err := c.Start()
	if err != nil {
		return 0, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := c.End()
	if err != nil {
		return 0, fmt.Errorf("invalid end time: %w", err)
	}

	runes := []rune(c.Text)
	if len(runes) == 0 {
		return 0, fmt.Errorf("cannot place a cursor in empty caption text")
	}
	if offset < 0 || offset > len(runes) {
		return 0, fmt.Errorf("cursor offset %d out of range (0-%d)", offset, len(runes))
	}

	progress := float64(offset) / float64(len(runes))
	return start + timecode.TimeCode((end-start).Seconds()*progress), nil
}

// Split divides one caption into two at the given cursor. The first half
// keeps the original identity and start time and ends at the cursor; the
// second half gets a negative placeholder identity, spans cursor to the
// original end, and starts over with a centered-middle placement. Both
// texts are trimmed of surrounding whitespace.
//
// The cursor must fall strictly between the caption's start and end, and
// neither half may end up with empty text. The caller persists the first
// half as an update in place and the second as a new record.
func Split(c Caption, offset int, cursor timecode.TimeCode) (Caption, Caption, error) {
	start, err := c.Start()
	if err != nil {
		return Caption{}, Caption{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := c.End()
	if err != nil {
		return Caption{}, Caption{}, fmt.Errorf("invalid end time: %w", err)
	}

	if !start.Less(cursor) || !cursor.Less(end) {
		return Caption{}, Caption{}, ErrSplitPoint
	}

	runes := []rune(c.Text)
	if offset < 0 || offset > len(runes) {
		return Caption{}, Caption{}, fmt.Errorf("split offset %d out of range (0-%d)", offset, len(runes))
	}

	before := strings.TrimSpace(string(runes[:offset]))
	after := strings.TrimSpace(string(runes[offset:]))
	if before == "" || after == "" {
		return Caption{}, Caption{}, ErrEmptyText
	}

	first := c
	first.EndTime = cursor.String()
	first.Text = before

	second := Caption{
		ID:        placeholderID(),
		VideoID:   c.VideoID,
		StartTime: cursor.String(),
		EndTime:   c.EndTime,
		Text:      after,
		Style: &Style{
			Position: &Position{X: 0.5, Y: 0.5},
		},
	}

	return first, second, nil
}

// ClampPosition saturates a normalized drop coordinate to [0,1] on both
// axes. Out-of-bounds pointer positions during a drag are clamped, never
// rejected.
func ClampPosition(x, y float64) Position {
	return Position{X: clamp01(x), Y: clamp01(y)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// placeholderID produces a locally-unique negative identity for a caption
// that has not been persisted yet. The store assigns the real identity.
func placeholderID() int64 {
	return -time.Now().UnixMilli()
}
