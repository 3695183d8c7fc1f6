package caption

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aheeb/transcriptor/internal/timecode"
)

// Caption is a timed text annotation belonging to a video. Start and end
// times are carried in the HH:MM:SS,mmm text notation; ordering by start
// time is the canonical display order. Overlap between captions is allowed.
type Caption struct {
	ID        int64  `json:"id"`
	VideoID   int64  `json:"videoId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Text      string `json:"text"`
	Style     *Style `json:"style,omitempty"`
}

// Position is a normalized screen-relative placement, origin top-left,
// both axes in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style is the optional visual payload of a caption. An absent style means
// the default bottom-center placement.
type Style struct {
	FontSize  string    `json:"fontSize,omitempty"`
	Color     string    `json:"color,omitempty"`
	Alignment string    `json:"alignment,omitempty"`
	Anchor    string    `json:"anchor,omitempty"`
	Position  *Position `json:"position,omitempty"`
}

var (
	ErrInvalidRange = errors.New("caption start time must be before end time")
	ErrEmptyText    = errors.New("caption text must not be empty")
)

// Start parses the caption's start time.
func (c Caption) Start() (timecode.TimeCode, error) {
	return timecode.Parse(c.StartTime)
}

// End parses the caption's end time.
func (c Caption) End() (timecode.TimeCode, error) {
	return timecode.Parse(c.EndTime)
}

// ValidateRange rejects unparseable time codes and ranges where the start
// does not strictly precede the end.
func ValidateRange(startTime, endTime string) error {
	start, err := timecode.Parse(startTime)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timecode.Parse(endTime)
	if err != nil {
		return fmt.Errorf("invalid end time: %w", err)
	}
	if !start.Less(end) {
		return ErrInvalidRange
	}
	return nil
}

// Validate checks the invariants an edit must preserve: a well-formed,
// ordered time range and non-empty text.
func (c Caption) Validate() error {
	if err := ValidateRange(c.StartTime, c.EndTime); err != nil {
		return err
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// MarshalStyle serializes the style payload for storage. A nil style
// serializes to the empty string.
func MarshalStyle(s *Style) (string, error) {
	if s == nil {
		return "", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal caption style: %w", err)
	}
	return string(data), nil
}

// UnmarshalStyle parses a stored style payload. Empty input yields nil.
func UnmarshalStyle(data string) (*Style, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var s Style
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse caption style: %w", err)
	}
	return &s, nil
}
