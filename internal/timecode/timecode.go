package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeCode is a point in playback time, measured in seconds from the start
// of a video. The text notation is HH:MM:SS,mmm with zero-padded fields and
// three millisecond digits.
type TimeCode float64

// Parse converts the HH:MM:SS,mmm notation into a TimeCode. A missing
// millisecond segment is tolerated and treated as zero; non-numeric fields
// are an error.
func Parse(text string) (TimeCode, error) {
	base, msPart, hasMillis := strings.Cut(strings.TrimSpace(text), ",")

	parts := strings.Split(base, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time code %q: expected HH:MM:SS,mmm", text)
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hours in time code %q", text)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in time code %q", text)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in time code %q", text)
	}

	millis := 0
	if hasMillis {
		millis, err = strconv.Atoi(strings.TrimSpace(msPart))
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds in time code %q", text)
		}
	}

	total := float64(hours)*3600 + float64(minutes)*60 + float64(seconds) +
		float64(millis)/1000

	return TimeCode(total), nil
}

// FromSeconds wraps a raw seconds value.
func FromSeconds(seconds float64) TimeCode {
	return TimeCode(seconds)
}

// Seconds returns the underlying seconds value.
func (t TimeCode) Seconds() float64 {
	return float64(t)
}

// Less reports whether t is strictly before o.
func (t TimeCode) Less(o TimeCode) bool {
	return t < o
}

// String renders the HH:MM:SS,mmm notation. Sub-millisecond drift is
// truncated, never rounded.
func (t TimeCode) String() string {
	millis := t.totalMillis()

	hours := millis / 3600000
	minutes := (millis % 3600000) / 60000
	seconds := (millis % 60000) / 1000
	ms := millis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

// Millis returns the whole-millisecond count, truncated.
func (t TimeCode) Millis() int64 {
	return t.totalMillis()
}

func (t TimeCode) totalMillis() int64 {
	if t < 0 {
		return 0
	}
	// The epsilon absorbs binary representation error so that values parsed
	// from exact millisecond text survive the round trip; genuine
	// sub-millisecond amounts are still floored.
	return int64(math.Floor(float64(t)*1000 + 1e-6))
}
