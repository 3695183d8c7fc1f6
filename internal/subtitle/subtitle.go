package subtitle

import (
	"time"
)

// represents a transcribed span of speech
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Resolution is the pixel size of the target video frame.
type Resolution struct {
	Width  int
	Height int
}

// Fallback frame size used when the source video cannot be probed.
var DefaultResolution = Resolution{Width: 1920, Height: 1080}
