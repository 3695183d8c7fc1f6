package caption

import (
	"strings"

	"github.com/aheeb/transcriptor/internal/timecode"
)

const timeRangeSeparator = " --> "

// ParseTranscript converts a block-structured SubRip transcript into an
// ordered sequence of captions. Blocks are separated by a blank line; a
// block needs an index line, a time-range line and at least one text line
// to be accepted. Malformed blocks are skipped silently, so an empty or
// unparseable transcript yields an empty slice rather than an error.
//
// Identities are assigned sequentially starting at 1 in block order. They
// are transcript-local; the caller remaps them when persisting.
func ParseTranscript(blob string) []Caption {
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	blob = strings.TrimPrefix(blob, "\uFEFF")

	var captions []Caption
	for _, block := range strings.Split(strings.TrimSpace(blob), "\n\n") {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		startText, endText, ok := strings.Cut(lines[1], timeRangeSeparator)
		if !ok {
			continue
		}
		startText = strings.TrimSpace(startText)
		endText = strings.TrimSpace(endText)

		if _, err := timecode.Parse(startText); err != nil {
			continue
		}
		if _, err := timecode.Parse(endText); err != nil {
			continue
		}

		captions = append(captions, Caption{
			ID:        int64(len(captions) + 1),
			StartTime: startText,
			EndTime:   endText,
			Text:      strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}

	return captions
}
