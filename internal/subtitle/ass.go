package subtitle

import (
	"fmt"
	"math"
	"strings"

	"github.com/aheeb/transcriptor/internal/caption"
	"github.com/aheeb/transcriptor/internal/timecode"
)

// RenderASS converts a caption set into an Advanced SubStation Alpha script
// for the burn-in step. PlayResX/PlayResY come from the target resolution so
// normalized caption positions map onto the actual frame. One shared Default
// style covers every caption; per-caption style beyond position is not
// propagated into the script.
//
// Captions whose time range fails to parse are skipped; dialogue entries are
// independently time-scoped, so emission order does not have to match
// timeline order.
func RenderASS(captions []caption.Caption, res Resolution) string {
	if res.Width <= 0 || res.Height <= 0 {
		res = DefaultResolution
	}

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", res.Width))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n\n", res.Height))

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString("Style: Default,Arial,48,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,2,3,2,10,10,10,1\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, c := range captions {
		start, err := c.Start()
		if err != nil {
			continue
		}
		end, err := c.End()
		if err != nil {
			continue
		}

		var pos string
		if c.Style != nil && c.Style.Position != nil {
			x := int(math.Round(c.Style.Position.X * float64(res.Width)))
			y := int(math.Round(c.Style.Position.Y * float64(res.Height)))
			pos = fmt.Sprintf("{\\pos(%d,%d)}", x, y)
		}

		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s%s\n",
			formatASSTime(start),
			formatASSTime(end),
			pos,
			escapeASSText(c.Text)))
	}

	return sb.String()
}

// formatASSTime renders H:MM:SS.cc, hours unpadded, centiseconds by integer
// truncation of the millisecond count.
func formatASSTime(t timecode.TimeCode) string {
	millis := t.Millis()

	hours := millis / 3600000
	minutes := (millis % 3600000) / 60000
	seconds := (millis % 60000) / 1000
	centis := (millis % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// escapeASSText neutralizes characters the ASS grammar treats as control
// sequences before user text is interpolated into a dialogue line.
func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}
