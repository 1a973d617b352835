package video

import (
	"fmt"
	"os"
	"strings"
)

// Caption is one narration segment with absolute timestamps in the
// assembled video.
type Caption struct {
	Text  string
	Start float64
	End   float64
}

// BuildCaptions lays scene subtitles end to end on the video timeline.
// durations[i] is the narration length of texts[i]; both slices follow
// scene order.
func BuildCaptions(texts []string, durations []float64) []Caption {
	captions := make([]Caption, 0, len(texts))
	offset := 0.0
	for i, text := range texts {
		d := 0.0
		if i < len(durations) {
			d = durations[i]
		}
		captions = append(captions, Caption{
			Text:  strings.TrimSpace(text),
			Start: offset,
			End:   offset + d,
		})
		offset += d
	}
	return captions
}

// WriteSRT persists the captions as a SubRip file, for callers that
// want the timing track as a standalone export rather than burned in.
func WriteSRT(captions []Caption, path string) error {
	var b strings.Builder
	for i, c := range captions {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(c.Start), FormatTimestamp(c.End))
		fmt.Fprintf(&b, "%s\n\n", c.Text)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

const assHeader = `[Script Info]
ScriptType: v4.00+
PlayResX: 720
PlayResY: 1280

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Narration,Titan One,70,&H0000FFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,3,1,5,70,70,70,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

// WriteASS renders the captions as a karaoke subtitle track: each word
// flips from white to yellow as it is spoken, word timing spread evenly
// across the caption's narration.
func WriteASS(captions []Caption, path string) error {
	var b strings.Builder
	b.WriteString(assHeader)

	for _, c := range captions {
		words := strings.Fields(c.Text)
		if len(words) == 0 || c.End <= c.Start {
			continue
		}
		perWord := (c.End - c.Start) * 100 / float64(len(words))

		var line strings.Builder
		for i, word := range words {
			if i > 0 {
				line.WriteByte(' ')
			}
			fmt.Fprintf(&line, "{\\k%d}%s", int(perWord+0.5), word)
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Narration,,0,0,0,,%s\n",
			assTimestamp(c.Start), assTimestamp(c.End), line.String())
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// assTimestamp renders seconds as an ASS timestamp, "H:MM:SS.cc".
func assTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalCentis := int(seconds*100 + 0.5)
	centis := totalCentis % 100
	total := totalCentis / 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", total/3600, (total%3600)/60, total%60, centis)
}
