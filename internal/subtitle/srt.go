package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawCue is a single parsed subtitle block, before tokenization.
type RawCue struct {
	Index     int
	StartTime string // "HH:MM:SS,mmm"
	EndTime   string
	Text      string
}

var timestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[.,]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[.,]\d{3})`)
var tagRe = regexp.MustCompile(`<[^>]+>`)

// ParseSRT parses SRT content into raw cues. Malformed input degrades to
// whatever blocks could be recovered — worst case an empty slice, never
// an error. The player must keep running on bad subtitle files.
func ParseSRT(content string) []RawCue {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []RawCue
	var current *RawCue
	index := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil && current.Text != "" {
				cues = append(cues, *current)
				current = nil
			}
			continue
		}

		if matches := timestampRe.FindStringSubmatch(line); len(matches) == 3 {
			if current != nil && current.Text != "" {
				cues = append(cues, *current)
			}
			index++
			current = &RawCue{
				Index:     index,
				StartTime: matches[1],
				EndTime:   matches[2],
			}
			continue
		}

		// Skip cue sequence numbers (pure digits)
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}

	if current != nil && current.Text != "" {
		cues = append(cues, *current)
	}

	return cues
}

// ToSeconds converts an "HH:MM:SS,mmm" timestamp to seconds. Both the
// SRT comma and the VTT dot millisecond separator are accepted.
func ToSeconds(ts string) float64 {
	ts = strings.Replace(ts, ",", ".", 1)
	var h, m, s, ms int
	fmt.Sscanf(ts, "%d:%d:%d.%d", &h, &m, &s, &ms)
	return float64(h*3600+m*60+s) + float64(ms)/1000.0
}

// StripMarkup removes inline tags (<i>, <font>, ...) from cue text.
func StripMarkup(text string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(text, ""))
}
