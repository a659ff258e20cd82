package subtitle

import (
	"regexp"
	"strings"
)

// first line of every WebVTT caption track
const vttHeader = "WEBVTT"

var indexLine = regexp.MustCompile(`^\d+$`)

// Rewrites a SubRip document into a WebVTT caption track line by line.
// Index lines are dropped, timing lines get period decimal separators and
// every other line is copied unchanged. No cue validation happens here.
func ToCaptionTrack(document string) string {
	var sb strings.Builder
	sb.Grow(len(document) + len(vttHeader) + 2)

	sb.WriteString(vttHeader)
	sb.WriteString("\n\n")

	document = strings.TrimPrefix(document, "\ufeff")
	for _, line := range strings.Split(document, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if indexLine.MatchString(line) {
			continue
		}
		if strings.Contains(line, "-->") {
			line = strings.ReplaceAll(line, ",", ".")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
