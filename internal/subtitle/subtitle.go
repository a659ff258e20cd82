package subtitle

import (
	"strings"
)

// one timed subtitle entry; times are seconds on the media clock
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// display lines of the cue text
func (c Cue) Lines() []string {
	return strings.Split(c.Text, "\n")
}

func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// reports whether t falls inside the closed window [Start, End]
func (c Cue) Contains(t float64) bool {
	return t >= c.Start && t <= c.End
}

// cue that can never be active because it ends before it starts
func (c Cue) Inverted() bool {
	return c.End < c.Start
}

// raw subtitle text together with its parsed cues
type Document struct {
	Raw  string
	Cues []Cue
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing cues to files
type Writer interface {
	Write(cues []Cue, path string) error
}

// interface for parsing subtitle documents
type Parser interface {
	Parse(document string) []Cue
}
