package subtitle

import (
	"regexp"
	"strings"
)

// separator between the start and end timestamps of a timing line
const arrow = " --> "

var blockSeparator = regexp.MustCompile(`\n\s*\n`)

// why a block did not become a cue
type SkipReason string

const (
	SkipTooShort     SkipReason = "too_short"
	SkipNoTiming     SkipReason = "no_timing_line"
	SkipBadTimestamp SkipReason = "bad_timestamp"
	SkipInverted     SkipReason = "inverted"
)

// block rejected by the parser, reported through CueParser.OnSkip
type SkippedBlock struct {
	Ordinal int // 1-based position among blank-line separated blocks
	Reason  SkipReason
	Detail  string
}

// Parses SubRip documents into cues. Blocks are separated by blank lines
// and need an index line, a timing line and at least one text line.
//
// Cue text that itself contains a blank line is split into two blocks; the
// second fragment has no timing line and is dropped.
type CueParser struct {
	// drop cues whose end precedes their start instead of keeping them inert
	DropInverted bool
	// optional hook for rejected blocks
	OnSkip func(SkippedBlock)
}

// parses with default options
func ParseCues(document string) []Cue {
	return (&CueParser{}).Parse(document)
}

func (p *CueParser) Parse(document string) []Cue {
	document = normalizeNewlines(document)

	var cues []Cue
	for i, block := range blockSeparator.Split(document, -1) {
		cue, reason, detail := parseBlock(block)
		if reason == "" && p.DropInverted && cue.Inverted() {
			reason = SkipInverted
			detail = FormatTimecode(cue.Start, ',') + arrow + FormatTimecode(cue.End, ',')
		}
		if reason != "" {
			p.skip(SkippedBlock{Ordinal: i + 1, Reason: reason, Detail: detail})
			continue
		}
		cues = append(cues, cue)
	}
	return cues
}

func (p *CueParser) skip(block SkippedBlock) {
	if p.OnSkip != nil {
		p.OnSkip(block)
	}
}

func parseBlock(block string) (Cue, SkipReason, string) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 3 {
		return Cue{}, SkipTooShort, ""
	}

	// lines[0] is the cue index and carries no information
	timing := lines[1]
	startText, endText, ok := strings.Cut(timing, arrow)
	if !ok {
		return Cue{}, SkipNoTiming, timing
	}

	start, err := ParseTimecode(startText)
	if err != nil {
		return Cue{}, SkipBadTimestamp, err.Error()
	}
	// the end stamp may be followed by cue settings
	if fields := strings.Fields(endText); len(fields) > 0 {
		endText = fields[0]
	}
	end, err := ParseTimecode(endText)
	if err != nil {
		return Cue{}, SkipBadTimestamp, err.Error()
	}

	return Cue{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, "", ""
}

func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
