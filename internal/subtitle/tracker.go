package subtitle

// Returns the first cue, in stored order, whose window contains t.
// Overlapping cues resolve to the earliest one in the slice; the slice is
// not assumed to be sorted.
func ActiveCue(cues []Cue, t float64) (Cue, bool) {
	for _, cue := range cues {
		if cue.Contains(t) {
			return cue, true
		}
	}
	return Cue{}, false
}

// text of the active cue, or "" when nothing is showing
func ActiveText(cues []Cue, t float64) string {
	cue, ok := ActiveCue(cues, t)
	if !ok {
		return ""
	}
	return cue.Text
}
