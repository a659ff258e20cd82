package subtitle

import (
	"math"
	"testing"
)

func TestActiveCue(t *testing.T) {
	cues := []Cue{
		{Start: 1, End: 3, Text: "Hello world"},
		{Start: 4.5, End: 6, Text: "Second line"},
	}

	tests := []struct {
		name   string
		time   float64
		want   string
		wantOK bool
	}{
		{"before first", 0.5, "", false},
		{"start boundary", 1, "Hello world", true},
		{"inside", 2, "Hello world", true},
		{"end boundary", 3, "Hello world", true},
		{"gap", 4, "", false},
		{"second", 5, "Second line", true},
		{"after last", 10, "", false},
		{"not a number", math.NaN(), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ActiveCue(cues, tt.time)
			if ok != tt.wantOK {
				t.Fatalf("ActiveCue(%v) ok = %v, want %v", tt.time, ok, tt.wantOK)
			}
			if got.Text != tt.want {
				t.Errorf("ActiveCue(%v) = %q, want %q", tt.time, got.Text, tt.want)
			}
		})
	}
}

func TestActiveCueFirstMatchWins(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: 5, Text: "A"},
		{Start: 2, End: 8, Text: "B"},
	}

	cue, ok := ActiveCue(cues, 3)
	if !ok || cue.Text != "A" {
		t.Errorf("expected A, got %q (ok=%v)", cue.Text, ok)
	}

	cue, ok = ActiveCue(cues, 6)
	if !ok || cue.Text != "B" {
		t.Errorf("expected B, got %q (ok=%v)", cue.Text, ok)
	}
}

func TestActiveCueOutsideAllWindows(t *testing.T) {
	cues := []Cue{{Start: 0, End: 5, Text: "A"}}
	if _, ok := ActiveCue(cues, 10); ok {
		t.Error("expected no active cue")
	}
	if _, ok := ActiveCue(nil, 1); ok {
		t.Error("expected no active cue for empty list")
	}
}

func TestActiveText(t *testing.T) {
	cues := ParseCues(twoCueDocument)
	if got := ActiveText(cues, 5.25); got != "Second line" {
		t.Errorf("ActiveText = %q, want %q", got, "Second line")
	}
	if got := ActiveText(cues, 3.5); got != "" {
		t.Errorf("ActiveText = %q, want empty", got)
	}
}
