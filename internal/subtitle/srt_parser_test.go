package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoCueDocument = `1
00:00:01,000 --> 00:00:03,000
Hello world

2
00:00:04,500 --> 00:00:06,000
Second line
`

func TestParseCues(t *testing.T) {
	cues := ParseCues(twoCueDocument)

	want := []Cue{
		{Start: 1, End: 3, Text: "Hello world"},
		{Start: 4.5, End: 6, Text: "Second line"},
	}
	if len(cues) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(cues))
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Errorf("cue %d: got %+v, want %+v", i, cues[i], want[i])
		}
	}
}

func TestParseCuesMultilineText(t *testing.T) {
	doc := "1\n00:00:05,500 --> 00:00:08,200\nThis is a test.\nWith multiple lines.\n"
	cues := ParseCues(doc)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}

	expectedText := "This is a test.\nWith multiple lines."
	if cues[0].Text != expectedText {
		t.Errorf("expected %q, got %q", expectedText, cues[0].Text)
	}
	if lines := cues[0].Lines(); len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
}

func TestParseCuesSkipsMalformedBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{
			name: "empty document",
			doc:  "",
			want: 0,
		},
		{
			name: "whitespace only",
			doc:  "\n\n   \n\t\n",
			want: 0,
		},
		{
			name: "block without text",
			doc:  "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nkept\n",
			want: 1,
		},
		{
			name: "missing arrow",
			doc:  "1\n00:00:01,000 - 00:00:02,000\ntext\n",
			want: 0,
		},
		{
			name: "arrow without surrounding spaces",
			doc:  "1\n00:00:01,000-->00:00:02,000\ntext\n",
			want: 0,
		},
		{
			name: "bad timestamp",
			doc:  "1\n00:00:xx,000 --> 00:00:02,000\nbad\n\n2\n00:00:03,000 --> 00:00:04,000\ngood\n",
			want: 1,
		},
		{
			name: "trailing blank blocks",
			doc:  twoCueDocument + "\n\n\n   \n",
			want: 2,
		},
		{
			name: "several blank lines between blocks",
			doc:  "1\n00:00:01,000 --> 00:00:02,000\na\n\n\n\n2\n00:00:03,000 --> 00:00:04,000\nb\n",
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCues(tt.doc)
			if len(got) != tt.want {
				t.Errorf("expected %d cues, got %d (%+v)", tt.want, len(got), got)
			}
		})
	}
}

func TestParseCuesPreservesSourceOrder(t *testing.T) {
	doc := `1
00:00:10,000 --> 00:00:12,000
late

2
00:00:01,000 --> 00:00:02,000
early
`
	cues := ParseCues(doc)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "late" || cues[1].Text != "early" {
		t.Errorf("cues reordered: %+v", cues)
	}
}

func TestParseCuesWindowsNewlinesAndBOM(t *testing.T) {
	doc := "\ufeff" + strings.ReplaceAll(twoCueDocument, "\n", "\r\n")
	cues := ParseCues(doc)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", cues[0].Text)
	}
	if cues[1].End != 6 {
		t.Errorf("expected end 6, got %v", cues[1].End)
	}
}

func TestParseCuesIgnoresCueSettings(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:02,000 X1:100 X2:200\npositioned\n"
	cues := ParseCues(doc)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].End != 2 {
		t.Errorf("expected end 2, got %v", cues[0].End)
	}
}

func TestParseCuesBlankLineInsideTextFragments(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:04,000\nfirst half\n\nsecond half\n"
	cues := ParseCues(doc)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "first half" {
		t.Errorf("expected only the first fragment, got %q", cues[0].Text)
	}
}

func TestCueParserInvertedCues(t *testing.T) {
	doc := "1\n00:00:05,000 --> 00:00:01,000\nbackwards\n\n2\n00:00:06,000 --> 00:00:07,000\nforwards\n"

	lenient := ParseCues(doc)
	if len(lenient) != 2 {
		t.Fatalf("default parser: expected 2 cues, got %d", len(lenient))
	}
	if !lenient[0].Inverted() {
		t.Errorf("expected first cue to be inverted")
	}
	if _, ok := ActiveCue(lenient[:1], 3); ok {
		t.Errorf("inverted cue should never be active")
	}

	var skipped []SkippedBlock
	strict := &CueParser{
		DropInverted: true,
		OnSkip: func(b SkippedBlock) {
			skipped = append(skipped, b)
		},
	}
	cues := strict.Parse(doc)
	if len(cues) != 1 || cues[0].Text != "forwards" {
		t.Fatalf("strict parser: unexpected cues %+v", cues)
	}
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped block, got %d", len(skipped))
	}
	if skipped[0].Reason != SkipInverted || skipped[0].Ordinal != 1 {
		t.Errorf("unexpected skip report %+v", skipped[0])
	}
}

func TestCueParserReportsSkips(t *testing.T) {
	doc := "1\n00:00:01,000 --> 00:00:02,000\nok\n\njunk\n\n3\n00:00:aa,000 --> 00:00:04,000\nbad\n"

	reasons := map[int]SkipReason{}
	parser := &CueParser{OnSkip: func(b SkippedBlock) {
		reasons[b.Ordinal] = b.Reason
	}}
	cues := parser.Parse(doc)

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if reasons[2] != SkipTooShort {
		t.Errorf("block 2: expected %s, got %q", SkipTooShort, reasons[2])
	}
	if reasons[3] != SkipBadTimestamp {
		t.Errorf("block 3: expected %s, got %q", SkipBadTimestamp, reasons[3])
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(twoCueDocument), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	doc, err := LoadFile(srtPath, nil)
	if err != nil {
		t.Fatalf("failed to load SRT file: %v", err)
	}
	if len(doc.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(doc.Cues))
	}
	if doc.Raw != twoCueDocument {
		t.Errorf("raw document not preserved")
	}
	if !strings.HasPrefix(doc.CaptionTrack(), "WEBVTT\n\n") {
		t.Errorf("caption track missing header")
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	txtPath := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(txtPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFile(txtPath, nil)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}
}
