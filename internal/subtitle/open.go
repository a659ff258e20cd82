package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// reads and parses a local SubRip file; a nil parser uses defaults
func LoadFile(path string, parser Parser) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".srt" {
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	return NewDocument(Decode(data), parser), nil
}

// parses already decoded text
func NewDocument(raw string, parser Parser) *Document {
	if parser == nil {
		parser = &CueParser{}
	}
	return &Document{Raw: raw, Cues: parser.Parse(raw)}
}

// caption track for the raw document
func (d *Document) CaptionTrack() string {
	return ToCaptionTrack(d.Raw)
}
