package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the cues to an SRT file
func (w *SRTWriter) Write(cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(FormatSRTDocument(cues)), 0644)
}

// writes the cues to a VTT file
func (w *VTTWriter) Write(cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(FormatVTTDocument(cues)), 0644)
}

// renumbered SubRip document for cues
func FormatSRTDocument(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatTimecode(cue.Start, ','))
		sb.WriteString(arrow)
		sb.WriteString(FormatTimecode(cue.End, ','))
		sb.WriteString("\n")

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// WebVTT document for cues, without cue identifiers
func FormatVTTDocument(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString(vttHeader)
	sb.WriteString("\n\n")

	for _, cue := range cues {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(FormatTimecode(cue.Start, '.'))
		sb.WriteString(arrow)
		sb.WriteString(FormatTimecode(cue.End, '.'))
		sb.WriteString("\n")

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vtt":
		return FormatVTT
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
