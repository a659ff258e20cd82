package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/subtitle"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [subtitle_file]",
	Short: "List the cues of an SRT file",
	Long: `Parse an SRT file and list its cues with start and end times.

Malformed blocks are skipped; run with --verbose to see why.

Examples:
  whiscribe cues movie.srt
  whiscribe cues movie.srt --at 83.5
  whiscribe cues movie.srt -o clean.srt
  whiscribe cues movie.srt -o movie.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	cuesCmd.Flags().
		Float64("at", -1, "Print only the caption shown at this time in seconds")
}

// parser honoring config, reporting skipped blocks to the debug log
func newCueParser(source string) *subtitle.CueParser {
	return &subtitle.CueParser{
		DropInverted: cfg.Subtitles.DropInvertedCues,
		OnSkip: func(block subtitle.SkippedBlock) {
			logger.Debugw("Skipped subtitle block",
				"file", source,
				"block", block.Ordinal,
				"reason", block.Reason,
				"detail", block.Detail,
			)
		},
	}
}

func runCues(cmd *cobra.Command, args []string) error {
	path := args[0]
	at, _ := cmd.Flags().GetFloat64("at")
	outputPath, _ := cmd.Flags().GetString("output")

	doc, err := subtitle.LoadFile(path, newCueParser(path))
	if err != nil {
		return fmt.Errorf("failed to load subtitles: %w", err)
	}

	logger.Debugw("Parsed subtitles",
		"file", path,
		"cues", len(doc.Cues),
	)

	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("at") {
		if text := subtitle.ActiveText(doc.Cues, at); text != "" {
			fmt.Fprintln(out, text)
		}
		return nil
	}

	if outputPath != "" {
		format := subtitle.GetFormatFromExtension(outputPath)
		writer, err := subtitle.NewWriter(format)
		if err != nil {
			return err
		}
		if err := writer.Write(doc.Cues, outputPath); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Fprintf(out, "Wrote %d cues to %s\n", len(doc.Cues), absOutput)
		return nil
	}

	if len(doc.Cues) == 0 {
		fmt.Fprintln(out, "No cues found")
		return nil
	}

	rows := make([][]string, 0, len(doc.Cues))
	for i, cue := range doc.Cues {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			subtitle.FormatTimecode(cue.Start, ','),
			subtitle.FormatTimecode(cue.End, ','),
			strings.Join(cue.Lines(), " / "),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		themeFor(out),
	))
	return nil
}
