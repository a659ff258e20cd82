package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/subtitle"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert an SRT file to a WebVTT caption track",
	Long: `Convert an SRT file to WebVTT line by line: index lines are dropped and
the comma in each timing line becomes a period. Everything else is kept
as written.

Examples:
  whiscribe convert movie.srt
  whiscribe convert movie.srt -o movie.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")

	doc, err := subtitle.LoadFile(inputPath, newCueParser(inputPath))
	if err != nil {
		return fmt.Errorf("failed to load subtitles: %w", err)
	}
	track := doc.CaptionTrack()

	if outputPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), track)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(track), 0644); err != nil {
		return fmt.Errorf("failed to write caption track: %w", err)
	}

	logger.Infow("Converted subtitles",
		"input", inputPath,
		"output", outputPath,
		"cues", len(doc.Cues),
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Caption track written: %s\n", absOutput)
	return nil
}
