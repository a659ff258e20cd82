package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/media"
	"github.com/whiscribe/whiscribe/internal/subtitle"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream as an .srt file",
	Long: `Extract a text subtitle stream from a video container and save it as
an .srt file next to the video, where playback will find it.

Bitmap subtitle streams (PGS, VobSub) cannot be converted.

Examples:
  whiscribe extract movie.mkv
  whiscribe extract movie.mp4 --list
  whiscribe extract movie.mkv --language fre -o movie.srt
  whiscribe extract movie.mkv --stream 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream number, counting subtitle streams only")
	extractCmd.Flags().
		StringP("language", "l", "", "Prefer the first text stream tagged with this language")
	extractCmd.Flags().
		Bool("list", false, "List the subtitle streams and exit")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	videoPath := args[0]

	stream, _ := cmd.Flags().GetInt("stream")
	language, _ := cmd.Flags().GetString("language")
	list, _ := cmd.Flags().GetBool("list")
	outputPath, _ := cmd.Flags().GetString("output")

	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}
	if outputPath == "" {
		outputPath = media.CompanionPath(videoPath)
	}

	streams, err := media.SubtitleStreams(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("failed to probe subtitle streams: %w", err)
	}

	out := cmd.OutOrStdout()
	if list {
		if len(streams) == 0 {
			fmt.Fprintln(out, "No subtitle streams")
			return nil
		}
		fmt.Fprintln(out, renderStreams(streams, themeFor(out)))
		return nil
	}

	selected, err := media.SelectStream(streams, media.ExtractOptions{Stream: stream, Language: language})
	if err != nil {
		return err
	}

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"stream", selected.Index,
		"codec", selected.Codec,
		"language", selected.Language,
	)

	if err := media.ExtractSubtitle(ctx, videoPath, outputPath, selected); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	doc, err := subtitle.LoadFile(outputPath, newCueParser(outputPath))
	if err != nil {
		return fmt.Errorf("failed to read extracted subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(out, "Subtitles extracted successfully: %s (%d cues)\n", absOutput, len(doc.Cues))

	return nil
}

func renderStreams(streams []media.SubtitleStream, theme tableTheme) string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		kind := "text"
		if !s.IsText() {
			kind = "bitmap"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Position),
			strconv.Itoa(s.Index),
			s.Codec,
			kind,
			s.Language,
			s.Title,
		})
	}
	return renderTable(
		[]string{"Stream", "Index", "Codec", "Type", "Language", "Title"},
		rows,
		[]columnAlignment{alignRight, alignRight},
		theme,
	)
}
