package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/library"
	"github.com/whiscribe/whiscribe/internal/resolve"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder | files...]",
	Short: "List playable media and whether each has subtitles",
	Long: `List the .mp3 and .mp4 files in a folder, or among the given files,
sorted by name. For each file the matching .srt is looked up the same
way playback does.

With no arguments the current directory is scanned.

Examples:
  whiscribe scan
  whiscribe scan ~/Music/podcasts --kind audio
  whiscribe scan ~/Videos -r
  whiscribe scan ep1.mp4 ep1.srt ep2.mp4`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addLibraryFlags(scanCmd)
}

// flags shared by commands that open a folder
func addLibraryFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("kind", "k", "", "Media to list: audio, video, or any (default from config)")
	cmd.Flags().
		BoolP("recursive", "r", false, "Include subfolders (default from config)")
}

// config values overridden by explicitly set flags
func scanOptions(cmd *cobra.Command) (library.ScanOptions, error) {
	opts := library.ScanOptions{
		Kind:      library.KindAny,
		Recursive: cfg.Library.Recursive,
		Logger:    logger,
	}

	kindValue := cfg.Library.Kind
	if cmd.Flags().Changed("kind") {
		kindValue, _ = cmd.Flags().GetString("kind")
	}
	kind, err := library.ParseKind(kindValue)
	if err != nil {
		return opts, err
	}
	opts.Kind = kind

	if cmd.Flags().Changed("recursive") {
		opts.Recursive, _ = cmd.Flags().GetBool("recursive")
	}
	return opts, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	caps, err := library.Probe(args)
	if err != nil {
		return err
	}

	logger.Debugw("Scanning media",
		"paths", args,
		"kind", opts.Kind,
		"recursive", opts.Recursive,
		"directory_access", caps.DirectoryAccess,
	)

	lib, err := library.Load(ctx, args, caps, opts)
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(lib.Media) == 0 {
		fmt.Fprintln(out, "No playable media found")
		return nil
	}

	var (
		rows      [][]string
		totalSize int64
		withSubs  int
	)
	for i, m := range lib.Media {
		status := "no"
		_, found, err := resolve.FindSubtitleText(ctx, resolve.BaseName(m.Name), lib.SubtitleSource(m))
		switch {
		case err != nil:
			logger.Warnw("Could not check subtitles",
				"media", m.Path,
				"error", err,
			)
			status = "error"
		case found:
			status = "yes"
			withSubs++
		}

		totalSize += m.Size
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.Name,
			m.Path,
			humanize.Bytes(uint64(m.Size)),
			status,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"#", "Name", "Path", "Size", "Subtitles"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		themeFor(out),
	))
	fmt.Fprintf(out, "%s files, %s, %d with subtitles\n",
		humanize.Comma(int64(len(lib.Media))),
		humanize.Bytes(uint64(totalSize)),
		withSubs,
	)
	return nil
}
