package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/whiscribe/whiscribe/internal/blob"
	"github.com/whiscribe/whiscribe/internal/library"
	"github.com/whiscribe/whiscribe/internal/media"
	"github.com/whiscribe/whiscribe/internal/player"
	"github.com/whiscribe/whiscribe/internal/subtitle"
)

var playCmd = &cobra.Command{
	Use:   "play [media_file] [files...]",
	Short: "Play a media file's captions in time",
	Long: `Select a media file and print its captions as playback advances.

The captions come from the .srt file with the same base name. It is looked
up next to the media file, in the folder given with --in, or among the
files listed after the media file.

Examples:
  whiscribe play track1.mp3
  whiscribe play ep1.mp4 --in ~/Videos/show --recursive
  whiscribe play track1.mp3 track1.srt --start 30
  whiscribe play movie.mp4 --track-out movie.vtt --duration 0.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addLibraryFlags(playCmd)

	playCmd.Flags().
		String("in", "", "Folder to find the media file and its subtitles in")
	playCmd.Flags().
		Float64("start", 0, "Start position in seconds")
	playCmd.Flags().
		Float64("duration", 0, "Seconds to play (default: until the media ends)")
	playCmd.Flags().
		Duration("tick", 0, "Playback sampling interval (default from config)")
	playCmd.Flags().
		String("track-out", "", "Write the generated WebVTT caption track to this path")
}

// the selected media file and where its bytes live on disk
type playTarget struct {
	lib       *library.Library
	media     library.MediaFile
	localPath string
}

func openPlayTarget(cmd *cobra.Command, args []string) (playTarget, error) {
	ctx := cmd.Context()
	folder, _ := cmd.Flags().GetString("in")
	target, rest := args[0], args[1:]

	opts, err := scanOptions(cmd)
	if err != nil {
		return playTarget{}, err
	}

	var (
		paths []string
		caps  library.Capabilities
		want  string
	)
	switch {
	case folder != "" && len(rest) > 0:
		return playTarget{}, errors.New("use --in or a list of files, not both")
	case folder != "":
		paths = []string{folder}
		caps = library.Capabilities{DirectoryAccess: true}
		want = filepath.ToSlash(target)
	case len(rest) > 0:
		paths = args
		caps = library.Capabilities{FileCollection: true}
		want = target
	default:
		paths = []string{filepath.Dir(target)}
		caps = library.Capabilities{DirectoryAccess: true}
		opts.Recursive = false
		want = filepath.Base(target)
	}

	lib, err := library.Load(ctx, paths, caps, opts)
	if err != nil {
		return playTarget{}, fmt.Errorf("failed to load media: %w", err)
	}

	m, ok := lib.Find(want)
	if !ok {
		return playTarget{}, fmt.Errorf("%s is not a playable media file in the selection", target)
	}

	local := m.Path
	if caps.DirectoryAccess {
		local = filepath.Join(lib.Root, filepath.FromSlash(m.Path))
	}
	return playTarget{lib: lib, media: m, localPath: local}, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start, _ := cmd.Flags().GetFloat64("start")
	duration, _ := cmd.Flags().GetFloat64("duration")
	tick, _ := cmd.Flags().GetDuration("tick")
	trackOut, _ := cmd.Flags().GetString("track-out")

	if start < 0 || duration < 0 {
		return errors.New("--start and --duration must not be negative")
	}
	if tick <= 0 {
		tick = cfg.TickInterval()
	}

	target, err := openPlayTarget(cmd, args)
	if err != nil {
		return err
	}

	session := player.NewSession(blob.NewRegistry(), player.Options{
		Parser: newCueParser(target.media.Name),
		Logger: logger,
	})
	defer session.Close()

	sel, err := session.Select(ctx, target.media, target.lib.SubtitleSource(target.media))
	if err != nil {
		return fmt.Errorf("failed to select %s: %w", target.media.Name, err)
	}

	out := cmd.OutOrStdout()
	if sel.Notice != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", sel.Notice)
	}
	if sel.HasSubtitles {
		fmt.Fprintf(out, "Playing %s with %d cues\n", sel.Name, len(sel.Cues))
	} else {
		fmt.Fprintf(out, "Playing %s without subtitles\n", sel.Name)
	}

	if trackOut != "" {
		if err := writeCaptionTrack(session.Registry(), sel, trackOut); err != nil {
			return err
		}
	}

	end, err := playbackEnd(ctx, sel, target.localPath, start, duration)
	if err != nil {
		return err
	}

	logger.Debugw("Starting playback",
		"media", target.localPath,
		"start", start,
		"end", end,
		"tick", tick.String(),
	)

	playCtx, cancel := context.WithTimeout(ctx, time.Duration((end-start)*float64(time.Second)))
	defer cancel()

	redraw := shouldColorize(out)
	err = session.Watch(playCtx, sel.Generation, player.NewWallClock(start), tick, func(c player.Caption) bool {
		printCaption(out, c, redraw)
		return true
	})
	if redraw {
		fmt.Fprintln(out)
	}

	switch {
	case err == nil, errors.Is(err, context.DeadlineExceeded):
		return nil
	case errors.Is(err, context.Canceled):
		logger.Debugw("Playback interrupted")
		return nil
	default:
		return err
	}
}

func writeCaptionTrack(registry *blob.Registry, sel player.Selection, path string) error {
	if !sel.HasSubtitles {
		logger.Warnw("No caption track to write", "media", sel.Name)
		return nil
	}

	rc, err := registry.Open(sel.CaptionURL)
	if err != nil {
		return fmt.Errorf("failed to open caption track: %w", err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create caption track file: %w", err)
	}
	if _, err := io.Copy(file, rc); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write caption track: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write caption track: %w", err)
	}

	logger.Infow("Caption track written",
		"url", sel.CaptionURL,
		"path", path,
	)
	return nil
}

// explicit duration, then the probed media length, then the last cue
func playbackEnd(ctx context.Context, sel player.Selection, localPath string, start, duration float64) (float64, error) {
	if duration > 0 {
		return start + duration, nil
	}

	end := 0.0
	if length, err := media.GetDuration(ctx, localPath); err == nil {
		end = length.Seconds()
	} else {
		logger.Debugw("Could not probe media length",
			"media", localPath,
			"error", err,
		)
		end = lastCueEnd(sel.Cues)
	}

	if end <= 0 {
		return 0, errors.New("cannot determine the media length: pass --duration")
	}
	if end <= start {
		return 0, fmt.Errorf("start %s is past the end %s",
			subtitle.FormatTimecode(start, '.'), subtitle.FormatTimecode(end, '.'))
	}
	return end, nil
}

func lastCueEnd(cues []subtitle.Cue) float64 {
	end := 0.0
	for _, cue := range cues {
		if cue.End > end {
			end = cue.End
		}
	}
	return end
}

func printCaption(w io.Writer, c player.Caption, redraw bool) {
	stamp := subtitle.FormatTimecode(c.Time, '.')
	text := strings.ReplaceAll(c.Text, "\n", " / ")

	if redraw {
		fmt.Fprintf(w, "\r\x1b[K[%s] %s", stamp, text)
		return
	}
	if text == "" {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", stamp, text)
}
