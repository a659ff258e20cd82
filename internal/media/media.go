package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/whiscribe/whiscribe/internal/ffmpeg"
)

var (
	ErrNoSubtitleStream = errors.New("no subtitle stream")
	ErrBitmapSubtitle   = errors.New("bitmap subtitles cannot be converted to text")
)

// embedded subtitle stream as reported by ffprobe
type SubtitleStream struct {
	Index    int    // absolute stream index in the container
	Position int    // index among subtitle streams, as used by -map 0:s:N
	Codec    string
	Language string
	Title    string
}

// reports whether the stream holds text that converts to SRT
func (s SubtitleStream) IsText() bool {
	switch s.Codec {
	case "hdmv_pgs_subtitle", "dvd_subtitle", "dvb_subtitle", "xsub":
		return false
	default:
		return true
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecName string `json:"codec_name"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

// duration of an audio/video file
func GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	out, err := probe(ctx, filePath, "-show_format")
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

func parseDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// subtitle streams embedded in a container, in stream order
func SubtitleStreams(ctx context.Context, filePath string) ([]SubtitleStream, error) {
	out, err := probe(ctx, filePath, "-show_streams", "-select_streams", "s")
	if err != nil {
		return nil, err
	}
	return parseSubtitleStreams(out)
}

func parseSubtitleStreams(data []byte) ([]SubtitleStream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]SubtitleStream, 0, len(probe.Streams))
	for i, s := range probe.Streams {
		streams = append(streams, SubtitleStream{
			Index:    s.Index,
			Position: i,
			Codec:    s.CodecName,
			Language: s.Tags.Language,
			Title:    s.Tags.Title,
		})
	}
	return streams, nil
}

func probe(ctx context.Context, filePath string, args ...string) ([]byte, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmdArgs := append([]string{"-v", "quiet", "-print_format", "json"}, args...)
	cmdArgs = append(cmdArgs, filePath)
	cmd := exec.CommandContext(ctx, ffprobePath, cmdArgs...)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return out.Bytes(), nil
}

// options for pulling an embedded subtitle stream
type ExtractOptions struct {
	Stream   int    // position among subtitle streams
	Language string // preferred language tag; overrides Stream when matched
}

// picks the stream to extract from the probed list
func SelectStream(streams []SubtitleStream, opts ExtractOptions) (SubtitleStream, error) {
	if len(streams) == 0 {
		return SubtitleStream{}, ErrNoSubtitleStream
	}

	if opts.Language != "" {
		for _, s := range streams {
			if strings.EqualFold(s.Language, opts.Language) && s.IsText() {
				return s, nil
			}
		}
	}

	if opts.Stream < 0 || opts.Stream >= len(streams) {
		return SubtitleStream{}, fmt.Errorf("subtitle stream %d out of range (have %d): %w",
			opts.Stream, len(streams), ErrNoSubtitleStream)
	}
	s := streams[opts.Stream]
	if !s.IsText() {
		return SubtitleStream{}, fmt.Errorf("stream %d (%s): %w", s.Index, s.Codec, ErrBitmapSubtitle)
	}
	return s, nil
}

// writes one embedded subtitle stream of a video as SRT
func ExtractSubtitle(ctx context.Context, videoPath, outputPath string, stream SubtitleStream) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if !stream.IsText() {
		return fmt.Errorf("stream %d (%s): %w", stream.Index, stream.Codec, ErrBitmapSubtitle)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", stream.Position),
		"c:s": "srt",
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("ffmpeg subtitle extraction failed: %w", err)
	}

	return nil
}

// companion subtitle path next to a media file
func CompanionPath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".srt"
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
