package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

const (
	ffmpegEnv  = "WHISCRIBE_FFMPEG_PATH"
	ffprobeEnv = "WHISCRIBE_FFPROBE_PATH"
)

var ErrNotInstalled = errors.New("not installed")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	locateOnce sync.Once
	located    BinaryPaths
)

// Locate resolves the tool paths once per process. A tool that cannot be
// found is left empty; FFmpegPath and FFprobePath report it.
func Locate() BinaryPaths {
	locateOnce.Do(func() {
		located = locate(os.Getenv, exec.LookPath)
	})
	return located
}

func FFmpegPath() (string, error) {
	return required("ffmpeg", ffmpegEnv, Locate().FFmpeg)
}

func FFprobePath() (string, error) {
	return required("ffprobe", ffprobeEnv, Locate().FFprobe)
}

func required(tool, env, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%s %w: install it or set %s", tool, ErrNotInstalled, env)
	}
	return path, nil
}

// environment overrides win over $PATH
func locate(getenv func(string) string, lookPath func(string) (string, error)) BinaryPaths {
	return BinaryPaths{
		FFmpeg:  find("ffmpeg", strings.TrimSpace(getenv(ffmpegEnv)), lookPath),
		FFprobe: find("ffprobe", strings.TrimSpace(getenv(ffprobeEnv)), lookPath),
	}
}

func find(tool, override string, lookPath func(string) (string, error)) string {
	if override != "" {
		return override
	}
	if found, err := lookPath(tool); err == nil {
		return found
	}
	return ""
}
