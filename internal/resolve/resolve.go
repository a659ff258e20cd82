// Package resolve locates the companion subtitle file of a media file.
//
// A subtitle is optional: a missing file is reported as found == false with
// a nil error. Only unexpected I/O failures (permission denied, unreadable
// files, cancelled lookups) are returned as errors.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"

	"github.com/whiscribe/whiscribe/internal/subtitle"
)

// extension of companion subtitle files
const SubtitleExtension = ".srt"

var mediaSuffix = regexp.MustCompile(`(?i)\.(mp3|mp4)$`)

// Source is a place subtitle files can be looked up by exact name.
type Source interface {
	ReadFile(ctx context.Context, name string) (data []byte, found bool, err error)
}

// BaseName strips a case-insensitive .mp3 or .mp4 suffix from a media name.
func BaseName(mediaName string) string {
	return mediaSuffix.ReplaceAllString(mediaName, "")
}

// SubtitleName is the companion subtitle file name for a base name.
func SubtitleName(baseName string) string {
	return baseName + SubtitleExtension
}

// FindSubtitleText returns the decoded text of baseName.srt from src.
func FindSubtitleText(ctx context.Context, baseName string, src Source) (string, bool, error) {
	if src == nil {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, found, err := src.ReadFile(ctx, SubtitleName(baseName))
	if err != nil || !found {
		return "", false, err
	}
	return subtitle.Decode(data), true, nil
}

// Dir looks subtitles up inside one directory of a file system, the
// equivalent of asking a directory handle for a file by name.
type Dir struct {
	FS  fs.FS
	Dir string // slash separated, "." for the root
}

func (d Dir) ReadFile(ctx context.Context, name string) ([]byte, bool, error) {
	if d.FS == nil {
		return nil, false, nil
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}

	data, err := fs.ReadFile(d.FS, path.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read subtitle %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// File is one entry of an explicitly selected file collection.
type File struct {
	Name string
	Path string
	Open func() (io.ReadCloser, error)
}

// Collection searches a list of previously selected files by exact name.
type Collection []File

func (c Collection) ReadFile(ctx context.Context, name string) ([]byte, bool, error) {
	for _, f := range c {
		if f.Name != name {
			continue
		}
		if f.Open == nil {
			return nil, false, fmt.Errorf("read subtitle %s: no reader", name)
		}

		rc, err := f.Open()
		if err != nil {
			return nil, false, fmt.Errorf("open subtitle %s: %w", name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, false, fmt.Errorf("read subtitle %s: %w", name, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	return nil, false, nil
}

// Names lists the file names in the collection, in order.
func (c Collection) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name
	}
	return names
}
