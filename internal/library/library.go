package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/whiscribe/whiscribe/internal/logging"
	"github.com/whiscribe/whiscribe/internal/resolve"
)

// playable media category
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindAny   Kind = "any"
)

// file extension selected by the kind; empty for KindAny
func (k Kind) Extension() string {
	switch k {
	case KindAudio:
		return ".mp3"
	case KindVideo:
		return ".mp4"
	default:
		return ""
	}
}

// reports whether name carries an extension this kind plays
func (k Kind) Matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch k {
	case KindAudio, KindVideo:
		return ext == k.Extension()
	default:
		return ext == KindAudio.Extension() || ext == KindVideo.Extension()
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio", "mp3":
		return KindAudio, nil
	case "video", "mp4":
		return KindVideo, nil
	case "", "any", "all":
		return KindAny, nil
	default:
		return "", fmt.Errorf("unsupported media kind %q: use audio, video, or any", s)
	}
}

// one playable file found by a scan or given explicitly
type MediaFile struct {
	Name string // base name
	Path string // location relative to the scanned root, or as given
	Size int64
	open func() (io.ReadCloser, error)
}

func (m MediaFile) Open() (io.ReadCloser, error) {
	if m.open == nil {
		return nil, fmt.Errorf("media %s: no reader", m.Name)
	}
	return m.open()
}

// settings for directory scans and file collections
type ScanOptions struct {
	Kind      Kind
	Recursive bool
	Logger    *logging.Logger
}

// Scan lists playable files in fsys. Subfolders are entered only when
// Recursive is set; an unreadable subfolder is logged and skipped.
func Scan(ctx context.Context, fsys fs.FS, opts ScanOptions) ([]MediaFile, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	var files []MediaFile
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == "." {
				return err
			}
			logger.Warnw("Could not access subdirectory",
				"path", p,
				"error", err,
			)
			if d != nil && !d.IsDir() {
				return nil
			}
			return fs.SkipDir
		}

		if d.IsDir() {
			if p != "." && !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !opts.Kind.Matches(d.Name()) {
			return nil
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		filePath := p
		files = append(files, MediaFile{
			Name: d.Name(),
			Path: filePath,
			Size: size,
			open: func() (io.ReadCloser, error) {
				return fsys.Open(filePath)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}

	sortMedia(files)
	return files, nil
}

// FromPaths builds the media list and the companion subtitle collection
// from explicitly selected files.
func FromPaths(paths []string, opts ScanOptions) ([]MediaFile, resolve.Collection, error) {
	var (
		files      []MediaFile
		collection resolve.Collection
	)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, nil, fmt.Errorf("%s is a directory: select files or a single folder", p)
		}

		filePath := p
		opener := func() (io.ReadCloser, error) {
			return os.Open(filePath)
		}
		name := filepath.Base(p)

		collection = append(collection, resolve.File{Name: name, Path: p, Open: opener})
		if opts.Kind.Matches(name) {
			files = append(files, MediaFile{
				Name: name,
				Path: p,
				Size: info.Size(),
				open: opener,
			})
		}
	}

	sortMedia(files)
	return files, collection, nil
}

// locale-aware ordering by name, then path
func sortMedia(files []MediaFile) {
	collator := collate.New(language.Und)
	sort.SliceStable(files, func(i, j int) bool {
		if c := collator.CompareString(files[i].Name, files[j].Name); c != 0 {
			return c < 0
		}
		return collator.CompareString(files[i].Path, files[j].Path) < 0
	})
}

// Capabilities records which folder access strategy an invocation supports.
// It is decided once at startup and passed down.
type Capabilities struct {
	DirectoryAccess bool
	FileCollection  bool
}

var ErrMixedSelection = errors.New("select either one folder or a set of files, not both")

// Probe inspects the command line selection. No paths means the current
// directory.
func Probe(paths []string) (Capabilities, error) {
	if len(paths) == 0 {
		return Capabilities{DirectoryAccess: true}, nil
	}

	dirs := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return Capabilities{}, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			dirs++
		}
	}

	switch {
	case dirs == 1 && len(paths) == 1:
		return Capabilities{DirectoryAccess: true}, nil
	case dirs == 0:
		return Capabilities{FileCollection: true}, nil
	default:
		return Capabilities{}, ErrMixedSelection
	}
}

// a loaded selection: playable media plus where their subtitles live
type Library struct {
	Caps  Capabilities
	Root  string
	Media []MediaFile

	fsys       fs.FS
	collection resolve.Collection
}

// Load scans a folder or collects explicit files according to caps.
func Load(ctx context.Context, paths []string, caps Capabilities, opts ScanOptions) (*Library, error) {
	lib := &Library{Caps: caps}

	switch {
	case caps.DirectoryAccess:
		root := "."
		if len(paths) > 0 {
			root = paths[0]
		}
		lib.Root = root
		lib.fsys = os.DirFS(root)

		media, err := Scan(ctx, lib.fsys, opts)
		if err != nil {
			return nil, err
		}
		lib.Media = media
	case caps.FileCollection:
		media, collection, err := FromPaths(paths, opts)
		if err != nil {
			return nil, err
		}
		lib.Media = media
		lib.collection = collection
	default:
		return nil, errors.New("no folder access available")
	}

	return lib, nil
}

// where the companion subtitle of m is looked up
func (l *Library) SubtitleSource(m MediaFile) resolve.Source {
	if l.Caps.DirectoryAccess {
		return resolve.Dir{FS: l.fsys, Dir: path.Dir(m.Path)}
	}
	return l.collection
}

// media file by base name or path
func (l *Library) Find(name string) (MediaFile, bool) {
	for _, m := range l.Media {
		if m.Name == name || m.Path == name {
			return m, true
		}
	}
	return MediaFile{}, false
}
