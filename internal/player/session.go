// Package player ties a selected media file to its subtitles for the
// duration of one playback.
//
// A Session owns the media and caption URLs of the current selection.
// Every Select starts a new generation; work that finishes for an older
// generation is discarded, so a caption is never paired with the wrong
// media file.
package player

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/whiscribe/whiscribe/internal/blob"
	"github.com/whiscribe/whiscribe/internal/library"
	"github.com/whiscribe/whiscribe/internal/logging"
	"github.com/whiscribe/whiscribe/internal/resolve"
	"github.com/whiscribe/whiscribe/internal/subtitle"
)

var (
	ErrSuperseded = errors.New("selection superseded by a newer one")
	ErrClosed     = errors.New("player session closed")
)

// CaptionContentType is the content type of generated caption tracks.
const CaptionContentType = "text/vtt"

// Selection is the state of the currently selected media file. Cues are
// shared and must not be modified.
type Selection struct {
	Generation   uint64
	Name         string
	BaseName     string
	MediaURL     string
	CaptionURL   string
	Cues         []subtitle.Cue
	HasSubtitles bool
	Notice       string
}

type Options struct {
	Parser subtitle.Parser
	Logger *logging.Logger
}

type Session struct {
	mu         sync.Mutex
	registry   *blob.Registry
	parser     subtitle.Parser
	logger     *logging.Logger
	generation uint64
	current    Selection
	closed     bool
}

func NewSession(registry *blob.Registry, opts Options) *Session {
	if registry == nil {
		registry = blob.NewRegistry()
	}
	parser := opts.Parser
	if parser == nil {
		parser = &subtitle.CueParser{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{
		registry: registry,
		parser:   parser,
		logger:   logger,
	}
}

// Registry the session's URLs live in.
func (s *Session) Registry() *blob.Registry {
	return s.registry
}

// Select makes media the current selection and loads its companion
// subtitles from source. The previous selection's URLs and cues are
// released before the lookup starts. If another Select happens while the
// lookup is in flight, this call returns ErrSuperseded and commits nothing.
// A subtitle that cannot be read is not fatal: the selection plays without
// captions and Notice says why.
func (s *Session) Select(ctx context.Context, media library.MediaFile, source resolve.Source) (Selection, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Selection{}, ErrClosed
	}

	mediaURL, err := s.registry.Create(blob.FromOpener(mediaContentType(media.Name), media.Size, media.Open))
	if err != nil {
		s.mu.Unlock()
		return Selection{}, fmt.Errorf("failed to register media: %w", err)
	}

	s.release(s.current)
	s.generation++
	gen := s.generation
	base := resolve.BaseName(media.Name)
	s.current = Selection{
		Generation: gen,
		Name:       media.Name,
		BaseName:   base,
		MediaURL:   mediaURL,
	}
	s.mu.Unlock()

	s.logger.Debugw("Selected media",
		"name", media.Name,
		"generation", gen,
	)

	text, found, lookupErr := resolve.FindSubtitleText(ctx, base, source)

	var (
		cues   []subtitle.Cue
		track  string
		notice string
	)
	switch {
	case lookupErr != nil:
		notice = fmt.Sprintf("subtitles unavailable: %v", lookupErr)
	case found:
		cues = s.parser.Parse(text)
		track = subtitle.ToCaptionTrack(text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Selection{}, ErrClosed
	}
	if s.current.Generation != gen {
		s.logger.Debugw("Dropping stale subtitle lookup",
			"name", media.Name,
			"generation", gen,
			"current", s.current.Generation,
		)
		return Selection{}, ErrSuperseded
	}

	if lookupErr != nil {
		if errors.Is(lookupErr, context.Canceled) || errors.Is(lookupErr, context.DeadlineExceeded) {
			return s.current, lookupErr
		}
		s.logger.Warnw("Could not load subtitles",
			"name", media.Name,
			"error", lookupErr,
		)
		s.current.Notice = notice
		return s.current, nil
	}

	if found {
		captionURL, err := s.registry.Create(blob.FromBytes(CaptionContentType, []byte(track)))
		if err != nil {
			return s.current, fmt.Errorf("failed to register caption track: %w", err)
		}
		s.current.CaptionURL = captionURL
		s.current.Cues = cues
		s.current.HasSubtitles = true

		s.logger.Debugw("Loaded subtitles",
			"name", resolve.SubtitleName(base),
			"cues", len(cues),
		)
	}

	return s.current, nil
}

// Tick returns the caption to show at playback time t for the selection
// of generation gen. It reports false when gen is no longer current or the
// session is closed.
func (s *Session) Tick(gen uint64, t float64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen == 0 || gen != s.current.Generation {
		return "", false
	}
	return subtitle.ActiveText(s.current.Cues, t), true
}

// Current returns the current selection, if any.
func (s *Session) Current() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.current.Generation == 0 {
		return Selection{}, false
	}
	return s.current, true
}

// Close releases the current selection's URLs. The session is unusable
// afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.release(s.current)
	s.current = Selection{}
	s.closed = true
	return nil
}

// must hold s.mu
func (s *Session) release(sel Selection) {
	s.registry.Revoke(sel.MediaURL)
	s.registry.Revoke(sel.CaptionURL)
}

func mediaContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
