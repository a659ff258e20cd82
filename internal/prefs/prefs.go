// Package prefs persists the display preference flag.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

const (
	fileName = "prefs.yaml"
	lockName = "prefs.lock"

	themeEnv = "WHISCRIBE_THEME"
)

// where the effective dark mode value came from
type Origin string

const (
	OriginSaved       Origin = "saved"
	OriginEnvironment Origin = "environment"
	OriginDefault     Origin = "default"
)

type document struct {
	DarkMode *bool `yaml:"dark_mode,omitempty"`
}

type Store struct {
	path   string
	lock   *flock.Flock
	getenv func(string) string
}

// Open returns a store rooted in dir. The directory is created on first write.
func Open(dir string) *Store {
	return &Store{
		path:   filepath.Join(dir, fileName),
		lock:   flock.New(filepath.Join(dir, lockName)),
		getenv: os.Getenv,
	}
}

func (s *Store) Path() string {
	return s.path
}

// DarkMode returns the saved flag, else the environment's preference,
// else light.
func (s *Store) DarkMode() (bool, Origin, error) {
	doc, err := s.read()
	if err != nil {
		return false, OriginDefault, err
	}
	if doc.DarkMode != nil {
		return *doc.DarkMode, OriginSaved, nil
	}
	if dark, ok := environmentPrefersDark(s.getenv); ok {
		return dark, OriginEnvironment, nil
	}
	return false, OriginDefault, nil
}

// SetDarkMode persists the flag immediately.
func (s *Store) SetDarkMode(dark bool) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire prefs lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.readUnlocked()
	if err != nil {
		return err
	}
	doc.DarkMode = &dark

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Toggle flips the effective value and persists the result.
func (s *Store) Toggle() (bool, error) {
	dark, _, err := s.DarkMode()
	if err != nil {
		return false, err
	}
	dark = !dark
	if err := s.SetDarkMode(dark); err != nil {
		return false, err
	}
	return dark, nil
}

// Reset forgets the saved flag so the environment decides again.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove preferences: %w", err)
	}
	return nil
}

func (s *Store) read() (document, error) {
	if _, err := os.Stat(filepath.Dir(s.path)); errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err := s.lock.RLock(); err != nil {
		return document{}, fmt.Errorf("acquire prefs lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.readUnlocked()
}

func (s *Store) readUnlocked() (document, error) {
	var doc document

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	return doc, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// WHISCRIBE_THEME wins; COLORFGBG ("fg;bg") describes the terminal palette
func environmentPrefersDark(getenv func(string) string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(getenv(themeEnv))) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}

	colors := getenv("COLORFGBG")
	if colors == "" {
		return false, false
	}
	parts := strings.Split(colors, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false, false
	}
	return bg <= 6 || bg == 8, true
}
