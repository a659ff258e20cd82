// Package blob hands out short-lived URLs for in-process resources such as
// the selected media file or a generated caption track. A URL stays valid
// until it is revoked; revoking twice is harmless.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const scheme = "blob:whiscribe/"

var (
	ErrUnknownURL = errors.New("blob url not registered")
	ErrInvalid    = errors.New("invalid blob url")
)

// Blob is a registered resource.
type Blob struct {
	ContentType string
	Size        int64
	open        func() (io.ReadCloser, error)
}

func (b Blob) Open() (io.ReadCloser, error) {
	return b.open()
}

// FromBytes wraps an in-memory payload.
func FromBytes(contentType string, data []byte) Blob {
	buf := append([]byte(nil), data...)
	return Blob{
		ContentType: contentType,
		Size:        int64(len(buf)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}
}

// FromOpener references content that is read on demand.
func FromOpener(contentType string, size int64, open func() (io.ReadCloser, error)) Blob {
	return Blob{ContentType: contentType, Size: size, open: open}
}

type Registry struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Create registers b and returns its URL.
func (r *Registry) Create(b Blob) (string, error) {
	if b.open == nil {
		return "", fmt.Errorf("create blob url: %w", ErrInvalid)
	}
	url := scheme + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[url] = b
	return url, nil
}

func (r *Registry) Stat(url string) (Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blobs[url]
	if !ok {
		return Blob{}, lookupError(url)
	}
	return b, nil
}

func (r *Registry) Open(url string) (io.ReadCloser, error) {
	b, err := r.Stat(url)
	if err != nil {
		return nil, err
	}
	return b.Open()
}

// Revoke releases url and reports whether it was live. Empty and unknown
// URLs are ignored.
func (r *Registry) Revoke(url string) bool {
	if url == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.blobs[url]
	delete(r.blobs, url)
	return ok
}

func (r *Registry) RevokeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.blobs)
}

// number of live URLs
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}

func lookupError(url string) error {
	if !IsURL(url) {
		return fmt.Errorf("%q: %w", url, ErrInvalid)
	}
	return fmt.Errorf("%q: %w", url, ErrUnknownURL)
}

// IsURL reports whether s has the shape of a registry URL.
func IsURL(s string) bool {
	id, ok := strings.CutPrefix(s, scheme)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
