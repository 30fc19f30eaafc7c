// Package poster downloads and serves locally cached poster images.
package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	// ErrUnavailable means no poster could be stored; callers treat it
	// as non-fatal and keep the metadata row without a local file.
	ErrUnavailable = errors.New("poster: unavailable")

	// ErrNotAnImage means the URL served something other than image data.
	ErrNotAnImage = errors.New("poster: response is not an image")
)

// maxPosterBytes bounds a single download.
const maxPosterBytes = 10 << 20

// Store writes poster images under one directory of an afero filesystem.
// The deterministic filename makes repeated fetches for the same title
// overwrite instead of accumulating files.
type Store struct {
	fs   afero.Fs
	dir  string
	http *http.Client
}

// NewStore creates the poster directory if needed and returns a Store.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create poster dir %s: %w", dir, err)
	}
	return &Store{
		fs:  fs,
		dir: dir,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Save downloads the poster at posterURL and stores it as
// "{imdbID}-poster{ext}". Placeholder URLs, non-image payloads and empty
// bodies are rejected without leaving a partial file behind.
func (s *Store) Save(ctx context.Context, posterURL, imdbID string) (string, error) {
	if posterURL == "" || posterURL == "N/A" || imdbID == "" {
		return "", ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, posterURL, nil)
	if err != nil {
		return "", fmt.Errorf("poster: bad url %q: %w", posterURL, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("poster: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("poster: download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes+1))
	if err != nil {
		return "", fmt.Errorf("poster: read failed: %w", err)
	}
	if len(data) == 0 {
		return "", ErrUnavailable
	}
	if len(data) > maxPosterBytes {
		return "", fmt.Errorf("poster: image exceeds %d bytes", maxPosterBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: got %s", ErrNotAnImage, mtype.String())
	}

	filename := imdbID + "-poster" + mtype.Extension()
	fullPath := path.Join(s.dir, filename)
	if err := afero.WriteFile(s.fs, fullPath, data, 0o644); err != nil {
		// Don't leave a truncated file behind.
		_ = s.fs.Remove(fullPath)
		return "", fmt.Errorf("poster: write failed: %w", err)
	}

	slog.Info("poster saved", "imdb_id", imdbID, "file", filename, "bytes", len(data))
	return filename, nil
}

// Read returns the bytes of a stored poster for serving as a static
// asset. Names containing path separators are rejected.
func (s *Store) Read(filename string) ([]byte, error) {
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return nil, ErrUnavailable
	}
	data, err := afero.ReadFile(s.fs, path.Join(s.dir, filename))
	if err != nil {
		return nil, ErrUnavailable
	}
	return data, nil
}
