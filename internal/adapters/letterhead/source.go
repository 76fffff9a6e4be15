package letterhead

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
	"github.com/kamal-hamza/obras-cli/internal/logging"
)

// DefaultFileName is looked up in the assets directory when nothing else is configured
const DefaultFileName = "logo.jpg"

// maxLetterheadBytes bounds a downloaded letterhead
const maxLetterheadBytes = 10 << 20

// supportedFormats are the picture types the document renderers embed
var supportedFormats = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// checkFormat rejects letterheads the renderers cannot place, such as BMP or WebP
func checkFormat(data []byte, location string) error {
	if kind := http.DetectContentType(data); !supportedFormats[kind] {
		return fmt.Errorf("%w: %s is %s, convert it to JPEG, PNG or GIF", domain.ErrLetterhead, location, kind)
	}
	return nil
}

// NewSource picks the source for a configured location: http(s) URLs are
// downloaded, anything else is a file path relative to assetsDir.
func NewSource(location, assetsDir string, timeout time.Duration, logger *slog.Logger) ports.LetterheadSource {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultFileName
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, timeout, logger)
	}

	if !filepath.IsAbs(location) {
		location = filepath.Join(assetsDir, location)
	}
	return NewFileSource(location)
}

// FileSource reads the letterhead from disk
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed letterhead source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLetterhead, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrLetterhead, s.path)
	}
	if err := checkFormat(data, s.path); err != nil {
		return nil, err
	}
	return data, nil
}

// Location returns the file path
func (s *FileSource) Location() string {
	return s.path
}

// HTTPSource downloads the letterhead on every export
type HTTPSource struct {
	url    string
	client *resty.Client
	logger *slog.Logger
}

// NewHTTPSource creates an HTTP letterhead source. Failed requests are not retried.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetRetryCount(0).
		SetTimeout(timeout).
		SetHeader("User-Agent", "obras-cli")

	return &HTTPSource{
		url:    url,
		client: client,
		logger: logging.Component(logger, "letterhead"),
	}
}

// Fetch downloads the image
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLetterhead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrLetterhead, s.url, resp.Status())
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLetterheadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrLetterhead, err)
	}
	if len(data) > maxLetterheadBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", domain.ErrLetterhead, maxLetterheadBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrLetterhead)
	}
	if err := checkFormat(data, s.url); err != nil {
		return nil, err
	}

	s.logger.Debug("letterhead downloaded", "url", s.url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// Location returns the URL
func (s *HTTPSource) Location() string {
	return s.url
}

// Close releases the HTTP client
func (s *HTTPSource) Close() error {
	return s.client.Close()
}
