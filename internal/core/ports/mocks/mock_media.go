package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// MockNormalizer is a mock implementation of the ImageNormalizer interface.
// It returns Output for any input, or wraps ErrImageDecode when Fail is set.
type MockNormalizer struct {
	Output []byte
	Fail   bool
	Calls  int
}

// NewMockNormalizer creates a normalizer returning a tiny fake JPEG
func NewMockNormalizer() *MockNormalizer {
	return &MockNormalizer{Output: []byte{0xFF, 0xD8, 0xFF, 0xD9}}
}

// Normalize consumes r and returns the canned output
func (m *MockNormalizer) Normalize(ctx context.Context, r io.Reader) ([]byte, error) {
	m.Calls++
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	if m.Fail {
		return nil, fmt.Errorf("%w: mock decode failure", domain.ErrImageDecode)
	}
	return append([]byte(nil), m.Output...), nil
}

// MockLetterhead is a mock implementation of the LetterheadSource interface
type MockLetterhead struct {
	Data  []byte
	Err   error
	Calls int
}

// NewMockLetterhead creates a letterhead source returning data
func NewMockLetterhead(data []byte) *MockLetterhead {
	return &MockLetterhead{Data: data}
}

// Fetch returns the canned letterhead
func (m *MockLetterhead) Fetch(ctx context.Context) ([]byte, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

// Location describes the mock source
func (m *MockLetterhead) Location() string {
	return "mock://letterhead"
}

// MockRenderer is a mock implementation of the Renderer interface.
// It records every document it receives and writes a short marker.
type MockRenderer struct {
	mu        sync.Mutex
	FormatID  string
	Err       error
	Documents []*domain.Document
}

// NewMockRenderer creates a renderer for the given format
func NewMockRenderer(format string) *MockRenderer {
	return &MockRenderer{FormatID: format}
}

// Format returns the configured format name
func (m *MockRenderer) Format() string { return m.FormatID }

// Extension equals the format name
func (m *MockRenderer) Extension() string { return m.FormatID }

// Render records doc and writes a marker
func (m *MockRenderer) Render(ctx context.Context, doc *domain.Document, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Documents = append(m.Documents, doc)
	_, err := fmt.Fprintf(w, "%s:%d blocks", m.FormatID, len(doc.Body))
	return err
}

// MockCaptureSource is a mock implementation of the CaptureSource interface.
// Each call to Next returns the next queued path.
type MockCaptureSource struct {
	Paths []string
	Err   error
}

// Next returns the next queued path or blocks until ctx is done
func (m *MockCaptureSource) Next(ctx context.Context) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Paths) == 0 {
		<-ctx.Done()
		return "", ctx.Err()
	}
	p := m.Paths[0]
	m.Paths = m.Paths[1:]
	return p, nil
}
