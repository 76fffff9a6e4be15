package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamal-hamza/obras-cli/internal/logging"
)

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"IMG_0001.JPG":  true,
		"scan.tiff":     true,
		"photo.png":     true,
		"notes.txt":     false,
		"archive.jpg.x": false,
		"noext":         false,
	}
	for name, expected := range tests {
		if got := IsImageFile(name); got != expected {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, expected)
		}
	}
}

func TestFolderSource_Next(t *testing.T) {
	dir := t.TempDir()
	src, err := NewFolderSource(dir, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFolderSource() error = %v", err)
	}
	defer src.Close()

	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
		os.WriteFile(filepath.Join(dir, ".partial.jpg"), []byte("ignored"), 0644)
		os.WriteFile(filepath.Join(dir, "IMG_0001.jpg"), []byte("photo"), 0644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	path, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if filepath.Base(path) != "IMG_0001.jpg" {
		t.Errorf("expected IMG_0001.jpg, got %s", path)
	}
}

func TestFolderSource_Timeout(t *testing.T) {
	src, err := NewFolderSource(t.TempDir(), 0, nil)
	if err != nil {
		t.Fatalf("NewFolderSource() error = %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestNewFolderSource_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox", "nested")
	src, err := NewFolderSource(dir, 0, nil)
	if err != nil {
		t.Fatalf("NewFolderSource() error = %v", err)
	}
	defer src.Close()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected inbox directory to exist")
	}
}

func TestFolderSource_BurstKeepsEveryPhoto(t *testing.T) {
	dir := t.TempDir()
	src, err := NewFolderSource(dir, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFolderSource() error = %v", err)
	}
	defer src.Close()

	// Both land inside one settle window
	go func() {
		time.Sleep(30 * time.Millisecond)
		os.WriteFile(filepath.Join(dir, "IMG_0001.jpg"), []byte("first"), 0644)
		os.WriteFile(filepath.Join(dir, "IMG_0002.jpg"), []byte("second"), 0644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, expected := range []string{"IMG_0001.jpg", "IMG_0002.jpg"} {
		path, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if filepath.Base(path) != expected {
			t.Errorf("expected %s, got %s", expected, path)
		}
	}
}

func TestFolderSource_NextSettled(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.jpg")
	second := filepath.Join(dir, "b.jpg")
	empty := filepath.Join(dir, "c.jpg")
	os.WriteFile(first, []byte("a"), 0644)
	os.WriteFile(second, []byte("b"), 0644)
	os.WriteFile(empty, nil, 0644)

	settle := time.Second
	src := &FolderSource{settle: settle, logger: logging.NewNop(), changed: make(map[string]time.Time)}

	start := time.Now()
	src.touch(empty, start)
	src.touch(first, start)
	src.touch(second, start.Add(200*time.Millisecond))
	src.touch(first, start.Add(100*time.Millisecond))

	if path, wait := src.nextSettled(start.Add(500 * time.Millisecond)); path != "" || wait != 500*time.Millisecond {
		t.Errorf("nothing should be ready yet, got %q wait %v", path, wait)
	}

	// The empty file settles first but is dropped
	at := start.Add(2 * settle)
	if path, _ := src.nextSettled(at); path != first {
		t.Errorf("expected %s first, got %q", first, path)
	}
	if path, _ := src.nextSettled(at); path != second {
		t.Errorf("expected %s second, got %q", second, path)
	}
	if path, wait := src.nextSettled(at); path != "" || wait != -1 {
		t.Errorf("queue should be empty, got %q wait %v", path, wait)
	}
}
