package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"prepai/internal/services"
)

// FrameSource yields the current camera frame as JPEG bytes.
type FrameSource interface {
	Frame(ctx context.Context) ([]byte, error)
}

// DirFrameSource cycles through the images of a directory in name order,
// re-encoding each as JPEG at the configured quality.
type DirFrameSource struct {
	paths   []string
	quality int

	mu   sync.Mutex
	next int
}

// OpenDirFrameSource lists the .jpg, .jpeg and .png files in dir.
func OpenDirFrameSource(dir string, quality int) (*DirFrameSource, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrDevice, "camera", "open", "no frame directory configured", nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrDevice, "camera", "open", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, services.Wrap(services.ErrDevice, "camera", "open", "no images in "+dir, nil)
	}
	slices.Sort(paths)
	if quality <= 0 || quality > 100 {
		quality = 50
	}
	return &DirFrameSource{paths: paths, quality: quality}, nil
}

// Len returns the number of frames in the cycle.
func (s *DirFrameSource) Len() int {
	return len(s.paths)
}

// Frame returns the next image in the cycle.
func (s *DirFrameSource) Frame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	path := s.paths[s.next]
	s.next = (s.next + 1) % len(s.paths)
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrDevice, "camera", "read frame", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "camera", "decode frame", path, err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
