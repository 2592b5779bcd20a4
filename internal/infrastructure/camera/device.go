// Package camera provides capture devices for the ingredient photo flow.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/savora/core/internal/domain"
)

// Compile-time interface check.
var _ domain.CaptureDevice = (*FileDevice)(nil)

// FileDevice is a capture device whose "live feed" is a still image on disk.
// It is used by the CLI and by tests in place of a webcam.
type FileDevice struct {
	path string

	mu      sync.Mutex
	frame   image.Image
	started bool
	stops   int
}

// NewFileDevice creates a device that plays back the image at path
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

// Start opens and decodes the image
func (d *FileDevice) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(d.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, d.path)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, d.path)
	case err != nil:
		return fmt.Errorf("%w: %v", domain.ErrDeviceFailure, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrPlaybackFailed, d.path, err)
	}

	d.mu.Lock()
	d.frame = img
	d.started = true
	d.mu.Unlock()
	return nil
}

// Frame returns the current frame
func (d *FileDevice) Frame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, fmt.Errorf("%w: device not started", domain.ErrPlaybackFailed)
	}
	return d.frame, nil
}

// Stop releases the frame. Calling it on a stopped device is a no-op.
func (d *FileDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		d.stops++
	}
	d.started = false
	d.frame = nil
	return nil
}

// Active reports whether the device is currently started
func (d *FileDevice) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}
