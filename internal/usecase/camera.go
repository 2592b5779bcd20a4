package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"sync"

	"go.uber.org/zap"

	"github.com/savora/core/internal/domain"
)

// CameraState is the state of a CaptureController
type CameraState int

const (
	CameraClosed CameraState = iota
	CameraStarting
	CameraActive
	CameraCapturedPending
	CameraError
)

// String returns the state name
func (s CameraState) String() string {
	switch s {
	case CameraClosed:
		return "closed"
	case CameraStarting:
		return "starting"
	case CameraActive:
		return "active"
	case CameraCapturedPending:
		return "captured_pending"
	case CameraError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its name
func (s CameraState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// User-facing messages for each failure
const (
	msgPermissionDenied = "Camera access was denied. Allow camera access and try again."
	msgDeviceNotFound   = "No camera was found on this device."
	msgPlaybackFailed   = "The camera could not be started. Please try again."
	msgDeviceFailure    = "The camera is unavailable. Please try again."
	msgExtractFailed    = "Could not read ingredients from the photo. Please try again."
)

// DeviceErrorMessage maps a capture error to the message shown to the user
func DeviceErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return msgPermissionDenied
	case errors.Is(err, domain.ErrDeviceNotFound):
		return msgDeviceNotFound
	case errors.Is(err, domain.ErrPlaybackFailed):
		return msgPlaybackFailed
	case errors.Is(err, domain.ErrDeviceFailure):
		return msgDeviceFailure
	default:
		return msgExtractFailed
	}
}

// CaptureConfig holds capture options
type CaptureConfig struct {
	// Mirror flips captured frames horizontally to match the mirrored preview
	Mirror      bool
	JPEGQuality int
	Logger      *zap.Logger
}

// CaptureController drives the photo-to-ingredients flow: open the device,
// capture a still, send it to ingredient extraction and merge the result
// into the ingredient list being edited. The device is released whenever
// the controller leaves the Starting or Active states.
type CaptureController struct {
	device    domain.CaptureDevice
	extractor domain.IngredientExtractor
	mirror    bool
	quality   int
	logger    *zap.Logger

	mu         sync.Mutex
	state      CameraState
	err        error
	message    string
	cancel     context.CancelFunc // cancels the pending start or capture
	generation uint64
}

// NewCaptureController creates a controller in the Closed state
func NewCaptureController(device domain.CaptureDevice, extractor domain.IngredientExtractor, config CaptureConfig) *CaptureController {
	quality := config.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureController{
		device:    device,
		extractor: extractor,
		mirror:    config.Mirror,
		quality:   quality,
		logger:    logger.Named("camera"),
	}
}

// State returns the current state
func (c *CaptureController) State() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that moved the controller to CameraError
func (c *CaptureController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Message returns the user-facing message for the current error
func (c *CaptureController) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Open acquires the device and waits for the first frame. Opening an
// already open controller is a no-op.
func (c *CaptureController) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != CameraClosed && c.state != CameraError {
		c.mu.Unlock()
		return nil
	}
	startCtx, cancel := context.WithCancel(ctx)
	c.state = CameraStarting
	c.err = nil
	c.message = ""
	c.cancel = cancel
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	err := c.device.Start(startCtx)
	if err == nil {
		// Playback has begun once a frame is available
		_, err = c.device.Frame(startCtx)
		if err != nil && !errors.Is(err, domain.ErrDeviceFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrPlaybackFailed, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if generation != c.generation {
		// Closed while starting
		c.releaseLocked()
		return context.Canceled
	}
	c.cancel = nil
	if err != nil {
		c.failLocked(err)
		return err
	}

	c.state = CameraActive
	c.logger.Debug("camera active")
	return nil
}

// Capture grabs the current frame, sends it for ingredient extraction and
// returns current merged with the ingredients found. Outside the Active
// state it is a no-op that returns current unchanged.
func (c *CaptureController) Capture(ctx context.Context, current []string) ([]string, error) {
	c.mu.Lock()
	if c.state != CameraActive || c.cancel != nil {
		c.mu.Unlock()
		return current, nil
	}
	captureCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel
	generation := c.generation
	c.mu.Unlock()

	// The device is read without the lock so Close can interrupt it
	frame, err := c.device.Frame(captureCtx)

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return current, context.Canceled
	}
	if err != nil {
		c.cancel = nil
		c.failLocked(err)
		c.mu.Unlock()
		return current, err
	}
	c.state = CameraCapturedPending
	c.releaseLocked()
	c.mu.Unlock()

	photo, err := c.encode(frame)
	if err == nil {
		var extracted *domain.ExtractedIngredients
		extracted, err = c.extractor.ExtractIngredients(captureCtx, "capture.jpg", bytes.NewReader(photo))
		if err == nil {
			c.mu.Lock()
			if generation == c.generation {
				c.cancel = nil
				c.state = CameraClosed
			}
			c.mu.Unlock()

			merged := MergeIngredients(current, extracted.Ingredients)
			c.logger.Info("ingredients extracted from photo",
				zap.Int("found", len(extracted.Ingredients)),
				zap.Int("total", len(merged)))
			return merged, nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return current, context.Canceled
	}
	c.cancel = nil
	c.failLocked(err)
	return current, err
}

// Retry returns a failed controller to Closed and opens it again
func (c *CaptureController) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != CameraError {
		c.mu.Unlock()
		return nil
	}
	c.state = CameraClosed
	c.mu.Unlock()

	return c.Open(ctx)
}

// Close cancels a pending start or capture, releases the device and
// returns to Closed. It is safe to call in any state and any number of
// times, and never waits on the device.
func (c *CaptureController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.releaseLocked()
	c.state = CameraClosed
	c.err = nil
	c.message = ""
}

// failLocked records err, releases the device and enters CameraError
func (c *CaptureController) failLocked(err error) {
	c.releaseLocked()
	c.state = CameraError
	c.err = err
	c.message = DeviceErrorMessage(err)
	c.logger.Warn("capture failed", zap.Error(err))
}

// releaseLocked stops the device. Stop is idempotent, so this is unconditional.
func (c *CaptureController) releaseLocked() {
	if err := c.device.Stop(); err != nil {
		c.logger.Warn("failed to release camera", zap.Error(err))
	}
}

// encode renders frame as JPEG, flipped horizontally when mirroring
func (c *CaptureController) encode(frame image.Image) ([]byte, error) {
	if c.mirror {
		frame = FlipHorizontal(frame)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encode capture: %w", err)
	}
	return buf.Bytes(), nil
}

// FlipHorizontal returns a mirrored copy of src
func FlipHorizontal(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	normalized := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(normalized, normalized.Bounds(), src, bounds.Min, draw.Src)

	width := bounds.Dx()
	out := image.NewRGBA(normalized.Bounds())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < width; x++ {
			out.SetRGBA(width-1-x, y, normalized.RGBAAt(x, y))
		}
	}
	return out
}
