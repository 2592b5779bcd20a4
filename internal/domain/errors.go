package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a recipe is absent both locally and on the server
	ErrNotFound = errors.New("recipe not found")

	// ErrNetworkFailure is returned when the recipe API is unreachable or answers non-2xx
	ErrNetworkFailure = errors.New("recipe API request failed")

	// ErrValidation is returned when input is rejected before any network call
	ErrValidation = errors.New("validation failed")

	// ErrInvalidServings is returned when ingredients are scaled against zero servings
	ErrInvalidServings = errors.New("invalid servings")

	// ErrDeviceFailure is the parent of all capture device errors
	ErrDeviceFailure = errors.New("capture device failure")

	// ErrPermissionDenied is returned when access to the camera is refused
	ErrPermissionDenied = fmt.Errorf("%w: camera permission denied", ErrDeviceFailure)

	// ErrDeviceNotFound is returned when no capture device is available
	ErrDeviceNotFound = fmt.Errorf("%w: no camera found", ErrDeviceFailure)

	// ErrPlaybackFailed is returned when the device opened but never delivered a frame
	ErrPlaybackFailed = fmt.Errorf("%w: camera playback failed", ErrDeviceFailure)

	// ErrKeyNotFound is returned by key-value stores for absent keys
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorageUnavailable is returned when the local store cannot be reached
	ErrStorageUnavailable = errors.New("local storage unavailable")
)
