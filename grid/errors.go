package grid

import "errors"

var (
	// ErrInvalidWindow indicates a window whose end is not after its start.
	ErrInvalidWindow = errors.New("grid: window end must be after start")
	// ErrInvalidDuration indicates a non-positive or off-grid duration.
	ErrInvalidDuration = errors.New("grid: duration must be a positive multiple of the grid step")
	// ErrWindowTooShort indicates the window is shorter than one slot.
	ErrWindowTooShort = errors.New("grid: window shorter than slot duration")
)
