package fsutil

import "errors"

// ErrEmptyOutputPath is returned when a write is requested with an empty
// output path.
var ErrEmptyOutputPath = errors.New("output path must not be empty")

// ErrEmptySourcePath is returned when a copy is requested with an empty
// source path.
var ErrEmptySourcePath = errors.New("source path must not be empty")
