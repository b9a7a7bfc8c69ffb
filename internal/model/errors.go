package model

import "errors"

var (
	// ErrInvalidInput is returned for bad user-entered values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIO is returned when the record file cannot be read or written.
	ErrIO = errors.New("storage error")
	// ErrEmptyDataset is returned by statistics that need at least one record.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInsufficientData is returned when a trend fit has fewer than two points.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateFit is returned when every point shares the same date.
	ErrDegenerateFit = errors.New("degenerate fit")
)
