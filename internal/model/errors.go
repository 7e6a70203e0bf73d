package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates a table without rows or columns.
	ErrEmptyInput = errors.New("empty input")
	// ErrShapeMismatch indicates misaligned rows, columns or labels.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNonFinite indicates a NaN or infinite value.
	ErrNonFinite = errors.New("non-finite value")
	// ErrClassCount indicates labels that do not resolve to exactly two classes.
	ErrClassCount = errors.New("exactly two classes are required")
	// ErrInvalidBand indicates a percentile band outside 0 <= start <= end <= 100.
	ErrInvalidBand = errors.New("invalid percentile band")
	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("invalid config")
)

// Stage names the step of a fit/generate cycle.
type Stage string

const (
	InputStage      Stage = "input"
	TrainingStage   Stage = "training"
	ExtractionStage Stage = "extraction"
	ResamplingStage Stage = "resampling"
	SynthesisStage  Stage = "synthesis"
)

// StageError attributes an error to the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

// NewStageError wraps the error for the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal condition reported back to the caller.
type Warning struct {
	Stage   Stage  `json:"stage"`
	Window  string `json:"window,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Window == "" {
		return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", w.Stage, w.Window, w.Message)
}
