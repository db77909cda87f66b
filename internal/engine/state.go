package engine

import (
	"errors"
	"fmt"
)

// State is a phase of one export run.
type State int

const (
	Idle State = iota
	LoadingEncoder
	ReadingAssets
	RenderingFrames
	Muxing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingEncoder:
		return "loading-encoder"
	case ReadingAssets:
		return "reading-assets"
	case RenderingFrames:
		return "rendering-frames"
	case Muxing:
		return "muxing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoFrames means the audio is shorter than one frame.
var ErrNoFrames = errors.New("нет кадров для рендеринга")

// ErrTooLong means the render has more frames than MaxFrames.
var ErrTooLong = errors.New("слишком длинное видео")

// ErrBusy is returned when Export is called while another run is active.
var ErrBusy = errors.New("экспорт уже выполняется")

// StageError records the phase an export failed in.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
