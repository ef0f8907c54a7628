package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Properties describes the stream a Source decodes. Sinks are created with the
// same values so output matches input.
type Properties struct {
	Width   int
	Height  int
	FPS     float64
	Bitrate int
	Frames  int // 0 when the container does not report a count
}

// Source yields BGR frames in order. Next returns io.EOF after the last frame.
// The caller owns every Mat it returns.
type Source interface {
	Properties() Properties
	Next() (gocv.Mat, error)
	Close() error
}

type Sink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// Previewer shows frames while they are written. Show reports true when the
// viewer asked to stop.
type Previewer interface {
	Show(frame gocv.Mat) bool
	Close() error
}

type ProgressReporter interface {
	Report(progress float64)
	ReportError(err error)
	ReportComplete()
}

// SourceUnavailableError is returned when the input video cannot be opened.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("unable to open the video file %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// NopPreviewer is used when no preview window is wanted.
type NopPreviewer struct{}

func (NopPreviewer) Show(gocv.Mat) bool { return false }
func (NopPreviewer) Close() error       { return nil }
