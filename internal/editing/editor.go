package editing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vedantwpatil/ball-overlay/internal/config"
	"github.com/vedantwpatil/ball-overlay/internal/monitoring"
	"github.com/vedantwpatil/ball-overlay/internal/overlay"
	"github.com/vedantwpatil/ball-overlay/internal/video"
	"gocv.io/x/gocv"
)

type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// ActiveSet answers whether a frame belongs in the output.
type ActiveSet interface {
	IsActive(frame int) bool
}

// Summary describes one finished run.
type Summary struct {
	RunID         string
	FramesRead    int
	FramesWritten int
	FramesSkipped int
	Quit          bool
	Missing       int
	Malformed     int
}

// Editor drives the frame loop: every decoded frame whose index is active is
// rendered and written, in order; the rest are dropped.
type Editor struct {
	config   *config.Config
	active   ActiveSet
	renderer *overlay.Renderer
	progress video.ProgressReporter
	state    State

	openSource func(path string) (video.Source, error)
	createSink func(path string, props video.Properties, codec string) (video.Sink, error)
	newPreview func(props video.Properties) video.Previewer
}

func NewEditor(config *config.Config, active ActiveSet, renderer *overlay.Renderer) *Editor {
	e := &Editor{
		config:   config,
		active:   active,
		renderer: renderer,
		state:    Stopped,
		openSource: func(path string) (video.Source, error) {
			return video.OpenFile(path)
		},
		createSink: func(path string, props video.Properties, codec string) (video.Sink, error) {
			return video.CreateFile(path, props, codec)
		},
	}
	e.newPreview = e.defaultPreview
	return e
}

func (e *Editor) SetProgressReporter(progress video.ProgressReporter) {
	e.progress = progress
}

func (e *Editor) State() State {
	return e.state
}

func (e *Editor) defaultPreview(props video.Properties) video.Previewer {
	if !e.config.Preview.Enabled {
		return video.NopPreviewer{}
	}
	if !video.HasDisplay() {
		monitoring.Logf("Warning: no display, preview disabled")
		return video.NopPreviewer{}
	}
	return video.NewWindowPreviewer(e.config.Preview.WindowName, e.config.Preview.QuitKey[0], props, e.config.Preview.FitToScreen)
}

// Process opens inputPath, creates outputPath with the same size and frame
// rate, and runs the loop over them.
func (e *Editor) Process(ctx context.Context, inputPath, outputPath string) (Summary, error) {
	src, err := e.openSource(inputPath)
	if err != nil {
		return Summary{}, err
	}

	props := src.Properties()
	if e.config.Output.Bitrate > 0 {
		props.Bitrate = e.config.Output.Bitrate
	}

	sink, err := e.createSink(outputPath, props, e.config.Output.Codec)
	if err != nil {
		src.Close()
		return Summary{}, err
	}

	return e.Run(ctx, src, sink, e.newPreview(props))
}

// Run consumes src until end of stream, a quit request, or an error. src, sink
// and preview are closed before Run returns, whatever the exit path.
func (e *Editor) Run(ctx context.Context, src video.Source, sink video.Sink, preview video.Previewer) (summary Summary, err error) {
	summary.RunID = uuid.NewString()
	e.state = Running
	before := e.renderer.Stats()

	defer func() {
		e.state = Stopped
		if cerr := preview.Close(); cerr != nil {
			monitoring.Logf("run %s: failed to close preview: %v", summary.RunID, cerr)
		}
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close source: %w", cerr)
		}
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}

		stats := e.renderer.Stats()
		summary.Missing = stats.Missing - before.Missing
		summary.Malformed = stats.Malformed - before.Malformed
		if e.progress != nil {
			if err != nil {
				e.progress.ReportError(err)
			} else {
				e.progress.ReportComplete()
			}
		}
	}()

	opts := overlay.OptionsFromConfig(e.config.Overlay)
	var trail *overlay.Trail
	if opts.Trail {
		trail = overlay.NewTrail(e.renderer.Style().TrailLength)
	}
	total := src.Properties().Frames

	for frameNumber := 0; ; frameNumber++ {
		if ctx.Err() != nil {
			monitoring.Logf("Exit requested. Stopping processing after %d frames.", summary.FramesRead)
			summary.Quit = true
			return summary, nil
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("failed to read frame %d: %w", frameNumber, err)
		}
		summary.FramesRead++

		if !e.active.IsActive(frameNumber) {
			frame.Close()
			summary.FramesSkipped++
			e.reportProgress(summary.FramesRead, total)
			continue
		}

		quit, err := e.emit(frame, frameNumber, opts, trail, sink, preview)
		if err != nil {
			return summary, err
		}
		summary.FramesWritten++
		e.reportProgress(summary.FramesRead, total)

		if quit {
			monitoring.Logf("Exit key detected. Stopping processing.")
			summary.Quit = true
			return summary, nil
		}
	}
}

// emit renders one active frame, writes it and shows it. It closes frame and
// the rendered copy.
func (e *Editor) emit(frame gocv.Mat, frameNumber int, opts overlay.Options, trail *overlay.Trail, sink video.Sink, preview video.Previewer) (bool, error) {
	processed := e.renderer.Render(frame, frameNumber, opts, trail)
	frame.Close()
	defer processed.Close()

	if err := sink.Write(processed); err != nil {
		return false, fmt.Errorf("failed to write frame %d: %w", frameNumber, err)
	}
	return preview.Show(processed), nil
}

func (e *Editor) reportProgress(read, total int) {
	if e.progress == nil || total <= 0 {
		return
	}
	e.progress.Report(float64(read) / float64(total))
}
