// Package overlay draws ball predictions onto decoded frames.
package overlay

import (
	"errors"
	"image"
	"image/color"

	"github.com/vedantwpatil/ball-overlay/internal/config"
	"github.com/vedantwpatil/ball-overlay/internal/monitoring"
	"github.com/vedantwpatil/ball-overlay/internal/predictions"
	"gocv.io/x/gocv"
)

var (
	// ErrMissingPrediction means no record exists for the frame. The frame
	// center is used instead.
	ErrMissingPrediction = errors.New("no prediction for frame")
	// ErrMalformedPrediction means the frame's record has no coordinates. The
	// frame is left unannotated.
	ErrMalformedPrediction = errors.New("prediction record has no coordinates")
)

// Options toggles each overlay independently. Trail implies the marker.
type Options struct {
	Grayscale bool
	Marker    bool
	Trail     bool
}

func OptionsFromConfig(cfg config.OverlayConfig) Options {
	return Options{
		Grayscale: cfg.Grayscale,
		Marker:    cfg.Marker,
		Trail:     cfg.Trail,
	}
}

func (o Options) annotates() bool {
	return o.Marker || o.Trail
}

type Style struct {
	MarkerRadius  int
	MarkerColor   color.RGBA
	TrailRadius   int
	TrailLength   int
	TrailFadeStep int
}

func DefaultStyle() Style {
	return Style{
		MarkerRadius:  10,
		MarkerColor:   color.RGBA{R: 0, G: 255, B: 0, A: 255},
		TrailRadius:   5,
		TrailLength:   30,
		TrailFadeStep: 8,
	}
}

func StyleFromConfig(cfg config.OverlayConfig) Style {
	s := DefaultStyle()
	s.MarkerRadius = cfg.MarkerRadius
	s.TrailRadius = cfg.TrailRadius
	s.TrailLength = cfg.TrailLength
	s.TrailFadeStep = cfg.TrailFadeStep
	return s
}

// RecordSource is the part of predictions.Store the renderer reads.
type RecordSource interface {
	Record(frame int) (predictions.Record, bool)
}

type Stats struct {
	Missing   int
	Malformed int
}

type Renderer struct {
	records RecordSource
	style   Style
	stats   Stats
}

func NewRenderer(records RecordSource, style Style) *Renderer {
	return &Renderer{records: records, style: style}
}

func (r *Renderer) Style() Style { return r.style }
func (r *Renderer) Stats() Stats { return r.stats }

// Render returns an annotated copy of frame, a BGR Mat. The caller owns and
// must close the result. When opts.Trail is set the resolved position is
// pushed onto trail before drawing it.
func (r *Renderer) Render(frame gocv.Mat, frameNumber int, opts Options, trail *Trail) gocv.Mat {
	out := frame.Clone()

	if opts.Grayscale {
		Grayscale(&out)
	}
	if !opts.annotates() {
		return out
	}

	pos, err := r.resolve(frameNumber, out.Cols(), out.Rows())
	switch {
	case errors.Is(err, ErrMalformedPrediction):
		r.stats.Malformed++
		monitoring.Logf("Error: frame %d: %v, skipping annotation", frameNumber, err)
		return out
	case errors.Is(err, ErrMissingPrediction):
		r.stats.Missing++
		monitoring.Logf("Warning: %v %d, defaulting to center (%d, %d)", err, frameNumber, pos.X, pos.Y)
	}

	gocv.Circle(&out, pos, r.style.MarkerRadius, r.style.MarkerColor, -1)

	if opts.Trail && trail != nil {
		trail.Push(pos)
		r.drawTrail(&out, trail)
	}
	return out
}

// resolve picks the position to annotate. On ErrMissingPrediction the
// returned point is the frame center and is still usable.
func (r *Renderer) resolve(frameNumber, width, height int) (image.Point, error) {
	rec, ok := r.records.Record(frameNumber)
	if !ok {
		return image.Pt(width/2, height/2), ErrMissingPrediction
	}
	if !rec.HasPosition {
		return image.Point{}, ErrMalformedPrediction
	}
	return rec.Position, nil
}

// drawTrail paints the newest TrailLength points oldest first, so the most
// recent point ends up on top.
func (r *Renderer) drawTrail(img *gocv.Mat, trail *Trail) {
	points := trail.Recent()
	if len(points) > r.style.TrailLength {
		points = points[:r.style.TrailLength]
	}
	for i := len(points) - 1; i >= 0; i-- {
		v := FadeIntensity(i, r.style.TrailFadeStep)
		gocv.Circle(img, points[i], r.style.TrailRadius, color.RGBA{R: v, G: v, B: v, A: 255}, -1)
	}
}

// Grayscale desaturates a BGR Mat in place, keeping three channels.
func Grayscale(img *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)
	gocv.CvtColor(gray, img, gocv.ColorGrayToBGR)
}
