package video

import (
	"os"
	"runtime"

	"github.com/go-vgo/robotgo"
	"gocv.io/x/gocv"
)

// HasDisplay reports whether a window can be opened. On X11 and Wayland
// systems that means DISPLAY or WAYLAND_DISPLAY is set; other platforms always
// have a desktop session.
func HasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin", "ios", "android":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WindowPreviewer shows frames in a HighGUI window and polls for the quit key
// after each one.
type WindowPreviewer struct {
	window  *gocv.Window
	quitKey int
}

// NewWindowPreviewer opens the preview window. When fitToScreen is set and the
// video is larger than the primary display, the window is scaled down to fit.
func NewWindowPreviewer(name string, quitKey byte, props Properties, fitToScreen bool) *WindowPreviewer {
	window := gocv.NewWindow(name)

	if fitToScreen && props.Width > 0 && props.Height > 0 {
		screenW, screenH := robotgo.GetScreenSize()
		if w, h := fitWithin(props.Width, props.Height, screenW, screenH); w != props.Width || h != props.Height {
			window.ResizeWindow(w, h)
		}
	}

	return &WindowPreviewer{window: window, quitKey: int(quitKey)}
}

func (p *WindowPreviewer) Show(frame gocv.Mat) bool {
	p.window.IMShow(frame)
	key := p.window.WaitKey(1)
	return key >= 0 && key&0xFF == p.quitKey
}

func (p *WindowPreviewer) Close() error {
	return p.window.Close()
}

// fitWithin scales w x h down, keeping its aspect ratio, until it fits inside
// maxW x maxH. Sizes that already fit, or an unknown screen, are returned as is.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	fw, fh := int(float64(w)*scale), int(float64(h)*scale)
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}
	return fw, fh
}
