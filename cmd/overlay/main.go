package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/vedantwpatil/ball-overlay/internal/config"
	"github.com/vedantwpatil/ball-overlay/internal/editing"
	"github.com/vedantwpatil/ball-overlay/internal/overlay"
	"github.com/vedantwpatil/ball-overlay/internal/predictions"
	"github.com/vedantwpatil/ball-overlay/internal/tracking"
	"github.com/vedantwpatil/ball-overlay/internal/video"
)

type cliArgs struct {
	inputPath       string
	configPath      string
	predictionsPath string
	outputPath      string
	filters         bool
	trackBall       bool
	trail           bool
	preview         bool
	hotkey          bool
	set             map[string]bool
}

// parseArgs accepts flags before or after the input video path.
func parseArgs(args []string, stderr io.Writer) (*cliArgs, error) {
	a := &cliArgs{}
	fs := flag.NewFlagSet("overlay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: overlay [flags] <input-video>")
		fmt.Fprintln(stderr, "Process video with effects and tracking")
		fs.PrintDefaults()
	}

	fs.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&a.predictionsPath, "predictions", config.DefaultPredictionsPath, "Prediction table (.csv, .db, .sqlite)")
	fs.StringVar(&a.outputPath, "output", config.DefaultOutputPath, "Output video path")
	fs.BoolVar(&a.filters, "filters", false, "Apply black-and-white filter to the video")
	fs.BoolVar(&a.trackBall, "track_ball", false, "Mark the predicted ball position")
	fs.BoolVar(&a.trail, "trail", false, "Add a trail to the ball movement")
	fs.BoolVar(&a.preview, "preview", true, "Show frames while processing (press q to quit)")
	fs.BoolVar(&a.hotkey, "hotkey", false, "Listen for ctrl+shift+q to stop processing")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected one input video, got %d arguments", len(positional))
	}
	a.inputPath = positional[0]

	a.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { a.set[f.Name] = true })
	return a, nil
}

// buildConfig layers defaults, the optional config file and explicit flags, in
// that order.
func buildConfig(a *cliArgs) (*config.Config, error) {
	cfg := config.NewConfig()
	if a.configPath != "" {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if a.set["predictions"] {
		cfg.Predictions.Path = a.predictionsPath
	}
	if a.set["output"] {
		cfg.Output.Path = a.outputPath
	}
	if a.set["filters"] {
		cfg.Overlay.Grayscale = a.filters
	}
	if a.set["track_ball"] {
		cfg.Overlay.Marker = a.trackBall
	}
	if a.set["trail"] {
		cfg.Overlay.Trail = a.trail
		if a.trail {
			cfg.Overlay.Marker = true
		}
	}
	if a.set["preview"] {
		cfg.Preview.Enabled = a.preview
	}
	if a.set["hotkey"] {
		cfg.Hotkey.Enabled = a.hotkey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Application struct {
	config *config.Config
	store  *predictions.Store
	editor *editing.Editor
	ctx    context.Context
	cancel context.CancelFunc
}

func NewApplication(cfg *config.Config) (*Application, error) {
	cols := cfg.Predictions.Columns
	store, err := predictions.Load(cfg.Predictions.Path, cfg.Predictions.Table, predictions.Columns{
		Frame:  cols.Frame,
		Active: cols.Active,
		X:      cols.X,
		Y:      cols.Y,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded %d predictions (%d active frames) from %s\n", store.Len(), store.ActiveCount(), cfg.Predictions.Path)

	renderer := overlay.NewRenderer(store, overlay.StyleFromConfig(cfg.Overlay))
	editor := editing.NewEditor(cfg, store, renderer)
	editor.SetProgressReporter(video.NewProgressBar(os.Stdout, "Rendering"))

	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		config: cfg,
		store:  store,
		editor: editor,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Run renders inputPath into the configured output. The preview quit key and
// the global hotkey stop it cleanly with the output finalized. SIGINT and
// SIGTERM are left to the video backend, which kills ffmpeg and exits 1.
func (app *Application) Run(inputPath string) error {
	defer app.cancel()

	if app.config.Hotkey.Enabled {
		tracking.ListenForQuit(app.ctx, app.config.Hotkey.Keys, app.Stop)
	}
	fmt.Println(app.quitHint())

	summary, err := app.editor.Process(app.ctx, inputPath, app.config.Output.Path)
	if err != nil {
		return err
	}

	if summary.Quit {
		fmt.Println("Processing stopped early.")
	}
	fmt.Printf("Run %s: wrote %d of %d frames to %s (%d inactive skipped)\n",
		summary.RunID, summary.FramesWritten, summary.FramesRead, app.config.Output.Path, summary.FramesSkipped)
	if summary.Missing > 0 || summary.Malformed > 0 {
		fmt.Printf("%d frames used the frame center, %d frames were left unannotated\n", summary.Missing, summary.Malformed)
	}
	return nil
}

// Stop ends the run after the current frame. It is safe to call more than
// once and from any goroutine.
func (app *Application) Stop() {
	app.cancel()
}

func (app *Application) quitHint() string {
	var ways []string
	if app.config.Preview.Enabled {
		ways = append(ways, fmt.Sprintf("press %s in the preview window", app.config.Preview.QuitKey))
	}
	if app.config.Hotkey.Enabled {
		ways = append(ways, "press "+strings.Join(app.config.Hotkey.Keys, "+"))
	}
	if len(ways) == 0 {
		return "Ctrl+C aborts without finalizing the output."
	}
	return "To stop early, " + strings.Join(ways, " or ") + ". Ctrl+C aborts without finalizing the output."
}

func run(args []string) int {
	cli, err := parseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Printf("Error: %v", err)
		return 2
	}

	cfg, err := buildConfig(cli)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	app, err := NewApplication(cfg)
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}

	if err := app.Run(cli.inputPath); err != nil {
		var sue *video.SourceUnavailableError
		if errors.As(err, &sue) {
			log.Printf("Error: Unable to open the video file %s: %v", sue.Path, sue.Err)
			return 1
		}
		log.Printf("Application error: %v", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
