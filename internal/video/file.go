package video

import (
	"errors"
	"fmt"
	"io"
	"os"

	vidio "github.com/AlexEidt/Vidio"
	"gocv.io/x/gocv"
)

// FileSource decodes a video file through ffmpeg. Vidio hands back RGBA
// buffers, which are converted to BGR Mats.
type FileSource struct {
	video  *vidio.Video
	props  Properties
	closed bool
}

func OpenFile(path string) (*FileSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}

	video, err := vidio.NewVideo(path)
	if err != nil {
		return nil, &SourceUnavailableError{Path: path, Err: err}
	}

	return &FileSource{
		video: video,
		props: Properties{
			Width:   video.Width(),
			Height:  video.Height(),
			FPS:     video.FPS(),
			Bitrate: video.Bitrate(),
			Frames:  video.Frames(),
		},
	}, nil
}

func (s *FileSource) Properties() Properties {
	return s.props
}

func (s *FileSource) Next() (gocv.Mat, error) {
	if s.closed {
		return gocv.Mat{}, errors.New("read from closed source")
	}
	if !s.video.Read() {
		return gocv.Mat{}, io.EOF
	}

	rgba, err := gocv.NewMatFromBytes(s.props.Height, s.props.Width, gocv.MatTypeCV8UC4, s.video.FrameBuffer())
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap decoded frame: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

func (s *FileSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.video.Close()
	return nil
}

// FileSink encodes BGR Mats into a video file through ffmpeg.
type FileSink struct {
	writer *vidio.VideoWriter
	closed bool
}

// CreateFile opens an encoder at path sized and timed like props. A zero
// bitrate lets ffmpeg choose.
func CreateFile(path string, props Properties, codec string) (*FileSink, error) {
	options := vidio.Options{
		FPS:     props.FPS,
		Bitrate: props.Bitrate,
		Codec:   codec,
	}

	writer, err := vidio.NewVideoWriter(path, props.Width, props.Height, &options)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize video writer for %s: %w", path, err)
	}
	return &FileSink{writer: writer}, nil
}

func (s *FileSink) Write(frame gocv.Mat) error {
	if s.closed {
		return errors.New("write to closed sink")
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(frame, &rgba, gocv.ColorBGRToRGBA)

	if err := s.writer.Write(rgba.ToBytes()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.writer.Close()
	return nil
}
