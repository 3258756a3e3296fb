package recording

import (
	"fmt"
	"math"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// FrameWriter consumes tightly packed RGBA frames of a fixed size.
type FrameWriter interface {
	Write(frame []byte) error
	Close() error
}

// WriterFunc opens a FrameWriter for a width x height video at fps.
type WriterFunc func(path string, width, height, fps int) (FrameWriter, error)

type videoWriter struct {
	writer *vidio.VideoWriter
}

// NewVideoWriter encodes frames to path with ffmpeg through Vidio.
func NewVideoWriter(path string, width, height, fps int) (FrameWriter, error) {
	options := vidio.Options{
		FPS:   float64(fps),
		Codec: "libx264",
	}

	writer, err := vidio.NewVideoWriter(path, width, height, &options)
	if err != nil {
		return nil, fmt.Errorf("failed to open video writer for %s: %w", path, err)
	}
	return &videoWriter{writer: writer}, nil
}

func (v *videoWriter) Write(frame []byte) error {
	return v.writer.Write(frame)
}

func (v *videoWriter) Close() error {
	v.writer.Close()
	return nil
}

// FrameSize returns the pixel size of a capture of bounds, rounded up to even
// dimensions so yuv420p encoders accept it.
func FrameSize(bounds tracking.Rect) (width, height int) {
	return even(bounds.Width), even(bounds.Height)
}

func even(f float64) int {
	n := int(math.Ceil(f))
	if n < 2 {
		return 2
	}
	return n + n%2
}
