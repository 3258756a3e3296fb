package recording

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/overlay"
	"github.com/vedantwpatil/presentation-cursor/internal/render"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

var (
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// Recorder captures what the overlay would draw on every monitor into one
// video per monitor, without opening any windows.
type Recorder struct {
	config  *config.Config
	locator tracking.Locator

	// NewWriter opens the per-monitor sink. Defaults to NewVideoWriter.
	NewWriter WriterFunc
	// Duration, when positive, ends the recording on its own.
	Duration time.Duration
	// Progress, when set together with Duration, is told how far along the
	// recording is.
	Progress ProgressReporter

	isRecording bool
	isDone      bool
	stopping    bool
	outputPaths []string
	frames      int
	err         error
	stopChan    chan struct{}
	doneChan    chan struct{}
	mu          sync.Mutex
}

type capture struct {
	index  int
	path   string
	canvas *render.Canvas
	frame  *image.RGBA
	writer FrameWriter
}

func NewRecorder(config *config.Config, locator tracking.Locator) *Recorder {
	return &Recorder{
		config:    config,
		locator:   locator,
		NewWriter: NewVideoWriter,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start opens one video per monitor named <baseName>-<index>.mp4 in the
// configured output directory and begins capturing.
func (r *Recorder) Start(baseName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRecording {
		return ErrAlreadyRecording
	}

	outputDir := r.config.Recording.OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	windows := overlay.NewCanvasWindows()
	session := overlay.NewSession(r.locator, windows, overlay.OptionsFromConfig(r.config))
	if err := session.Activate(); err != nil {
		return fmt.Errorf("failed to start overlay capture: %w", err)
	}

	captures, err := r.openCaptures(windows.Windows(), outputDir, baseName)
	if err != nil {
		return errors.Join(err, session.Deactivate())
	}

	r.outputPaths = make([]string, len(captures))
	for i, c := range captures {
		r.outputPaths[i] = c.path
	}
	r.isRecording = true
	r.isDone = false
	r.stopping = false
	r.frames = 0
	r.err = nil
	r.stopChan = make(chan struct{})
	r.doneChan = make(chan struct{})

	log.Info().Strs("outputs", r.outputPaths).Int("fps", r.config.Recording.TargetFPS).Msg("recording started")

	go r.record(session, captures, r.stopChan, r.doneChan)
	return nil
}

func (r *Recorder) openCaptures(windows []*overlay.CanvasWindow, outputDir, baseName string) ([]*capture, error) {
	captures := make([]*capture, 0, len(windows))
	for _, w := range windows {
		spec := w.Spec()
		width, height := FrameSize(spec.Bounds)
		path := filepath.Join(outputDir, fmt.Sprintf("%s-%d.mp4", baseName, spec.Index))

		writer, err := r.NewWriter(path, width, height, r.config.Recording.TargetFPS)
		if err != nil {
			return nil, errors.Join(err, closeCaptures(captures))
		}
		captures = append(captures, &capture{
			index:  spec.Index,
			path:   path,
			canvas: w.Canvas(),
			frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
			writer: writer,
		})
	}
	return captures, nil
}

func (r *Recorder) record(session *overlay.Session, captures []*capture, stop, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if r.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Duration)
		defer cancel()
	}
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	err := session.Run(ctx, r.config.Recording.TargetFPS, func() error {
		for _, c := range captures {
			render.Clear(c.frame)
			render.Rasterize(c.frame, c.canvas.Primitives())
			if err := c.writer.Write(c.frame.Pix); err != nil {
				return fmt.Errorf("failed to write frame for monitor %d: %w", c.index, err)
			}
		}

		r.mu.Lock()
		r.frames++
		r.mu.Unlock()

		if r.Progress != nil && r.Duration > 0 {
			r.Progress.Report(float64(time.Since(start)) / float64(r.Duration))
		}
		return nil
	})
	err = errors.Join(err, closeCaptures(captures), session.Deactivate())

	if r.Progress != nil {
		if err != nil {
			r.Progress.ReportError(err)
		} else {
			r.Progress.ReportComplete()
		}
	}

	r.mu.Lock()
	r.isRecording = false
	r.isDone = true
	r.err = err
	frames := r.frames
	r.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Int("frames", frames).Msg("recording failed")
		return
	}
	log.Info().Int("frames", frames).Dur("elapsed", time.Since(start)).Msg("recording finished")
}

// Stop ends the recording and waits until every video is closed. It returns
// the error that ended the recording, if any.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.isRecording {
		r.mu.Unlock()
		return ErrNotRecording
	}
	if !r.stopping {
		r.stopping = true
		close(r.stopChan)
	}
	done := r.doneChan
	r.mu.Unlock()

	<-done
	return r.Err()
}

// Done is closed when the current recording has finished.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneChan
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRecording
}

func (r *Recorder) IsDone() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isDone
}

func (r *Recorder) OutputPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.outputPaths))
	copy(out, r.outputPaths)
	return out
}

// Frames is the number of frames written per monitor so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func closeCaptures(captures []*capture) error {
	var errs []error
	for _, c := range captures {
		if err := c.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", c.path, err))
		}
	}
	return errors.Join(errs...)
}
