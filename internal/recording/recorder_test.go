package recording

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/presentation-cursor/internal/config"
	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

type fakeLocator struct {
	mu       sync.Mutex
	cursor   tracking.Point
	monitors []tracking.Rect
}

func (f *fakeLocator) CursorPosition() (tracking.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, nil
}

func (f *fakeLocator) Monitors() ([]tracking.Rect, error) {
	return f.monitors, nil
}

func (f *fakeLocator) MonitorScale(tracking.Point) (tracking.Scale, error) {
	return tracking.Identity, nil
}

func newDesktop() *fakeLocator {
	return &fakeLocator{
		cursor: tracking.Pt(100, 100),
		monitors: []tracking.Rect{
			{Min: tracking.Pt(0, 0), Width: 641, Height: 480},
			{Min: tracking.Pt(641, 0), Width: 320, Height: 240},
		},
	}
}

type fakeWriter struct {
	path          string
	width, height int
	failWrite     error

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (w *fakeWriter) Write(frame []byte) error {
	if w.failWrite != nil {
		return w.failWrite
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames = append(w.frames, bytes.Clone(frame))
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) last() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.frames) == 0 {
		return nil
	}
	return w.frames[len(w.frames)-1]
}

type fakeSink struct {
	mu        sync.Mutex
	writers   []*fakeWriter
	failOpen  int
	failWrite error
}

func (s *fakeSink) open(path string, width, height, fps int) (FrameWriter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOpen > 0 && len(s.writers) == s.failOpen {
		return nil, errors.New("ffmpeg not found")
	}
	w := &fakeWriter{path: path, width: width, height: height, failWrite: s.failWrite}
	s.writers = append(s.writers, w)
	return w, nil
}

func newTestRecorder(t *testing.T, sink *fakeSink) (*Recorder, *config.Config) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Recording.TargetFPS = 100
	cfg.Recording.OutputDir = filepath.Join(t.TempDir(), "captures")

	r := NewRecorder(cfg, newDesktop())
	r.NewWriter = sink.open
	return r, cfg
}

func TestRecorderWritesOneVideoPerMonitor(t *testing.T) {
	sink := &fakeSink{}
	r, cfg := newTestRecorder(t, sink)

	require.NoError(t, r.Start("demo"))
	assert.True(t, r.IsRecording())
	assert.Equal(t, []string{
		filepath.Join(cfg.Recording.OutputDir, "demo-0.mp4"),
		filepath.Join(cfg.Recording.OutputDir, "demo-1.mp4"),
	}, r.OutputPaths())
	assert.DirExists(t, cfg.Recording.OutputDir)

	require.Eventually(t, func() bool { return r.Frames() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop())

	assert.False(t, r.IsRecording())
	assert.True(t, r.IsDone())
	require.Len(t, sink.writers, 2)

	first, second := sink.writers[0], sink.writers[1]
	assert.True(t, first.closed)
	assert.True(t, second.closed)
	assert.Equal(t, 642, first.width)
	assert.Equal(t, 480, first.height)
	assert.Equal(t, 320, second.width)
	assert.Equal(t, r.Frames(), len(first.frames))
	assert.Len(t, first.last(), 642*480*4)
}

func TestRecorderDrawsHighlightOnCursorMonitor(t *testing.T) {
	sink := &fakeSink{}
	r, _ := newTestRecorder(t, sink)

	require.NoError(t, r.Start("demo"))
	require.Eventually(t, func() bool { return r.Frames() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop())

	frame := sink.writers[0].last()
	alpha := func(x, y int) byte { return frame[(y*642+x)*4+3] }
	// Highlight ring of radius 20 around the cursor at (100, 100).
	assert.Greater(t, alpha(120, 100), byte(100))
	assert.Equal(t, byte(0), alpha(100, 100))
	assert.Equal(t, byte(0), alpha(400, 400))

	for _, b := range sink.writers[1].last() {
		if b != 0 {
			t.Fatal("second monitor should stay empty")
		}
	}
}

func TestRecorderStartTwice(t *testing.T) {
	r, _ := newTestRecorder(t, &fakeSink{})

	require.NoError(t, r.Start("demo"))
	assert.ErrorIs(t, r.Start("again"), ErrAlreadyRecording)
	require.NoError(t, r.Stop())

	require.NoError(t, r.Start("again"))
	require.NoError(t, r.Stop())
}

func TestRecorderStopWithoutStart(t *testing.T) {
	r, _ := newTestRecorder(t, &fakeSink{})
	assert.ErrorIs(t, r.Stop(), ErrNotRecording)
	assert.False(t, r.IsDone())
}

func TestRecorderDurationEndsRecording(t *testing.T) {
	r, _ := newTestRecorder(t, &fakeSink{})
	r.Duration = 50 * time.Millisecond
	var out strings.Builder
	bar := NewProgressBar("Recording")
	bar.out = &out
	r.Progress = bar

	require.NoError(t, r.Start("timed"))
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("recording did not end on its own")
	}

	assert.True(t, r.IsDone())
	assert.NoError(t, r.Err())
	assert.ErrorIs(t, r.Stop(), ErrNotRecording)
	assert.Contains(t, out.String(), "100.0%")
}

func TestRecorderOpenFailureClosesOpenedWriters(t *testing.T) {
	sink := &fakeSink{failOpen: 1}
	r, _ := newTestRecorder(t, sink)

	err := r.Start("demo")
	assert.ErrorContains(t, err, "ffmpeg not found")
	assert.False(t, r.IsRecording())
	require.Len(t, sink.writers, 1)
	assert.True(t, sink.writers[0].closed)
}

func TestRecorderWriteFailureEndsRecording(t *testing.T) {
	sink := &fakeSink{failWrite: errors.New("broken pipe")}
	r, _ := newTestRecorder(t, sink)

	require.NoError(t, r.Start("demo"))
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("recording did not stop after a write failure")
	}

	assert.ErrorContains(t, r.Err(), "broken pipe")
	assert.ErrorContains(t, r.Err(), "monitor 0")
	assert.False(t, r.IsRecording())
	assert.True(t, sink.writers[0].closed)
}

func TestRecorderWithoutMonitors(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Recording.OutputDir = t.TempDir()
	r := NewRecorder(cfg, &fakeLocator{})
	r.NewWriter = (&fakeSink{}).open

	assert.ErrorIs(t, r.Start("demo"), tracking.ErrNoDisplays)
	assert.False(t, r.IsRecording())
}

func TestFrameSize(t *testing.T) {
	tests := []struct {
		bounds        tracking.Rect
		width, height int
	}{
		{tracking.Rect{Width: 1920, Height: 1080}, 1920, 1080},
		{tracking.Rect{Width: 1366.5, Height: 767}, 1368, 768},
		{tracking.Rect{Width: 0, Height: 1}, 2, 2},
	}

	for _, tt := range tests {
		w, h := FrameSize(tt.bounds)
		assert.Equal(t, tt.width, w)
		assert.Equal(t, tt.height, h)
	}
}

func TestProgressBar(t *testing.T) {
	var out strings.Builder
	bar := NewProgressBar("Capturing")
	bar.out = &out

	bar.Report(0.5)
	assert.Contains(t, out.String(), "Capturing [===============---------------] 50.0%")

	bar.ReportError(errors.New("disk full"))
	assert.Contains(t, out.String(), "Error: disk full")

	bar.ReportComplete()
	assert.Contains(t, out.String(), "100.0%")
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}
