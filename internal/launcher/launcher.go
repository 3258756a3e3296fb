package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vedantwpatil/presentation-cursor/internal/tracking"
)

// DefaultStopTimeout is how long Deactivate waits for a child before killing it.
const DefaultStopTimeout = 3 * time.Second

// CommandFunc builds the child command that shows the overlay for one monitor.
type CommandFunc func(monitor int) *exec.Cmd

// WindowCommand runs "<executable> window --monitor N".
func WindowCommand(executable string) CommandFunc {
	return func(monitor int) *exec.Cmd {
		return exec.Command(executable, "window", "--monitor", strconv.Itoa(monitor))
	}
}

type child struct {
	monitor int
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	done    chan struct{}
	err     error
}

// Launcher shows the overlay on every monitor by running one child process
// per monitor, and stops them all together.
type Launcher struct {
	locator     tracking.Locator
	command     CommandFunc
	StopTimeout time.Duration

	mu       sync.Mutex
	children []*child
}

func New(locator tracking.Locator, command CommandFunc) *Launcher {
	return &Launcher{
		locator:     locator,
		command:     command,
		StopTimeout: DefaultStopTimeout,
	}
}

// Activate stops any running overlay and starts a child for each monitor.
// If any child fails to start, the ones already started are stopped.
func (l *Launcher) Activate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.stopLocked(); err != nil {
		log.Warn().Err(err).Msg("failed to stop previous overlay processes")
	}

	monitors, err := l.locator.Monitors()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}
	if len(monitors) == 0 {
		return tracking.ErrNoDisplays
	}

	for i := range monitors {
		c, err := l.start(i)
		if err != nil {
			return errors.Join(fmt.Errorf("failed to start overlay for monitor %d: %w", i, err), l.stopLocked())
		}
		l.children = append(l.children, c)
	}

	log.Info().Int("monitors", len(l.children)).Msg("overlay processes started")
	return nil
}

// Deactivate stops every child and reports whether any was running. It is
// safe to call when nothing runs.
func (l *Launcher) Deactivate() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	active := len(l.children) > 0
	return active, l.stopLocked()
}

func (l *Launcher) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children) > 0
}

func (l *Launcher) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.children)
}

func (l *Launcher) start(monitor int) (*child, error) {
	cmd := l.command(monitor)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}

	c := &child{monitor: monitor, cmd: cmd, stdin: stdin, done: make(chan struct{})}
	go func() {
		c.err = cmd.Wait()
		close(c.done)
	}()

	log.Debug().Int("monitor", monitor).Int("pid", cmd.Process.Pid).Msg("overlay process started")
	return c, nil
}

func (l *Launcher) stopLocked() error {
	if len(l.children) == 0 {
		return nil
	}

	// Ask everyone first so the windows go away together.
	for _, c := range l.children {
		if _, err := io.WriteString(c.stdin, StopCommand+"\n"); err != nil {
			log.Debug().Err(err).Int("monitor", c.monitor).Msg("failed to signal overlay process")
		}
		c.stdin.Close()
	}

	var errs []error
	deadline := time.Now().Add(l.StopTimeout)
	for _, c := range l.children {
		if err := c.wait(deadline); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info().Int("monitors", len(l.children)).Msg("overlay processes stopped")
	l.children = nil
	return errors.Join(errs...)
}

// wait gives the child until deadline to exit and kills it after that.
func (c *child) wait(deadline time.Time) error {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-c.done:
		if c.err != nil {
			log.Debug().Err(c.err).Int("monitor", c.monitor).Msg("overlay process exited")
		}
		return nil
	case <-timer.C:
	}

	log.Warn().Int("monitor", c.monitor).Msg("overlay process did not stop in time, killing it")
	if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill overlay process for monitor %d: %w", c.monitor, err)
	}
	<-c.done
	return nil
}
