package launcher

import (
	"bufio"
	"io"
	"strings"
)

// StopCommand is the line a parent writes to a child's stdin to stop it.
const StopCommand = "q"

// WaitForStop returns a channel that is closed once r delivers StopCommand
// on a line of its own, or reaches EOF. A parent that dies closes the pipe,
// so the child stops with it.
func WaitForStop(r io.Reader) <-chan struct{} {
	stop := make(chan struct{})
	go func() {
		defer close(stop)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == StopCommand {
				return
			}
		}
	}()
	return stop
}
