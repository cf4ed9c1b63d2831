package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated progress indicator on a terminal. Callers
// should only start one when the effective mode is text.
type Spinner struct {
	out    io.Writer
	styles *Styles
	msg    string
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewSpinner creates a spinner bound to the renderer's output.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{
		out:    r.out,
		styles: r.styles,
		msg:    msg,
		done:   make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\x1b[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", s.styles.Info.Render(spinnerFrames[frame%len(spinnerFrames)]), s.msg)
				frame++
			}
		}
	}()
}

func (s *Spinner) stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(msg string) {
	s.stop()
	fmt.Fprintln(s.out, s.styles.StatusSuccess.String()+" "+msg)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.stop()
	fmt.Fprintln(s.out, s.styles.StatusFailed.String()+" "+msg)
}
