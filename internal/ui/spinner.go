package ui

import (
	"fmt"
	"sync"
	"time"
)

// spinnerFrames is the braille cycle shared with the bubbletea panels'
// spinner so plain commands and panels animate alike.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a line-overwriting progress indicator for plain commands that
// wait on one backend call, where starting a bubbletea program would be
// overkill. The interactive panels use bubbles' spinner instead.
type Spinner struct {
	interval time.Duration

	mu      sync.Mutex
	message string
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner returns a stopped spinner showing message next to the frames.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		interval: 80 * time.Millisecond,
		message:  message,
		done:     make(chan struct{}),
	}
}

// NewFetchSpinner labels a spinner for a backend fetch, e.g. "specs" renders
// as "fetching specs...".
func NewFetchSpinner(resource string) *Spinner {
	return NewSpinner("fetching " + resource + "...")
}

// SetMessage swaps the label mid-run, for commands that fetch in stages.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Start begins animating on stdout. Starting a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frame := 0
		for {
			select {
			case <-s.done:
				return
			case <-time.After(s.interval):
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()
				frame = (frame + 1) % len(spinnerFrames)
				fmt.Printf("\r%s %s", StylePrimary.Render(spinnerFrames[frame]), msg)
			}
		}
	}()
}

// Stop halts the animation and clears the line. Stopping a stopped spinner
// is a no-op.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Printf("\r\033[K")
}
