package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a braille spinner next to a message while a slow
// operation runs. On a non-terminal it degrades to a single line.
type Spinner struct {
	message string
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.done:
				fmt.Print("\r\033[K")
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
				frame++
			}
		}
	}()
}

// Stop stops the animation and clears its line.
func (s *Spinner) Stop() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}
	close(s.done)
	s.wg.Wait()
}

// Progress is a counted "(n/total)" indicator for loops over known
// work. Like Spinner it stays silent on a non-terminal.
type Progress struct {
	total   int
	current int
	message string
	mu      sync.Mutex
}

// NewProgress creates a progress indicator for total steps.
func NewProgress(message string, total int) *Progress {
	return &Progress{
		message: message,
		total:   total,
	}
}

// Increment advances the indicator by one step.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.current++
	current := p.current
	p.mu.Unlock()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("\r%s %s", p.message, Muted.Render(fmt.Sprintf("(%d/%d)", current, p.total)))
	}
}

// Done clears the indicator line.
func (p *Progress) Done() {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print("\r\033[K")
	}
}
