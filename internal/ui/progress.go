package ui

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner wraps an indeterminate progressbar/v3 bar shown while brew runs
type Spinner struct {
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner on w; it is disabled when w is not a terminal
func NewSpinner(w io.Writer, description string) *Spinner {
	if !IsTerminal(w) {
		return &Spinner{}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	return &Spinner{bar: bar}
}

// Enabled reports whether the spinner renders anything
func (s *Spinner) Enabled() bool {
	return s.bar != nil
}

// Start animates the spinner until Stop is called
func (s *Spinner) Start() {
	if s.bar == nil || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
}

// Describe changes the description of the spinner
func (s *Spinner) Describe(description string) {
	if s.bar != nil {
		s.bar.Describe(description)
	}
}

// Stop halts the animation and clears the line
func (s *Spinner) Stop() {
	if s.bar == nil {
		return
	}
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	_ = s.bar.Finish()
}

// IsTerminal reports whether w is a character device
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
