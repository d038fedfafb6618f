package window

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Window is a trailing lookback period over a price history.
type Window string

const (
	OneMonth    Window = "1M"
	ThreeMonths Window = "3M"
	SixMonths   Window = "6M"
	All         Window = "ALL"
)

var ErrUnknownWindow = errors.New("window: unknown selection")

var days = map[Window]int{
	OneMonth:    30,
	ThreeMonths: 90,
	SixMonths:   180,
}

// Values returns every window in display order.
func Values() []Window {
	return []Window{OneMonth, ThreeMonths, SixMonths, All}
}

// Days returns the calendar-day length of w. ok is false for All.
func (w Window) Days() (n int, ok bool) {
	n, ok = days[w]
	return n, ok
}

// Valid reports whether w belongs to the enumeration.
func (w Window) Valid() bool {
	if w == All {
		return true
	}
	_, ok := days[w]
	return ok
}

func (w Window) String() string { return string(w) }

// Parse accepts a window label case-insensitively.
func Parse(s string) (Window, error) {
	w := Window(strings.ToUpper(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

// Selector holds the currently selected window. The zero value selects All.
type Selector struct {
	mu      sync.RWMutex
	current Window
}

func NewSelector() *Selector {
	return &Selector{current: All}
}

func (s *Selector) Current() Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return All
	}
	return s.current
}

// Set replaces the selection. Values outside the enumeration are rejected and leave it unchanged.
func (s *Selector) Set(w Window) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, string(w))
	}
	s.mu.Lock()
	s.current = w
	s.mu.Unlock()
	return nil
}

// Reset goes back to All.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.current = All
	s.mu.Unlock()
}
