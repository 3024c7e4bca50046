// Package notify is the transient notification banner. At most one
// notification is visible; a new Show preempts the current one and restarts
// its timer.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Variant selects the banner style.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

var variantStyles = map[Variant]lipgloss.Style{
	VariantSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#0B3D20")).Background(lipgloss.Color("#4CAF50")).Bold(true).Padding(0, 1),
	VariantError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#FF6B6B")).Bold(true).Padding(0, 1),
	VariantInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1),
}

// DefaultDuration is used when Show is given a non-positive duration.
const DefaultDuration = time.Second

// Notification is the visible banner.
type Notification struct {
	Message  string
	Variant  Variant
	Duration time.Duration
}

// expiredMsg hides the notification shown at generation gen.
type expiredMsg struct {
	gen int
}

// Sink holds the single visible notification.
type Sink struct {
	current *Notification
	gen     int
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// Show displays message for duration and returns the timer command that
// hides it. Any visible notification is replaced. A non-positive duration
// means DefaultDuration.
func (s *Sink) Show(message string, variant Variant, duration time.Duration) tea.Cmd {
	if duration <= 0 {
		duration = DefaultDuration
	}
	s.gen++
	s.current = &Notification{Message: message, Variant: variant, Duration: duration}
	gen := s.gen
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return expiredMsg{gen: gen}
	})
}

// Clear hides the current notification immediately. Pending timers become
// stale.
func (s *Sink) Clear() {
	s.gen++
	s.current = nil
}

// Current returns the visible notification, if any.
func (s *Sink) Current() (Notification, bool) {
	if s == nil || s.current == nil {
		return Notification{}, false
	}
	return *s.current, true
}

// Update consumes the sink's timer messages and reports whether msg
// belonged to the sink.
func (s *Sink) Update(msg tea.Msg) bool {
	m, ok := msg.(expiredMsg)
	if !ok {
		return false
	}
	if m.gen == s.gen {
		s.current = nil
	}
	return true
}

// View renders the banner, or "" when nothing is visible.
func (s *Sink) View() string {
	n, ok := s.Current()
	if !ok {
		return ""
	}
	style, found := variantStyles[n.Variant]
	if !found {
		style = variantStyles[VariantInfo]
	}
	return style.Render(n.Message)
}
