package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/staffdesk/internal/notify"
	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/session"
	"github.com/kingrea/staffdesk/internal/workflow"
)

// NavigateMsg asks the App to unmount the current screen and show Path.
type NavigateMsg = workflow.NavigateMsg

// Navigate returns a command that moves to path.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// Backend is everything screens need from the gateway.
type Backend interface {
	portal.Reader
	portal.Writer
}

// screen is one route of the console.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Title() string
	Help() []key.Binding
	// Busy reports a pending load or submission.
	Busy() bool
	Resize(width, height int)
	Unmount()
}

// env is what the App hands every screen it mounts.
type env struct {
	backend   Backend
	submitter *portal.Submitter
	actor     session.Actor
	user      session.User
	sink      *notify.Sink

	redirectDelay        time.Duration
	notificationDuration time.Duration
	observer             func(workflow.Transition)

	width  int
	height int
}

func (e *env) workflowConfig(name, redirectTo, loadFailure string) workflow.Config {
	return workflow.Config{
		Name:                 name,
		RedirectTo:           redirectTo,
		LoadFailureRedirect:  loadFailure,
		RedirectDelay:        e.redirectDelay,
		NotificationDuration: e.notificationDuration,
		Sink:                 e.sink,
	}
}

func (e *env) workflowOptions() []workflow.Option {
	return []workflow.Option{workflow.WithObserver(e.observer)}
}

// loadReports fetches the actor's direct reports.
func (e *env) loadReports(ctx context.Context) ([]portal.Employee, error) {
	return portal.LoadScopedCollection[portal.Employee](ctx, e.backend, portal.EmployeesBySupervisor, e.actor.EmployeeID, e.actor)
}

// submit runs one mutation through the submitter.
func (e *env) submit(kind portal.MutationKind, target any) workflow.SubmitFunc {
	return func(ctx context.Context) portal.Result {
		return e.submitter.Submit(ctx, kind, target, e.actor)
	}
}

func (e *env) tableHeight() int {
	if e.height <= 0 {
		return 10
	}
	return max(5, e.height-16)
}

// phaseNote is the placeholder shown while a controller is not Ready.
func phaseNote(phase workflow.Phase, what string) string {
	switch phase {
	case workflow.PhaseIdle, workflow.PhaseLoading:
		return mutedStyle.Render(fmt.Sprintf("Loading %s...", what))
	case workflow.PhaseSubmitting:
		return mutedStyle.Render("Submitting...")
	case workflow.PhaseSettled, workflow.PhaseRedirecting, workflow.PhaseDone:
		return mutedStyle.Render("Redirecting...")
	}
	return ""
}

// inputLocked reports phases in which the screen ignores input.
func inputLocked(phase workflow.Phase) bool {
	return phase != workflow.PhaseReady && phase != workflow.PhaseLoading && phase != workflow.PhaseIdle
}

// newInput returns a text input with a steady cursor.
func newInput(prompt, placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}
