// internal/tui/app.go
//
// The console TUI. It uses bubbletea (The Elm Architecture): the App owns
// the mounted screen and routes every message to it. Screens run their
// load/submit/redirect cycle through a workflow.Controller and ask for
// navigation with NavigateMsg; the App unmounts the old screen before
// mounting the next one.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/logbook"
	"github.com/kingrea/staffdesk/internal/notify"
	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/session"
	"github.com/kingrea/staffdesk/internal/workflow"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook journals navigation and workflow transitions to lb.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// WithTimings overrides the redirect delay and notification duration.
func WithTimings(redirectDelay, notificationDuration time.Duration) AppOption {
	return func(a *App) {
		if redirectDelay > 0 {
			a.env.redirectDelay = redirectDelay
		}
		if notificationDuration > 0 {
			a.env.notificationDuration = notificationDuration
		}
	}
}

// WithStartRoute picks the first screen. The default is the supervisor portal.
func WithStartRoute(path string) AppOption {
	return func(a *App) {
		if p := strings.TrimSpace(path); p != "" {
			a.startRoute = p
		}
	}
}

// App is the main application model.
type App struct {
	env        *env
	logbook    *logbook.Logbook
	startRoute string

	route   route
	current screen

	spinner  spinner.Model
	spinning bool
	help     help.Model

	statusMsg string

	width  int
	height int
}

// NewApp builds the console for an authenticated actor.
func NewApp(backend Backend, actor session.Actor, user session.User, opts ...AppOption) (*App, error) {
	if backend == nil {
		return nil, fmt.Errorf("tui: backend is required")
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(accentColor)))
	a := &App{
		env: &env{
			backend:              backend,
			submitter:            portal.NewSubmitter(backend),
			actor:                actor,
			user:                 user,
			sink:                 notify.New(),
			redirectDelay:        workflow.DefaultRedirectDelay,
			notificationDuration: workflow.DefaultNotificationDuration,
		},
		startRoute: RouteSupervisor,
		spinner:    sp,
		help:       help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.env.observer = a.observeTransition
	r, err := parseRoute(a.startRoute)
	if err != nil {
		return nil, err
	}
	a.mount(r)
	a.logInfo("Session opened · %s (#%d)", user.DisplayName(), actor.EmployeeID)
	return a, nil
}

// Route returns the path of the mounted screen.
func (a *App) Route() string {
	return a.route.path
}

// Notification exposes the visible banner.
func (a *App) Notification() (notify.Notification, bool) {
	return a.env.sink.Current()
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.current.Init(), a.ensureSpinner())
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.env.sink.Update(msg) {
		return a, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.env.width = msg.Width
		a.env.height = msg.Height
		a.help.Width = msg.Width
		a.current.Resize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.current.Busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case NavigateMsg:
		return a, a.navigate(msg)

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			a.logInfo("Session closed")
			return a, tea.Quit
		}
		if a.route.kind == routeHome && key.Matches(msg, keys.Quit) {
			a.logInfo("Session closed")
			return a, tea.Quit
		}
		a.statusMsg = ""
	}

	cmd := a.current.Update(msg)
	return a, tea.Batch(cmd, a.ensureSpinner())
}

func (a *App) navigate(msg NavigateMsg) tea.Cmd {
	switch msg.Outcome.Kind {
	case portal.Success:
		a.logInfo("Submission succeeded")
	case portal.Failure:
		a.logError("Request failed: %v", msg.Outcome.Cause)
	}
	r, err := parseRoute(msg.Path)
	if err != nil {
		a.logWarn("Navigation to %q refused: %v", msg.Path, err)
		a.statusMsg = fmt.Sprintf("Unknown route %s", msg.Path)
		r = route{kind: routeHome, id: a.env.actor.EmployeeID, path: HomeRoute(a.env.actor.EmployeeID)}
	}
	if a.current != nil {
		a.current.Unmount()
	}
	a.mount(r)
	a.logInfo("Navigate · %s", r.path)
	return tea.Batch(a.current.Init(), a.ensureSpinner())
}

func (a *App) mount(r route) {
	a.route = r
	switch r.kind {
	case routeSupervisor:
		a.current = newListingScreen(a.env)
	case routeEmployee:
		a.current = newDetailScreen(a.env, r.id)
	case routeRemove:
		a.current = newRemoveScreen(a.env)
	case routeCreate:
		a.current = newCreateScreen(a.env)
	case routeApprovers:
		a.current = newApproverScreen(a.env)
	default:
		a.current = newHomeScreen(a.env, r.id)
	}
}

// ensureSpinner starts the spinner when the screen turns busy.
func (a *App) ensureSpinner() tea.Cmd {
	if a.spinning || a.current == nil || !a.current.Busy() {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) observeTransition(t workflow.Transition) {
	a.logInfo("Workflow · %s %s → %s", t.Controller, t.From, t.To)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := headerStyle.Render("⬡ STAFFDESK") + mutedStyle.Render("  "+a.env.user.DisplayName())
	title := a.current.Title()
	if a.current.Busy() {
		title = a.spinner.View() + " " + title
	}
	parts := []string{header, ""}
	if banner := a.env.sink.View(); banner != "" {
		parts = append(parts, banner, "")
	}
	parts = append(parts,
		titleStyle.Render(title),
		a.current.View(),
		"",
		a.help.ShortHelpView(a.current.Help()),
	)
	if a.statusMsg != "" {
		parts = append(parts, hintStyle.Render(a.statusMsg))
	}
	main := boxStyle.Width(max(40, width-4)).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if panel := a.renderLogPanel(width); panel != "" {
		return lipgloss.JoinVertical(lipgloss.Left, main, panel)
	}
	return main
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return boxStyle.Width(max(40, width-4)).Render(fmt.Sprintf("%s\n%s", head, body))
}
