package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuItem implements list.Item for the dashboard menu.
type menuItem struct {
	title string
	desc  string
	route string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type homeScreen struct {
	env  *env
	id   int
	menu list.Model
}

func newHomeScreen(e *env, id int) *homeScreen {
	items := []list.Item{
		menuItem{title: "Supervisor Portal", desc: "Browse and search your direct reports", route: RouteSupervisor},
		menuItem{title: "Remove From Project", desc: "End project assignments of your reports", route: RouteRemove},
		menuItem{title: "Create Project", desc: "Open a new project you supervise", route: RouteCreate},
		menuItem{title: "Timesheet Approvers", desc: "Assign or revoke secondary approver status", route: RouteApprovers},
		menuItem{title: "Exit", desc: "Quit staffdesk"},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = fmt.Sprintf("Dashboard · %s", e.user.DisplayName())
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.DisableQuitKeybindings()
	s := &homeScreen{env: e, id: id, menu: menu}
	s.Resize(e.width, e.height)
	return s
}

func (s *homeScreen) Init() tea.Cmd { return nil }

func (s *homeScreen) Title() string { return "Home" }

func (s *homeScreen) Busy() bool { return false }

func (s *homeScreen) Unmount() {}

func (s *homeScreen) Help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Confirm, keys.Quit}
}

func (s *homeScreen) Resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	s.menu.SetSize(max(20, width-8), max(8, height-14))
}

func (s *homeScreen) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Confirm) {
		item, ok := s.menu.SelectedItem().(menuItem)
		if !ok {
			return nil
		}
		if item.route == "" {
			return tea.Quit
		}
		return Navigate(item.route)
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return cmd
}

func (s *homeScreen) View() string {
	u := s.env.user
	lines := []string{s.menu.View()}
	if u.Email != "" {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Signed in as %s (#%d)", u.Email, s.env.actor.EmployeeID)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
