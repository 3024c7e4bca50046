package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/selection"
	"github.com/kingrea/staffdesk/internal/workflow"
)

// listingScreen is the supervisor's searchable table of direct reports.
type listingScreen struct {
	env       *env
	ctrl      *workflow.Controller[[]portal.Employee]
	table     table.Model
	search    textinput.Model
	searching bool
	visible   []portal.Employee
}

func newListingScreen(e *env) *listingScreen {
	ctrl := workflow.New(e.loadReports,
		e.workflowConfig("supervisor-listing", RouteSupervisor, HomeRoute(e.actor.EmployeeID)),
		e.workflowOptions()...)
	search := newInput("search: ", "name or id", 64)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 30},
			{Title: "Approver", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(e.tableHeight()),
	)
	return &listingScreen{env: e, ctrl: ctrl, table: t, search: search}
}

func (s *listingScreen) Init() tea.Cmd { return s.ctrl.Start() }

func (s *listingScreen) Title() string { return "Supervisor Portal" }

func (s *listingScreen) Busy() bool { return s.ctrl.Phase().Busy() }

func (s *listingScreen) Unmount() { s.ctrl.Unmount() }

func (s *listingScreen) Resize(width, height int) {
	s.table.SetHeight(s.env.tableHeight())
}

func (s *listingScreen) Help() []key.Binding {
	if s.searching {
		return []key.Binding{keys.Confirm, keys.Back}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Confirm, keys.Filter, keys.Remove, keys.Create, keys.Approvers, keys.Back}
}

func (s *listingScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.ctrl.Update(msg); cmd != nil {
		return cmd
	}
	if data, ok := s.ctrl.Data(); ok && s.visible == nil {
		s.applyFilter(data)
	}
	k, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}
	if inputLocked(s.ctrl.Phase()) {
		return nil
	}
	if s.searching {
		return s.updateSearch(k)
	}
	switch {
	case key.Matches(k, keys.Back):
		return Navigate(HomeRoute(s.env.actor.EmployeeID))
	case s.ctrl.Phase() != workflow.PhaseReady:
		return nil
	case key.Matches(k, keys.Filter):
		s.searching = true
		return s.search.Focus()
	case key.Matches(k, keys.Confirm):
		if emp, ok := s.selected(); ok {
			return Navigate(EmployeeRoute(emp.EmployeeID))
		}
		return nil
	case key.Matches(k, keys.Remove):
		return Navigate(RouteRemove)
	case key.Matches(k, keys.Create):
		return Navigate(RouteCreate)
	case key.Matches(k, keys.Approvers):
		return Navigate(RouteApprovers)
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *listingScreen) updateSearch(k tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(k, keys.Back):
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
	case key.Matches(k, keys.Confirm):
		s.searching = false
		s.search.Blur()
	default:
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(k)
		data, _ := s.ctrl.Data()
		s.applyFilter(data)
		return cmd
	}
	data, _ := s.ctrl.Data()
	s.applyFilter(data)
	return nil
}

func (s *listingScreen) applyFilter(all []portal.Employee) {
	s.visible = selection.FilterEmployees(all, s.search.Value())
	rows := make([]table.Row, 0, len(s.visible))
	for _, e := range s.visible {
		rows = append(rows, table.Row{strconv.Itoa(e.EmployeeID), e.FullName(), e.Email, yesNo(e.IsSecondaryApprover)})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(max(0, len(rows)-1))
	}
}

func (s *listingScreen) selected() (portal.Employee, bool) {
	idx := s.table.Cursor()
	if idx < 0 || idx >= len(s.visible) {
		return portal.Employee{}, false
	}
	return s.visible[idx], true
}

func (s *listingScreen) View() string {
	phase := s.ctrl.Phase()
	if phase != workflow.PhaseReady {
		return phaseNote(phase, "your employees")
	}
	if len(s.visible) == 0 && s.search.Value() == "" {
		return mutedStyle.Render("No employees report to you.")
	}
	parts := []string{s.table.View()}
	if s.searching || s.search.Value() != "" {
		parts = append(parts, s.search.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
