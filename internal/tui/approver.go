package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/selection"
	"github.com/kingrea/staffdesk/internal/workflow"
)

// approverScreen grants or revokes secondary timesheet approver status,
// one employee per submission.
type approverScreen struct {
	env   *env
	ctrl  *workflow.Controller[[]portal.Employee]
	table table.Model
	rows  []selection.ApproverRow
	built bool
}

func newApproverScreen(e *env) *approverScreen {
	ctrl := workflow.New(e.loadReports,
		e.workflowConfig("timesheet-approvers", RouteApprovers, HomeRoute(e.actor.EmployeeID)),
		e.workflowOptions()...)
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Email", Width: 30},
			{Title: "Approver", Width: 9},
			{Title: "Action", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(e.tableHeight()),
	)
	return &approverScreen{env: e, ctrl: ctrl, table: t}
}

func (s *approverScreen) Init() tea.Cmd { return s.ctrl.Start() }

func (s *approverScreen) Title() string { return "Timesheet Approvers" }

func (s *approverScreen) Busy() bool { return s.ctrl.Phase().Busy() }

func (s *approverScreen) Unmount() { s.ctrl.Unmount() }

func (s *approverScreen) Resize(int, int) {
	s.table.SetHeight(s.env.tableHeight())
}

func (s *approverScreen) Help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Confirm, keys.Back}
}

func (s *approverScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.ctrl.Update(msg); cmd != nil {
		return cmd
	}
	if data, ok := s.ctrl.Data(); ok && !s.built {
		s.buildRows(data)
	}
	k, isKey := msg.(tea.KeyMsg)
	if !isKey || inputLocked(s.ctrl.Phase()) {
		return nil
	}
	switch {
	case key.Matches(k, keys.Back):
		return Navigate(HomeRoute(s.env.actor.EmployeeID))
	case s.ctrl.Phase() != workflow.PhaseReady:
		return nil
	case key.Matches(k, keys.Confirm):
		return s.submit()
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *approverScreen) buildRows(data []portal.Employee) {
	s.rows = selection.ApproverRows(data)
	rows := make([]table.Row, 0, len(s.rows))
	for _, r := range s.rows {
		rows = append(rows, table.Row{r.Employee.FullName(), r.Employee.Email, yesNo(r.ApproverStatus), r.Action.String()})
	}
	s.table.SetRows(rows)
	s.built = true
}

func (s *approverScreen) submit() tea.Cmd {
	idx := s.table.Cursor()
	if idx < 0 || idx >= len(s.rows) {
		return nil
	}
	staged := selection.StagedApproverChange(s.rows[idx])
	cmd, err := s.ctrl.Submit(s.env.submit(portal.UpdateEmployee, staged))
	if err != nil {
		return nil
	}
	return cmd
}

func (s *approverScreen) View() string {
	phase := s.ctrl.Phase()
	if phase != workflow.PhaseReady {
		return phaseNote(phase, "your employees")
	}
	if len(s.rows) == 0 {
		return mutedStyle.Render("No employees report to you.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.table.View(),
		hintStyle.Render("enter applies the action shown for the highlighted employee"),
	)
}
