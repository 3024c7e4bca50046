package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/workflow"
)

type employeeDetail struct {
	employee portal.Employee
	projects []portal.Project
}

// detailScreen shows one direct report and the projects they work on.
type detailScreen struct {
	env  *env
	id   int
	ctrl *workflow.Controller[employeeDetail]
}

func newDetailScreen(e *env, id int) *detailScreen {
	load := func(ctx context.Context) (employeeDetail, error) {
		emp, err := portal.GetEmployee(ctx, e.backend, id, e.actor)
		if err != nil {
			return employeeDetail{}, err
		}
		projects, err := portal.LoadScopedCollection[portal.Project](ctx, e.backend, portal.ProjectsByEmployee, id, e.actor)
		if err != nil {
			return employeeDetail{}, err
		}
		return employeeDetail{employee: emp, projects: projects}, nil
	}
	ctrl := workflow.New(load,
		e.workflowConfig("employee-detail", RouteSupervisor, RouteSupervisor),
		e.workflowOptions()...)
	return &detailScreen{env: e, id: id, ctrl: ctrl}
}

func (s *detailScreen) Init() tea.Cmd { return s.ctrl.Start() }

func (s *detailScreen) Title() string { return fmt.Sprintf("Employee #%d", s.id) }

func (s *detailScreen) Busy() bool { return s.ctrl.Phase().Busy() }

func (s *detailScreen) Unmount() { s.ctrl.Unmount() }

func (s *detailScreen) Resize(int, int) {}

func (s *detailScreen) Help() []key.Binding { return []key.Binding{keys.Back} }

func (s *detailScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.ctrl.Update(msg); cmd != nil {
		return cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Back) && !inputLocked(s.ctrl.Phase()) {
		return Navigate(RouteSupervisor)
	}
	return nil
}

func (s *detailScreen) View() string {
	phase := s.ctrl.Phase()
	if phase != workflow.PhaseReady {
		return phaseNote(phase, "employee")
	}
	d, _ := s.ctrl.Data()
	e := d.employee
	supervisor := "-"
	if e.SupervisorID != nil {
		supervisor = "#" + strconv.Itoa(*e.SupervisorID)
	}
	fields := []string{
		labelStyle.Render("Name") + e.FullName(),
		labelStyle.Render("Email") + e.Email,
		labelStyle.Render("Supervisor") + supervisor,
		labelStyle.Render("Approver") + yesNo(e.IsSecondaryApprover),
	}
	var projects []string
	for _, p := range d.projects {
		for _, a := range p.Employees {
			if a.EmployeeID != e.EmployeeID {
				continue
			}
			span := a.StartDate + " → present"
			if !a.Active() {
				span = a.StartDate + " → " + *a.EndDate
			}
			projects = append(projects, fmt.Sprintf("  %-28s %s", p.Label(), span))
		}
	}
	if len(projects) == 0 {
		projects = []string{mutedStyle.Render("  No project assignments.")}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(fields, "\n"),
		"",
		titleStyle.Render("Projects"),
		strings.Join(projects, "\n"),
	)
}
