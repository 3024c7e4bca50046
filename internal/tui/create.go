package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/workflow"
)

const (
	fieldCode = iota
	fieldName
	fieldCount
)

// createScreen is the new-project form. It has nothing to load.
type createScreen struct {
	env    *env
	ctrl   *workflow.Controller[struct{}]
	inputs []textinput.Model
	focus  int
	status string
}

func newCreateScreen(e *env) *createScreen {
	ctrl := workflow.New[struct{}](nil,
		e.workflowConfig("create-project", RouteSupervisor, RouteSupervisor),
		e.workflowOptions()...)
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldCode] = newInput("Project code: ", "APX-2", 32)
	inputs[fieldName] = newInput("Project name: ", "Quarterly close", 128)
	return &createScreen{env: e, ctrl: ctrl, inputs: inputs}
}

func (s *createScreen) Init() tea.Cmd {
	return tea.Batch(s.ctrl.Start(), s.inputs[s.focus].Focus())
}

func (s *createScreen) Title() string { return "Create Project" }

func (s *createScreen) Busy() bool { return s.ctrl.Phase().Busy() }

func (s *createScreen) Unmount() { s.ctrl.Unmount() }

func (s *createScreen) Resize(int, int) {}

func (s *createScreen) Help() []key.Binding {
	return []key.Binding{keys.NextField, keys.PrevField, keys.Confirm, keys.Back}
}

func (s *createScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.ctrl.Update(msg); cmd != nil {
		return cmd
	}
	k, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}
	if inputLocked(s.ctrl.Phase()) {
		return nil
	}
	switch {
	case key.Matches(k, keys.Back):
		return Navigate(RouteSupervisor)
	case s.ctrl.Phase() != workflow.PhaseReady:
		return nil
	case key.Matches(k, keys.NextField):
		return s.moveFocus(1)
	case key.Matches(k, keys.PrevField):
		return s.moveFocus(-1)
	case key.Matches(k, keys.Confirm):
		if s.focus < fieldCount-1 {
			return s.moveFocus(1)
		}
		return s.submit()
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (s *createScreen) moveFocus(delta int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + fieldCount) % fieldCount
	return s.inputs[s.focus].Focus()
}

func (s *createScreen) submit() tea.Cmd {
	name := strings.TrimSpace(s.inputs[fieldName].Value())
	if name == "" {
		s.status = "Project name is required."
		return nil
	}
	project := portal.Project{
		ProjectCode:  strings.TrimSpace(s.inputs[fieldCode].Value()),
		ProjectName:  name,
		SupervisorID: s.env.actor.EmployeeID,
		Employees:    []portal.Assignment{},
	}
	cmd, err := s.ctrl.Submit(s.env.submit(portal.CreateProject, project))
	if err != nil {
		return nil
	}
	s.status = ""
	return cmd
}

func (s *createScreen) View() string {
	phase := s.ctrl.Phase()
	if phase != workflow.PhaseReady {
		return phaseNote(phase, "form")
	}
	lines := make([]string, 0, fieldCount+2)
	for i := range s.inputs {
		lines = append(lines, s.inputs[i].View())
	}
	if s.status != "" {
		lines = append(lines, "", hintStyle.Render(s.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
