package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/selection"
	"github.com/kingrea/staffdesk/internal/workflow"
)

type projectItem struct {
	project portal.Project
	active  int
}

func (i projectItem) Title() string { return i.project.Label() }
func (i projectItem) Description() string {
	return fmt.Sprintf("%d active assignment(s) under you", i.active)
}
func (i projectItem) FilterValue() string { return i.project.Label() }

// removeScreen ends project assignments: pick a project, tick the active
// assignments to drop, submit the project without them.
type removeScreen struct {
	env      *env
	ctrl     *workflow.Controller[[]portal.Project]
	projects list.Model
	built    bool

	project    *portal.Project
	candidates []portal.Assignment
	chosen     map[int]bool
	cursor     int
	status     string
}

func newRemoveScreen(e *env) *removeScreen {
	load := func(ctx context.Context) ([]portal.Project, error) {
		return portal.LoadScopedCollection[portal.Project](ctx, e.backend, portal.ProjectsBySupervisor, e.actor.EmployeeID, e.actor)
	}
	ctrl := workflow.New(load,
		e.workflowConfig("remove-from-project", RouteSupervisor, RouteSupervisor),
		e.workflowOptions()...)
	projects := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	projects.Title = "Select a project"
	projects.SetShowStatusBar(false)
	projects.SetFilteringEnabled(false)
	projects.SetShowHelp(false)
	projects.DisableQuitKeybindings()
	s := &removeScreen{env: e, ctrl: ctrl, projects: projects}
	s.Resize(e.width, e.height)
	return s
}

func (s *removeScreen) Init() tea.Cmd { return s.ctrl.Start() }

func (s *removeScreen) Title() string { return "Remove From Project" }

func (s *removeScreen) Busy() bool { return s.ctrl.Phase().Busy() }

func (s *removeScreen) Unmount() { s.ctrl.Unmount() }

func (s *removeScreen) Resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	s.projects.SetSize(max(20, width-8), max(8, height-14))
}

func (s *removeScreen) Help() []key.Binding {
	if s.project != nil {
		return []key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Confirm, keys.Back}
	}
	return []key.Binding{keys.Up, keys.Down, keys.Confirm, keys.Back}
}

func (s *removeScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.ctrl.Update(msg); cmd != nil {
		return cmd
	}
	if data, ok := s.ctrl.Data(); ok && !s.built {
		s.buildProjects(data)
	}
	k, isKey := msg.(tea.KeyMsg)
	if !isKey || inputLocked(s.ctrl.Phase()) {
		return nil
	}
	if key.Matches(k, keys.Back) {
		if s.project != nil {
			s.project = nil
			s.status = ""
			return nil
		}
		return Navigate(RouteSupervisor)
	}
	if s.ctrl.Phase() != workflow.PhaseReady {
		return nil
	}
	if s.project == nil {
		if key.Matches(k, keys.Confirm) {
			if item, ok := s.projects.SelectedItem().(projectItem); ok {
				s.pick(item.project)
			}
			return nil
		}
		var cmd tea.Cmd
		s.projects, cmd = s.projects.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(k, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(k, keys.Down):
		if s.cursor < len(s.candidates)-1 {
			s.cursor++
		}
	case key.Matches(k, keys.Toggle):
		if s.cursor < len(s.candidates) {
			s.chosen[s.cursor] = !s.chosen[s.cursor]
		}
	case key.Matches(k, keys.Confirm):
		return s.submit()
	}
	return nil
}

func (s *removeScreen) buildProjects(data []portal.Project) {
	items := make([]list.Item, 0, len(data))
	for _, p := range data {
		items = append(items, projectItem{project: p, active: len(selection.ActiveAssignmentsUnder(p, s.env.actor.EmployeeID))})
	}
	s.projects.SetItems(items)
	s.built = true
}

func (s *removeScreen) pick(p portal.Project) {
	s.project = &p
	s.candidates = selection.ActiveAssignmentsUnder(p, s.env.actor.EmployeeID)
	s.chosen = map[int]bool{}
	s.cursor = 0
	s.status = ""
}

// removed lists the ticked assignments in display order.
func (s *removeScreen) removed() []portal.Assignment {
	out := make([]portal.Assignment, 0, len(s.chosen))
	for i, a := range s.candidates {
		if s.chosen[i] {
			out = append(out, a)
		}
	}
	return out
}

func (s *removeScreen) submit() tea.Cmd {
	removed := s.removed()
	if s.project == nil || len(removed) == 0 {
		s.status = "Select at least one employee to remove."
		return nil
	}
	updated := selection.WithoutRemoved(*s.project, removed)
	cmd, err := s.ctrl.Submit(s.env.submit(portal.UpdateProject, updated))
	if err != nil {
		return nil
	}
	s.status = ""
	return cmd
}

func (s *removeScreen) View() string {
	phase := s.ctrl.Phase()
	if phase != workflow.PhaseReady {
		return phaseNote(phase, "your projects")
	}
	if s.project == nil {
		if len(s.projects.Items()) == 0 {
			return mutedStyle.Render("You do not supervise any projects.")
		}
		return s.projects.View()
	}
	lines := []string{titleStyle.Render(s.project.Label())}
	if len(s.candidates) == 0 {
		lines = append(lines, mutedStyle.Render("No active assignments under you on this project."))
	}
	for i, a := range s.candidates {
		box := "[ ]"
		if s.chosen[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %-24s since %s", box, a.FullName(), a.StartDate)
		if i == s.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if s.status != "" {
		lines = append(lines, "", hintStyle.Render(s.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"))
}
