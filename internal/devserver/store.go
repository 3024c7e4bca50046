package devserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kingrea/staffdesk/internal/portal"
)

var (
	errNotFound       = errors.New("devserver: not found")
	errBadCredentials = errors.New("devserver: invalid username or password")
)

type account struct {
	password   string
	employeeID int
}

// Store is the in-memory backing data of the development backend.
type Store struct {
	mu          sync.RWMutex
	employees   map[int]portal.Employee
	projects    map[int]portal.Project
	accounts    map[string]account
	nextProject int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		employees:   map[int]portal.Employee{},
		projects:    map[int]portal.Project{},
		accounts:    map[string]account{},
		nextProject: 1,
	}
}

// AddAccount registers login credentials for an employee.
func (s *Store) AddAccount(username, password string, employeeID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(strings.TrimSpace(username))] = account{password: password, employeeID: employeeID}
}

// Authenticate resolves credentials to an employee id.
func (s *Store) Authenticate(username, password string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(username))]
	if !ok || acct.password != password {
		return 0, errBadCredentials
	}
	return acct.employeeID, nil
}

// PutEmployee inserts or replaces an employee.
func (s *Store) PutEmployee(e portal.Employee) error {
	if e.EmployeeID <= 0 {
		return fmt.Errorf("devserver: employee_id must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.EmployeeID] = e
	return nil
}

// UpdateEmployee replaces an existing employee.
func (s *Store) UpdateEmployee(e portal.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.EmployeeID]; !ok {
		return errNotFound
	}
	s.employees[e.EmployeeID] = e
	return nil
}

// Employee returns one employee.
func (s *Store) Employee(id int) (portal.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return portal.Employee{}, errNotFound
	}
	return e, nil
}

// Employees lists every employee ordered by id.
func (s *Store) Employees() []portal.Employee {
	return s.filterEmployees(func(portal.Employee) bool { return true })
}

// EmployeesBySupervisor lists direct reports of supervisorID.
func (s *Store) EmployeesBySupervisor(supervisorID int) []portal.Employee {
	return s.filterEmployees(func(e portal.Employee) bool {
		return e.SupervisorID != nil && *e.SupervisorID == supervisorID
	})
}

func (s *Store) filterEmployees(keep func(portal.Employee) bool) []portal.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]portal.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// CreateProject stores p under a fresh id and returns the stored copy.
func (s *Store) CreateProject(p portal.Project) (portal.Project, error) {
	if strings.TrimSpace(p.ProjectName) == "" {
		return portal.Project{}, fmt.Errorf("devserver: project_name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if _, taken := s.projects[s.nextProject]; !taken {
			break
		}
		s.nextProject++
	}
	p = p.Clone()
	p.ProjectID = s.nextProject
	if p.Employees == nil {
		p.Employees = []portal.Assignment{}
	}
	s.nextProject++
	s.projects[p.ProjectID] = p
	return p.Clone(), nil
}

// PutProject inserts or replaces a project.
func (s *Store) PutProject(p portal.Project) error {
	if p.ProjectID <= 0 {
		return fmt.Errorf("devserver: project_id must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ProjectID] = p.Clone()
	return nil
}

// UpdateProject replaces an existing project.
func (s *Store) UpdateProject(p portal.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ProjectID]; !ok {
		return errNotFound
	}
	s.projects[p.ProjectID] = p.Clone()
	return nil
}

// Project returns one project.
func (s *Store) Project(id int) (portal.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return portal.Project{}, errNotFound
	}
	return p.Clone(), nil
}

// ProjectsBySupervisor lists projects owned by supervisorID.
func (s *Store) ProjectsBySupervisor(supervisorID int) []portal.Project {
	return s.filterProjects(func(p portal.Project) bool { return p.SupervisorID == supervisorID })
}

// ProjectsByEmployee lists projects with any assignment of employeeID.
func (s *Store) ProjectsByEmployee(employeeID int) []portal.Project {
	return s.filterProjects(func(p portal.Project) bool {
		for _, a := range p.Employees {
			if a.EmployeeID == employeeID {
				return true
			}
		}
		return false
	})
}

func (s *Store) filterProjects(keep func(portal.Project) bool) []portal.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]portal.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}
