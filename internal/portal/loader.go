package portal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kingrea/staffdesk/internal/session"
)

// Reader is the read half of the gateway.
type Reader interface {
	Get(ctx context.Context, path string, actor session.Actor) (json.RawMessage, error)
}

// Resource selects the endpoint family of a scoped collection.
type Resource int

const (
	AllEmployees Resource = iota
	EmployeesBySupervisor
	ProjectsBySupervisor
	ProjectsByEmployee
)

// String names the resource for logs.
func (r Resource) String() string {
	switch r {
	case AllEmployees:
		return "all-employees"
	case EmployeesBySupervisor:
		return "employees-by-supervisor"
	case ProjectsBySupervisor:
		return "projects-by-supervisor"
	case ProjectsByEmployee:
		return "projects-by-employee"
	default:
		return fmt.Sprintf("resource(%d)", int(r))
	}
}

// Path resolves the endpoint for scopeKey.
func (r Resource) Path(scopeKey int) (string, error) {
	switch r {
	case AllEmployees:
		return PathEmployees, nil
	case EmployeesBySupervisor:
		return EmployeesBySupervisorPath(scopeKey), nil
	case ProjectsBySupervisor:
		return ProjectsBySupervisorPath(scopeKey), nil
	case ProjectsByEmployee:
		return ProjectsByEmployeePath(scopeKey), nil
	default:
		return "", fmt.Errorf("portal: unknown resource %d", int(r))
	}
}

// LoadScopedCollection fetches resource scoped to scopeKey. Gateway errors
// are returned unchanged; the result is either the whole collection or an
// error, never a partial slice. An empty or null body yields an empty slice.
func LoadScopedCollection[T any](ctx context.Context, r Reader, resource Resource, scopeKey int, actor session.Actor) ([]T, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	path, err := resource.Path(scopeKey)
	if err != nil {
		return nil, err
	}
	body, err := r.Get(ctx, path, actor)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("portal: decode %s: %w", resource, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetEmployee fetches one employee record.
func GetEmployee(ctx context.Context, r Reader, id int, actor session.Actor) (Employee, error) {
	var emp Employee
	err := getOne(ctx, r, EmployeePath(id), actor, &emp)
	return emp, err
}

// GetProject fetches one project record.
func GetProject(ctx context.Context, r Reader, id int, actor session.Actor) (Project, error) {
	var p Project
	err := getOne(ctx, r, ProjectPath(id), actor, &p)
	return p, err
}

// GetProjectDetails fetches the expanded project view.
func GetProjectDetails(ctx context.Context, r Reader, id int, actor session.Actor) (Project, error) {
	var p Project
	err := getOne(ctx, r, ProjectDetailsPath(id), actor, &p)
	return p, err
}

func getOne(ctx context.Context, r Reader, path string, actor session.Actor, out any) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	body, err := r.Get(ctx, path, actor)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("portal: decode %s: %w", path, err)
	}
	return nil
}
