package portal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kingrea/staffdesk/internal/session"
)

// Writer is the mutating half of the gateway.
type Writer interface {
	Post(ctx context.Context, path string, actor session.Actor, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, actor session.Actor, body any) (json.RawMessage, error)
}

// MutationKind selects the backend operation a submission performs.
type MutationKind int

const (
	UpdateProject MutationKind = iota
	UpdateEmployee
	CreateProject
)

// String names the mutation for logs.
func (k MutationKind) String() string {
	switch k {
	case UpdateProject:
		return "update-project"
	case UpdateEmployee:
		return "update-employee"
	case CreateProject:
		return "create-project"
	default:
		return fmt.Sprintf("mutation(%d)", int(k))
	}
}

// ResultKind tags a submission outcome.
type ResultKind string

const (
	Success ResultKind = "success"
	Failure ResultKind = "failure"
)

// Result is the outcome of one submission attempt.
type Result struct {
	Kind  ResultKind
	Body  json.RawMessage
	Cause error
}

// OK reports a successful outcome.
func (r Result) OK() bool { return r.Kind == Success }

// Succeeded wraps a response body.
func Succeeded(body json.RawMessage) Result { return Result{Kind: Success, Body: body} }

// Failed wraps cause.
func Failed(cause error) Result { return Result{Kind: Failure, Cause: cause} }

// Submitter applies single mutations through a Writer.
type Submitter struct {
	writer Writer
}

// NewSubmitter returns a submitter using w.
func NewSubmitter(w Writer) *Submitter {
	return &Submitter{writer: w}
}

// Submit performs exactly one gateway call for a well-formed request and
// never returns an error: every failure becomes a Failure result. A target
// of the wrong type fails without calling the gateway. Callers must not
// invoke Submit twice concurrently for the same action.
func (s *Submitter) Submit(ctx context.Context, kind MutationKind, target any, actor session.Actor) Result {
	if s == nil || s.writer == nil {
		return Failed(fmt.Errorf("portal: submitter has no writer"))
	}
	if err := actor.Validate(); err != nil {
		return Failed(err)
	}
	var (
		body json.RawMessage
		err  error
	)
	switch kind {
	case UpdateProject:
		p, ok := asProject(target)
		if !ok {
			return Failed(fmt.Errorf("portal: %s needs a Project, got %T", kind, target))
		}
		body, err = s.writer.Put(ctx, ProjectPath(p.ProjectID), actor, p)
	case UpdateEmployee:
		e, ok := asEmployee(target)
		if !ok {
			return Failed(fmt.Errorf("portal: %s needs an Employee, got %T", kind, target))
		}
		body, err = s.writer.Put(ctx, EmployeePath(e.EmployeeID), actor, e)
	case CreateProject:
		p, ok := asProject(target)
		if !ok {
			return Failed(fmt.Errorf("portal: %s needs a Project, got %T", kind, target))
		}
		body, err = s.writer.Post(ctx, PathCreateProject, actor, p)
	default:
		return Failed(fmt.Errorf("portal: unsupported mutation %s", kind))
	}
	if err != nil {
		return Failed(err)
	}
	return Succeeded(body)
}

func asProject(target any) (Project, bool) {
	switch v := target.(type) {
	case Project:
		return v, true
	case *Project:
		if v == nil {
			return Project{}, false
		}
		return *v, true
	}
	return Project{}, false
}

func asEmployee(target any) (Employee, bool) {
	switch v := target.(type) {
	case Employee:
		return v, true
	case *Employee:
		if v == nil {
			return Employee{}, false
		}
		return *v, true
	}
	return Employee{}, false
}
