// Package selection derives display and candidate subsets from collections
// that are already loaded. Every function is pure: no I/O, inputs are never
// mutated, and empty inputs produce empty (non-nil) results.
package selection

import (
	"reflect"

	"github.com/kingrea/staffdesk/internal/portal"
)

// ApproverAction is the mutation an approver row's button performs.
type ApproverAction int

const (
	GrantApprover ApproverAction = iota
	RevokeApprover
)

// String is the button label.
func (a ApproverAction) String() string {
	if a == RevokeApprover {
		return "Remove"
	}
	return "Assign"
}

// ApproverRow pairs an employee with its current secondary-approver flag.
type ApproverRow struct {
	Employee       portal.Employee
	ApproverStatus bool
	Action         ApproverAction
}

// ActiveAssignmentsUnder keeps the project's assignments that have not ended
// and are supervised by supervisorID, in their original order.
func ActiveAssignmentsUnder(project portal.Project, supervisorID int) []portal.Assignment {
	out := make([]portal.Assignment, 0, len(project.Employees))
	for _, a := range project.Employees {
		if a.Active() && a.SupervisorID == supervisorID {
			out = append(out, a)
		}
	}
	return out
}

// WithoutRemoved returns a copy of project whose employees exclude the
// records in removed. Each entry of removed drops at most one record: the
// first active one equal to it, else the first active one with the same key.
// Ended assignments are history and are always kept, even when listed in
// removed.
func WithoutRemoved(project portal.Project, removed []portal.Assignment) portal.Project {
	out := project.Clone()
	dropped := make([]bool, len(out.Employees))
	for _, r := range removed {
		if i := matchActive(out.Employees, dropped, r); i >= 0 {
			dropped[i] = true
		}
	}
	kept := make([]portal.Assignment, 0, len(out.Employees))
	for i, a := range out.Employees {
		if !dropped[i] {
			kept = append(kept, a)
		}
	}
	out.Employees = kept
	return out
}

func matchActive(assignments []portal.Assignment, dropped []bool, r portal.Assignment) int {
	byKey := -1
	for i, a := range assignments {
		if dropped[i] || !a.Active() || a.Key() != r.Key() {
			continue
		}
		if reflect.DeepEqual(a, r) {
			return i
		}
		if byKey < 0 {
			byKey = i
		}
	}
	return byKey
}

// ApproverRows maps each employee to its approver flag and the action that
// flips it.
func ApproverRows(employees []portal.Employee) []ApproverRow {
	rows := make([]ApproverRow, 0, len(employees))
	for _, e := range employees {
		action := GrantApprover
		if e.IsSecondaryApprover {
			action = RevokeApprover
		}
		rows = append(rows, ApproverRow{Employee: e, ApproverStatus: e.IsSecondaryApprover, Action: action})
	}
	return rows
}

// StagedApproverChange returns the copy of row's employee to submit.
func StagedApproverChange(row ApproverRow) portal.Employee {
	staged := row.Employee
	staged.IsSecondaryApprover = row.Action == GrantApprover
	return staged
}

// FilterEmployees keeps employees whose name or id contains query
// (case-insensitive). An empty query keeps everything.
func FilterEmployees(employees []portal.Employee, query string) []portal.Employee {
	out := make([]portal.Employee, 0, len(employees))
	for _, e := range employees {
		if matches(query, e.FullName(), itoa(e.EmployeeID)) {
			out = append(out, e)
		}
	}
	return out
}
