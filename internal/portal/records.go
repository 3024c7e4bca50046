package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Fields keeps JSON members the console does not model so a record can be
// written back without losing them.
type Fields map[string]json.RawMessage

// Employee is a row of /emps.
type Employee struct {
	EmployeeID          int    `json:"employee_id"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	SupervisorID        *int   `json:"supervisor_id"`
	IsSecondaryApprover bool   `json:"is_secondary_approver"`

	Extra Fields `json:"-"`

	wire *wireShape
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type employeeJSON Employee

// UnmarshalJSON implements json.Unmarshaler.
func (e *Employee) UnmarshalJSON(data []byte) error {
	var known employeeJSON
	extra, shape, err := decodeRecord(data, &known)
	if err != nil {
		return fmt.Errorf("portal: decode employee: %w", err)
	}
	*e = Employee(known)
	e.Extra = extra
	e.wire = shape
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Employee) MarshalJSON() ([]byte, error) {
	return encodeRecord(employeeJSON(e), e.Extra, e.wire)
}

// Assignment is one membership row embedded in a project. A nil EndDate
// means the assignment is active; anything else is history.
type Assignment struct {
	EmployeeID   int     `json:"employee_id"`
	SupervisorID int     `json:"supervisor_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`

	Extra Fields `json:"-"`

	wire *wireShape
}

// AssignmentKey identifies an assignment within a project.
type AssignmentKey struct {
	EmployeeID   int
	SupervisorID int
	StartDate    string
}

// Key returns the identity used when removing assignments.
func (a Assignment) Key() AssignmentKey {
	return AssignmentKey{EmployeeID: a.EmployeeID, SupervisorID: a.SupervisorID, StartDate: a.StartDate}
}

// Active reports whether the assignment has not ended.
func (a Assignment) Active() bool {
	return a.EndDate == nil
}

// FullName joins first and last name, falling back to the employee id.
func (a Assignment) FullName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return fmt.Sprintf("Employee %d", a.EmployeeID)
	}
	return name
}

type assignmentJSON Assignment

// UnmarshalJSON implements json.Unmarshaler.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var known assignmentJSON
	extra, shape, err := decodeRecord(data, &known)
	if err != nil {
		return fmt.Errorf("portal: decode assignment: %w", err)
	}
	*a = Assignment(known)
	a.Extra = extra
	a.wire = shape
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Assignment) MarshalJSON() ([]byte, error) {
	return encodeRecord(assignmentJSON(a), a.Extra, a.wire)
}

// Project is a row of /projects with its assignment history.
type Project struct {
	ProjectID    int          `json:"project_id"`
	ProjectCode  string       `json:"project_code"`
	ProjectName  string       `json:"project_name"`
	SupervisorID int          `json:"supervisor_id"`
	Employees    []Assignment `json:"employees"`

	Extra Fields `json:"-"`

	wire *wireShape
}

// Label is what the project picker shows.
func (p Project) Label() string {
	code := strings.TrimSpace(p.ProjectCode)
	if code == "" {
		code = fmt.Sprintf("#%d", p.ProjectID)
	}
	if name := strings.TrimSpace(p.ProjectName); name != "" {
		return code + " · " + name
	}
	return code
}

// Clone returns a deep copy so staged edits never alias loaded data.
func (p Project) Clone() Project {
	out := p
	if p.Employees != nil {
		out.Employees = make([]Assignment, len(p.Employees))
		for i, a := range p.Employees {
			out.Employees[i] = a.clone()
		}
	}
	out.Extra = p.Extra.clone()
	return out
}

func (a Assignment) clone() Assignment {
	out := a
	if a.EndDate != nil {
		end := *a.EndDate
		out.EndDate = &end
	}
	out.Extra = a.Extra.clone()
	return out
}

func (f Fields) clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

type projectJSON Project

// UnmarshalJSON implements json.Unmarshaler.
func (p *Project) UnmarshalJSON(data []byte) error {
	var known projectJSON
	extra, shape, err := decodeRecord(data, &known)
	if err != nil {
		return fmt.Errorf("portal: decode project: %w", err)
	}
	*p = Project(known)
	p.Extra = extra
	p.wire = shape
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Project) MarshalJSON() ([]byte, error) {
	return encodeRecord(projectJSON(p), p.Extra, p.wire)
}

// wireShape is how a record arrived: which declared members were sent,
// under which key and with which bytes. Encoding replays that shape and
// only writes members whose value changed since decoding.
type wireShape struct {
	sent map[string]sentMember
	base map[string]json.RawMessage
}

type sentMember struct {
	key   string
	value json.RawMessage
}

// decodeRecord fills known and returns the members known does not declare
// together with the shape of the declared ones.
func decodeRecord(data []byte, known any) (Fields, *wireShape, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, nil, err
	}
	base, err := encodeObject(known)
	if err != nil {
		return nil, nil, err
	}
	shape := &wireShape{sent: make(map[string]sentMember, len(base)), base: base}
	for key, value := range all {
		name, ok := declaredName(base, key)
		if !ok {
			continue
		}
		// An exact key beats other spellings, which then stay extra.
		if prev, taken := shape.sent[name]; taken && (prev.key == name || key != name) {
			continue
		}
		shape.sent[name] = sentMember{key: key, value: value}
	}
	for _, member := range shape.sent {
		delete(all, member.key)
	}
	if len(all) == 0 {
		return nil, shape, nil
	}
	return Fields(all), shape, nil
}

// encodeRecord writes known in the shape it was decoded with. Records built
// locally (nil shape) write every declared member. Declared members win over
// extra ones.
func encodeRecord(known any, extra Fields, shape *wireShape) ([]byte, error) {
	current, err := encodeObject(known)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(current)+len(extra))
	for key, value := range extra {
		out[key] = value
	}
	for name, value := range current {
		if shape == nil {
			out[name] = value
			continue
		}
		changed := !bytes.Equal(value, shape.base[name])
		sent, wasSent := shape.sent[name]
		switch {
		case wasSent && !changed:
			out[sent.key] = sent.value
		case wasSent:
			out[sent.key] = value
		case changed:
			out[name] = value
		}
	}
	return json.Marshal(out)
}

func encodeObject(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func declaredName(declared map[string]json.RawMessage, key string) (string, bool) {
	if _, ok := declared[key]; ok {
		return key, true
	}
	for name := range declared {
		if strings.EqualFold(name, key) {
			return name, true
		}
	}
	return "", false
}
