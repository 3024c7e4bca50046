package portal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/staffdesk/internal/session"
)

var supervisor = session.Actor{EmployeeID: 9, Token: "tok"}

func TestEmployeeKeepsUnknownFields(t *testing.T) {
	raw := `{"employee_id":5,"first_name":"Ada","last_name":"Byron","email":"ada@example.com",
		"supervisor_id":9,"is_secondary_approver":false,"hourly_rate":42.5,"labels":["eng"]}`
	var emp Employee
	require.NoError(t, json.Unmarshal([]byte(raw), &emp))
	assert.Equal(t, 5, emp.EmployeeID)
	require.NotNil(t, emp.SupervisorID)
	assert.Equal(t, 9, *emp.SupervisorID)
	assert.Len(t, emp.Extra, 2)

	emp.IsSecondaryApprover = true
	out, err := json.Marshal(emp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee_id":5,"first_name":"Ada","last_name":"Byron","email":"ada@example.com",
		"supervisor_id":9,"is_secondary_approver":true,"hourly_rate":42.5,"labels":["eng"]}`, string(out))
}

func TestProjectCloneDoesNotAlias(t *testing.T) {
	end := "2020-01-01"
	p := Project{ProjectID: 1, Employees: []Assignment{{EmployeeID: 1}, {EmployeeID: 2, EndDate: &end}}}
	c := p.Clone()
	c.Employees[0].EmployeeID = 99
	*c.Employees[1].EndDate = "2030-01-01"
	assert.Equal(t, 1, p.Employees[0].EmployeeID)
	assert.Equal(t, "2020-01-01", *p.Employees[1].EndDate)
}

func TestLoadScopedCollection(t *testing.T) {
	gw := newFakeGateway()
	gw.responses[ProjectsBySupervisorPath(9)] = json.RawMessage(`[{"project_id":1,"project_code":"P1","employees":[
		{"employee_id":1,"supervisor_id":9,"end_date":null},
		{"employee_id":2,"supervisor_id":9,"end_date":"2020-01-01"}]}]`)

	projects, err := LoadScopedCollection[Project](context.Background(), gw, ProjectsBySupervisor, 9, supervisor)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "P1", projects[0].ProjectCode)
	assert.Len(t, projects[0].Employees, 2)
	assert.Equal(t, []call{{Method: "GET", Path: "/projects/supervisor/9"}}, gw.calls)
}

func TestLoadScopedCollectionEmptyBodies(t *testing.T) {
	for _, body := range []string{"null", "[]"} {
		gw := newFakeGateway()
		gw.responses[EmployeesBySupervisorPath(9)] = json.RawMessage(body)
		emps, err := LoadScopedCollection[Employee](context.Background(), gw, EmployeesBySupervisor, 9, supervisor)
		require.NoError(t, err)
		assert.NotNil(t, emps)
		assert.Empty(t, emps)
	}
}

func TestLoadScopedCollectionPropagatesErrorsUnchanged(t *testing.T) {
	gw := newFakeGateway()
	boom := errors.New("status 401")
	gw.errs[EmployeesBySupervisorPath(9)] = boom
	emps, err := LoadScopedCollection[Employee](context.Background(), gw, EmployeesBySupervisor, 9, supervisor)
	assert.Same(t, boom, err)
	assert.Nil(t, emps)
}

func TestLoadScopedCollectionNeverReturnsPartial(t *testing.T) {
	gw := newFakeGateway()
	gw.responses[PathEmployees] = json.RawMessage(`[{"employee_id":1},{"employee_id":"oops"}]`)
	emps, err := LoadScopedCollection[Employee](context.Background(), gw, AllEmployees, 0, supervisor)
	require.Error(t, err)
	assert.Nil(t, emps)
}

func TestLoadScopedCollectionRequiresActor(t *testing.T) {
	gw := newFakeGateway()
	_, err := LoadScopedCollection[Employee](context.Background(), gw, EmployeesBySupervisor, 9, session.Actor{})
	require.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Empty(t, gw.calls)
}

func TestSubmitRoutesEachKind(t *testing.T) {
	tests := []struct {
		name     string
		kind     MutationKind
		target   any
		wantCall call
	}{
		{
			name:     "update project",
			kind:     UpdateProject,
			target:   Project{ProjectID: 4, ProjectCode: "P4"},
			wantCall: call{Method: "PUT", Path: "/projects/4", Body: Project{ProjectID: 4, ProjectCode: "P4"}},
		},
		{
			name:     "update employee by pointer",
			kind:     UpdateEmployee,
			target:   &Employee{EmployeeID: 5, IsSecondaryApprover: true},
			wantCall: call{Method: "PUT", Path: "/emps/5", Body: Employee{EmployeeID: 5, IsSecondaryApprover: true}},
		},
		{
			name:     "create project",
			kind:     CreateProject,
			target:   Project{ProjectCode: "NEW"},
			wantCall: call{Method: "POST", Path: "/projects/createProject", Body: Project{ProjectCode: "NEW"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			res := NewSubmitter(gw).Submit(context.Background(), tt.kind, tt.target, supervisor)
			assert.True(t, res.OK())
			assert.Equal(t, []call{tt.wantCall}, gw.calls)
		})
	}
}

func TestSubmitConvertsFailures(t *testing.T) {
	gw := newFakeGateway()
	boom := errors.New("status 500")
	gw.errs[ProjectPath(4)] = boom

	res := NewSubmitter(gw).Submit(context.Background(), UpdateProject, Project{ProjectID: 4}, supervisor)
	assert.Equal(t, Failure, res.Kind)
	assert.Same(t, boom, res.Cause)
	assert.Len(t, gw.calls, 1)
}

func TestSubmitRejectsWrongTargetWithoutCalling(t *testing.T) {
	gw := newFakeGateway()
	res := NewSubmitter(gw).Submit(context.Background(), UpdateEmployee, Project{ProjectID: 1}, supervisor)
	assert.Equal(t, Failure, res.Kind)
	assert.Error(t, res.Cause)
	assert.Empty(t, gw.calls)
}

func TestLoginUsesTokenClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"employee_id": 9}).SignedString([]byte("k"))
	require.NoError(t, err)
	gw := newFakeGateway()
	gw.responses[PathLogin] = json.RawMessage(`{"token":"` + token + `"}`)
	gw.responses[EmployeePath(9)] = json.RawMessage(`{"employee_id":9,"first_name":"Dana","last_name":"Reyes"}`)

	st, err := Login(context.Background(), gw, gw, Credentials{Username: "dana", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, token, st.Token)
	require.NotNil(t, st.User)
	assert.Equal(t, 9, st.User.EmployeeID)
	assert.Equal(t, "Dana", st.User.FirstName)
	require.Len(t, gw.calls, 2)
	assert.Equal(t, "AUTH", gw.calls[0].Method)
	assert.Equal(t, "/emps/9", gw.calls[1].Path)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	gw := newFakeGateway()
	gw.responses[PathLogin] = json.RawMessage(`{}`)
	_, err := Login(context.Background(), gw, gw, Credentials{Username: "dana", Password: "pw"})
	require.Error(t, err)
}
