package portal_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/staffdesk/internal/gateway"
	"github.com/kingrea/staffdesk/internal/portal"
	"github.com/kingrea/staffdesk/internal/selection"
	"github.com/kingrea/staffdesk/internal/session"
)

var actor = session.Actor{EmployeeID: 9, Token: "tok"}

type captured struct {
	method string
	path   string
	body   string
}

// newRecordingBackend serves canned GET bodies and records every write.
func newRecordingBackend(t *testing.T, gets map[string]string) (*gateway.Client, <-chan captured) {
	t.Helper()
	writes := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			body, ok := gets[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = io.WriteString(w, body)
			return
		}
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		writes <- captured{method: r.Method, path: r.URL.Path, body: string(raw)}
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)
	client, err := gateway.New(srv.URL)
	require.NoError(t, err)
	return client, writes
}

func TestSparseRecordsEncodeAsReceived(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		decode func([]byte) (any, error)
	}{
		{
			name: "employee with two members",
			raw:  `{"employee_id":5,"is_secondary_approver":false}`,
			decode: func(b []byte) (any, error) {
				var e portal.Employee
				return e, json.Unmarshal(b, &e)
			},
		},
		{
			name: "employee with a differently cased key",
			raw:  `{"Employee_ID":5,"nickname":"Five"}`,
			decode: func(b []byte) (any, error) {
				var e portal.Employee
				return e, json.Unmarshal(b, &e)
			},
		},
		{
			name: "project with history",
			raw: `{"project_code":"P1","employees":[{"employee_id":1,"supervisor_id":9,"end_date":null},
				{"employee_id":2,"supervisor_id":9,"end_date":"2020-01-01"}]}`,
			decode: func(b []byte) (any, error) {
				var p portal.Project
				return p, json.Unmarshal(b, &p)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := tt.decode([]byte(tt.raw))
			require.NoError(t, err)
			out, err := json.Marshal(record)
			require.NoError(t, err)
			assert.JSONEq(t, tt.raw, string(out))
		})
	}
}

func TestCaseVariantKeyIsPatchedInPlace(t *testing.T) {
	var e portal.Employee
	require.NoError(t, json.Unmarshal([]byte(`{"Employee_ID":5,"Is_Secondary_Approver":false}`), &e))
	assert.Equal(t, 5, e.EmployeeID)
	e.IsSecondaryApprover = true
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Employee_ID":5,"Is_Secondary_Approver":true}`, string(out))
}

func TestLocallyBuiltRecordWritesEveryMember(t *testing.T) {
	out, err := json.Marshal(portal.Employee{EmployeeID: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee_id":5,"first_name":"","last_name":"","email":"","supervisor_id":null,"is_secondary_approver":false}`, string(out))
}

func TestGrantApproverSendsOnlyLoadedMembers(t *testing.T) {
	client, writes := newRecordingBackend(t, map[string]string{
		"/emps/supervisor/9": `[{"employee_id":5,"is_secondary_approver":false}]`,
	})
	ctx := context.Background()
	emps, err := portal.LoadScopedCollection[portal.Employee](ctx, client, portal.EmployeesBySupervisor, 9, actor)
	require.NoError(t, err)
	rows := selection.ApproverRows(emps)
	require.Len(t, rows, 1)
	require.Equal(t, selection.GrantApprover, rows[0].Action)

	res := portal.NewSubmitter(client).Submit(ctx, portal.UpdateEmployee, selection.StagedApproverChange(rows[0]), actor)
	require.True(t, res.OK(), "%v", res.Cause)

	got := <-writes
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/emps/5", got.path)
	assert.JSONEq(t, `{"employee_id":5,"is_secondary_approver":true}`, got.body)
}

func TestRemovalSendsHistoryUntouched(t *testing.T) {
	client, writes := newRecordingBackend(t, map[string]string{
		"/projects/supervisor/9": `[{"project_id":7,"project_code":"P1","employees":[
			{"employee_id":1,"supervisor_id":9,"end_date":null},
			{"employee_id":2,"supervisor_id":9,"end_date":"2020-01-01"}]}]`,
	})
	ctx := context.Background()
	projects, err := portal.LoadScopedCollection[portal.Project](ctx, client, portal.ProjectsBySupervisor, 9, actor)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	candidates := selection.ActiveAssignmentsUnder(projects[0], 9)
	require.Len(t, candidates, 1)

	updated := selection.WithoutRemoved(projects[0], candidates)
	res := portal.NewSubmitter(client).Submit(ctx, portal.UpdateProject, updated, actor)
	require.True(t, res.OK(), "%v", res.Cause)

	got := <-writes
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/projects/7", got.path)
	assert.JSONEq(t, `{"project_id":7,"project_code":"P1","employees":[
		{"employee_id":2,"supervisor_id":9,"end_date":"2020-01-01"}]}`, got.body)
}

func TestCreateProjectBody(t *testing.T) {
	client, writes := newRecordingBackend(t, nil)
	p := portal.Project{ProjectCode: "NEW", ProjectName: "Fresh", SupervisorID: 9, Employees: []portal.Assignment{}}
	res := portal.NewSubmitter(client).Submit(context.Background(), portal.CreateProject, p, actor)
	require.True(t, res.OK(), "%v", res.Cause)

	got := <-writes
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, portal.PathCreateProject, got.path)
	assert.JSONEq(t, `{"project_id":0,"project_code":"NEW","project_name":"Fresh","supervisor_id":9,"employees":[]}`, got.body)
}
