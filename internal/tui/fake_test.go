package tui

import (
	"context"
	"encoding/json"

	"github.com/kingrea/staffdesk/internal/session"
)

type call struct {
	Method string
	Path   string
	Body   any
	// JSON is Body as the gateway would encode it.
	JSON string
}

// fakeBackend replays canned bodies keyed by path and records every call.
type fakeBackend struct {
	responses map[string]string
	errs      map[string]error
	calls     []call
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		responses: map[string]string{
			"/emps/supervisor/1": `[
				{"employee_id": 2, "first_name": "Ravi", "last_name": "Kapoor", "email": "ravi@example.com", "supervisor_id": 1, "is_secondary_approver": false},
				{"employee_id": 3, "first_name": "Mei", "last_name": "Tanaka", "email": "mei@example.com", "supervisor_id": 1, "is_secondary_approver": true},
				{"employee_id": 4, "first_name": "Owen", "last_name": "Brooks", "email": "owen@example.com", "supervisor_id": 1, "is_secondary_approver": false}
			]`,
			"/emps/3": `{"employee_id": 3, "first_name": "Mei", "last_name": "Tanaka", "email": "mei@example.com", "supervisor_id": 1, "is_secondary_approver": true}`,
			"/projects/emp/3": `[
				{"project_id": 100, "project_code": "APX-1", "project_name": "Apollo Payroll", "supervisor_id": 1,
				 "employees": [{"employee_id": 3, "supervisor_id": 1, "first_name": "Mei", "last_name": "Tanaka", "start_date": "2024-02-12", "end_date": null}]}
			]`,
			"/projects/supervisor/1": `[
				{"project_id": 100, "project_code": "APX-1", "project_name": "Apollo Payroll", "supervisor_id": 1,
				 "employees": [
					{"employee_id": 2, "supervisor_id": 1, "first_name": "Ravi", "last_name": "Kapoor", "start_date": "2024-01-08", "end_date": null},
					{"employee_id": 3, "supervisor_id": 1, "first_name": "Mei", "last_name": "Tanaka", "start_date": "2024-02-12", "end_date": null},
					{"employee_id": 4, "supervisor_id": 1, "first_name": "Owen", "last_name": "Brooks", "start_date": "2023-05-01", "end_date": "2023-12-22"}
				 ]}
			]`,
		},
		errs: map[string]error{},
	}
}

func (f *fakeBackend) reply(path string) (json.RawMessage, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	if body, ok := f.responses[path]; ok {
		return json.RawMessage(body), nil
	}
	return json.RawMessage("{}"), nil
}

func (f *fakeBackend) Get(_ context.Context, path string, _ session.Actor) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "GET", Path: path})
	return f.reply(path)
}

func (f *fakeBackend) Post(_ context.Context, path string, _ session.Actor, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "POST", Path: path, Body: body, JSON: encode(body)})
	return f.reply(path)
}

func (f *fakeBackend) Put(_ context.Context, path string, _ session.Actor, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "PUT", Path: path, Body: body, JSON: encode(body)})
	return f.reply(path)
}

func (f *fakeBackend) count(method, path string) int {
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeBackend) writes() []call {
	var out []call
	for _, c := range f.calls {
		if c.Method != "GET" {
			out = append(out, c)
		}
	}
	return out
}

func encode(body any) string {
	data, err := json.Marshal(body)
	if err != nil {
		return "!" + err.Error()
	}
	return string(data)
}
