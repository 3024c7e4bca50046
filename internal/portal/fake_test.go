package portal

import (
	"context"
	"encoding/json"

	"github.com/kingrea/staffdesk/internal/session"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeGateway records calls and replays canned responses keyed by path.
type fakeGateway struct {
	responses map[string]json.RawMessage
	errs      map[string]error
	calls     []call
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: map[string]json.RawMessage{}, errs: map[string]error{}}
}

func (f *fakeGateway) reply(path string) (json.RawMessage, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	if body, ok := f.responses[path]; ok {
		return body, nil
	}
	return json.RawMessage("null"), nil
}

func (f *fakeGateway) Get(_ context.Context, path string, _ session.Actor) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "GET", Path: path})
	return f.reply(path)
}

func (f *fakeGateway) Post(_ context.Context, path string, _ session.Actor, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "POST", Path: path, Body: body})
	return f.reply(path)
}

func (f *fakeGateway) Put(_ context.Context, path string, _ session.Actor, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "PUT", Path: path, Body: body})
	return f.reply(path)
}

func (f *fakeGateway) Authenticate(_ context.Context, path string, creds any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{Method: "AUTH", Path: path, Body: creds})
	return f.reply(path)
}
