package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kingrea/staffdesk/internal/session"
)

// Authenticator is the unauthenticated half of the gateway.
type Authenticator interface {
	Authenticate(ctx context.Context, path string, credentials any) (json.RawMessage, error)
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by /tokens/token.
type LoginResponse struct {
	Token      string `json:"token"`
	EmployeeID int    `json:"employee_id,omitempty"`
}

// Login exchanges credentials for a token and fetches the current-user
// record, producing the session to persist.
func Login(ctx context.Context, auth Authenticator, reader Reader, creds Credentials) (session.State, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return session.State{}, fmt.Errorf("portal: username and password are required")
	}
	body, err := auth.Authenticate(ctx, PathLogin, creds)
	if err != nil {
		return session.State{}, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return session.State{}, fmt.Errorf("portal: decode login response: %w", err)
	}
	resp.Token = strings.TrimSpace(resp.Token)
	if resp.Token == "" {
		return session.State{}, fmt.Errorf("portal: login response carried no token")
	}
	id := resp.EmployeeID
	if id <= 0 {
		claimed, ok := session.EmployeeIDFromToken(resp.Token)
		if !ok {
			return session.State{}, fmt.Errorf("portal: cannot determine employee id from login response")
		}
		id = claimed
	}
	actor := session.Actor{EmployeeID: id, Token: resp.Token}
	emp, err := GetEmployee(ctx, reader, id, actor)
	if err != nil {
		return session.State{}, err
	}
	return session.State{Token: resp.Token, User: UserRecord(emp)}, nil
}

// UserRecord converts an employee into the persisted current-user record.
func UserRecord(e Employee) *session.User {
	u := &session.User{
		EmployeeID:          e.EmployeeID,
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		Email:               e.Email,
		IsSecondaryApprover: e.IsSecondaryApprover,
	}
	if e.SupervisorID != nil {
		u.SupervisorID = *e.SupervisorID
	}
	return u
}
