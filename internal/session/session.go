// Package session holds the authenticated actor and the on-disk session
// written by "staffdesk login". Components never read the session ambiently:
// the TUI loads an Actor once at mount and passes it into every call.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnauthenticated reports missing or unusable session state.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Actor is the current user driving a workflow. It is immutable once built.
type Actor struct {
	EmployeeID int
	Token      string
}

// Validate reports ErrUnauthenticated when the actor cannot make calls.
func (a Actor) Validate() error {
	if strings.TrimSpace(a.Token) == "" {
		return fmt.Errorf("%w: token missing", ErrUnauthenticated)
	}
	if a.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee id missing", ErrUnauthenticated)
	}
	return nil
}

// User is the persisted current-user record.
type User struct {
	EmployeeID          int    `yaml:"employee_id"`
	FirstName           string `yaml:"first_name,omitempty"`
	LastName            string `yaml:"last_name,omitempty"`
	Email               string `yaml:"email,omitempty"`
	SupervisorID        int    `yaml:"supervisor_id,omitempty"`
	IsSecondaryApprover bool   `yaml:"is_secondary_approver,omitempty"`
}

// DisplayName joins first and last name.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return fmt.Sprintf("employee %d", u.EmployeeID)
	}
	return name
}

// State is the persisted session.
type State struct {
	Token   string    `yaml:"token"`
	User    *User     `yaml:"user"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Store reads and writes session.yaml.
type Store struct {
	path  string
	clock func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStore returns a store backed by path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, fmt.Errorf("%w: no session at %s", ErrUnauthenticated, s.path)
		}
		return State{}, fmt.Errorf("session: read %s: %w", s.path, err)
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("%w: corrupt session file: %v", ErrUnauthenticated, err)
	}
	return st, nil
}

// Save persists the session with owner-only permissions.
func (s *Store) Save(st State) error {
	if strings.TrimSpace(st.Token) == "" {
		return fmt.Errorf("session: refusing to save empty token")
	}
	if st.User == nil {
		return fmt.Errorf("session: refusing to save without a user record")
	}
	if st.SavedAt.IsZero() {
		st.SavedAt = s.clock().UTC()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: ensure dir: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// Actor builds the actor for a screen, failing with ErrUnauthenticated when
// the token or the user record is absent or the token has expired.
func (s *Store) Actor() (Actor, User, error) {
	st, err := s.Load()
	if err != nil {
		return Actor{}, User{}, err
	}
	if st.User == nil {
		return Actor{}, User{}, fmt.Errorf("%w: user record missing", ErrUnauthenticated)
	}
	actor := Actor{EmployeeID: st.User.EmployeeID, Token: strings.TrimSpace(st.Token)}
	if err := actor.Validate(); err != nil {
		return Actor{}, User{}, err
	}
	if Expired(actor.Token, s.clock()) {
		return Actor{}, User{}, fmt.Errorf("%w: token expired", ErrUnauthenticated)
	}
	return actor, *st.User, nil
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens never expire client side.
func Expired(token string, now time.Time) bool {
	claims, ok := unverifiedClaims(token)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// EmployeeIDFromToken reads the employee_id claim (falling back to sub)
// without verifying the signature; the console holds no key.
func EmployeeIDFromToken(token string) (int, bool) {
	claims, ok := unverifiedClaims(token)
	if !ok {
		return 0, false
	}
	switch v := claims["employee_id"].(type) {
	case float64:
		if v > 0 {
			return int(v), true
		}
	case string:
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			return id, true
		}
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		if id, err := strconv.Atoi(sub); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

func unverifiedClaims(token string) (jwt.MapClaims, bool) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
