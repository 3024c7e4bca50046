package devserver

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "staffdesk-dev"

var (
	// ErrInvalidToken covers every bearer token the server refuses.
	ErrInvalidToken = errors.New("devserver: invalid token")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("devserver: token expired")
)

// Claims is the access token payload. employee_id is what the console reads
// back client-side.
type Claims struct {
	EmployeeID int `json:"employee_id"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 access tokens.
type Tokens struct {
	key   []byte
	ttl   time.Duration
	clock func() time.Time
}

// NewTokens returns a token service signing with key.
func NewTokens(key string, ttl time.Duration, clock func() time.Time) (*Tokens, error) {
	if key == "" {
		return nil, fmt.Errorf("devserver: signing key is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Tokens{key: []byte(key), ttl: ttl, clock: clock}, nil
}

// Issue signs a token for employeeID.
func (t *Tokens) Issue(employeeID int) (string, error) {
	now := t.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(employeeID),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("devserver: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the employee id.
func (t *Tokens) Verify(raw string) (int, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return t.key, nil
	}, jwt.WithTimeFunc(t.clock), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.EmployeeID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.EmployeeID, nil
}
