// Package auth implements credential validation and the authorization
// policy.
//
// Accounts come from configuration — a data-driven mapping of identity
// to role — rather than a hard-coded "is the username admin?" check, so
// adding a second administrator is a config change, not a code change.
package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/academic-records-api/internal/config"
)

// Roles an account can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	// ErrInvalidCredentials indicates the username/password pair does
	// not match a known account. The same error covers unknown users
	// and wrong passwords so a caller cannot probe for valid usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDenied indicates an authenticated identity attempted an
	// operation its role does not permit.
	ErrDenied = errors.New("operation not permitted")
)

// Operation classifies an API call for the authorization policy.
type Operation int

const (
	// OpRead covers list/get calls.
	OpRead Operation = iota
	// OpWrite covers create, update and delete calls.
	OpWrite
)

// Identity is the result of a successful credential check.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity holds the admin role.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// Service validates credentials against the configured account list and
// decides what an authenticated identity may do. It is stateless and
// safe for concurrent use.
type Service struct {
	accounts map[string]config.Account
	secret   []byte
	tokenTTL time.Duration
}

// New builds a Service from the auth section of the configuration.
func New(cfg config.Auth) *Service {
	accounts := make(map[string]config.Account, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		accounts[a.Username] = a
	}
	return &Service{
		accounts: accounts,
		secret:   []byte(cfg.TokenSecret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Authenticate checks a username/password pair and returns the matching
// Identity, or ErrInvalidCredentials. It has no side effects: no
// lockout counters, no sessions.
func (s *Service) Authenticate(username, password string) (Identity, error) {
	account, ok := s.accounts[username]
	if !ok {
		// Burn a bcrypt comparison anyway so the response time does
		// not reveal whether the username exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{Username: account.Username, Role: account.Role}, nil
}

// Authorize applies the role policy: any authenticated identity may
// read; only admins may write. Returns ErrDenied on refusal — callers
// must surface it, never swallow it.
func (s *Service) Authorize(id Identity, op Operation) error {
	if op == OpRead {
		return nil
	}
	if !id.IsAdmin() {
		return ErrDenied
	}
	return nil
}

// dummyHash is a valid bcrypt hash of an unguessable value, used to
// equalize timing for unknown usernames.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
