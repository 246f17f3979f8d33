// Package auth implements the authentication service: credential
// verification, registration and the session lifecycle of a request.
package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/patric-chuzhbe/shortie/internal/session"
	"github.com/patric-chuzhbe/shortie/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User) (string, error)
	FindUserByUsername(ctx context.Context, username string) (*user.User, bool, error)
	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Check(password, digest string) bool
}

// Service handles user identity: it reads and writes session cookies and
// verifies credentials against the user storage.
type Service struct {
	db       userKeeper
	hasher   passwordHasher
	sessions *session.Store
}

// New creates the auth service over the given user storage, password hasher
// and session store.
func New(db userKeeper, passwordHasher passwordHasher, sessions *session.Store) *Service {
	return &Service{
		db:       db,
		hasher:   passwordHasher,
		sessions: sessions,
	}
}

// GetUserID returns the user ID carried by the request's session, or the
// empty string for an anonymous request. It never redirects; use it for soft
// checks such as sending an already-logged-in user away from the login page.
func (s *Service) GetUserID(request *http.Request) string {
	return s.sessions.Read(request)
}

// RequireUserID returns the authenticated user ID, or, when the request
// carries no valid session, the login URL the handler must redirect to.
// Exactly one of the return values is non-empty; the caller branches on
// redirectTo before touching userID.
func (s *Service) RequireUserID(request *http.Request) (userID, redirectTo string) {
	userID = s.sessions.Read(request)
	if userID == "" {
		query := url.Values{"redirectTo": {request.URL.Path}}

		return "", "/login?" + query.Encode()
	}

	return userID, ""
}

// GetUser looks a user up by username. It backs the login-or-register branch
// of the login handler.
func (s *Service) GetUser(ctx context.Context, username string) (*user.User, bool, error) {
	return s.db.FindUserByUsername(ctx, username)
}

// GetUserByID looks a user up by the ID stored in a session.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	return s.db.FindUserByID(ctx, userID)
}

// Login verifies the credentials and returns the user, or nil when the
// username does not exist or the password does not match. The two failure
// modes are indistinguishable on purpose.
func (s *Service) Login(ctx context.Context, username, password string) (*user.User, error) {
	usr, found, err := s.db.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if !s.hasher.Check(password, usr.PasswordHash) {
		return nil, nil
	}

	return usr, nil
}

// Register hashes the password and creates the account. It performs no
// uniqueness re-check: the caller only registers after the username lookup
// came back empty.
func (s *Service) Register(ctx context.Context, username, password string) (*user.User, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	userID, err := s.db.CreateUser(ctx, usr)
	if err != nil {
		return nil, err
	}
	usr.ID = userID

	return usr, nil
}

// CreateUserSession issues a session cookie for userID and redirects the
// browser to redirectTo.
func (s *Service) CreateUserSession(
	response http.ResponseWriter,
	request *http.Request,
	userID string,
	redirectTo string,
) error {
	token, err := s.sessions.Create(userID)
	if err != nil {
		return err
	}

	s.sessions.Set(response, token)
	http.Redirect(response, request, redirectTo, http.StatusFound)

	return nil
}

// Logout clears the session cookie and redirects to the login page.
func (s *Service) Logout(response http.ResponseWriter, request *http.Request) {
	s.sessions.Clear(response)
	http.Redirect(response, request, "/login", http.StatusFound)
}
