// Package authenticator declares the identity surface the HTTP handlers
// depend on, implemented by the auth service.
package authenticator

import (
	"context"
	"net/http"

	"github.com/patric-chuzhbe/shortie/internal/user"
)

// Authenticator establishes and tears down request identity.
type Authenticator interface {
	GetUserID(request *http.Request) string
	RequireUserID(request *http.Request) (userID, redirectTo string)
	GetUser(ctx context.Context, username string) (*user.User, bool, error)
	GetUserByID(ctx context.Context, userID string) (*user.User, bool, error)
	Login(ctx context.Context, username, password string) (*user.User, error)
	Register(ctx context.Context, username, password string) (*user.User, error)
	CreateUserSession(response http.ResponseWriter, request *http.Request, userID, redirectTo string) error
	Logout(response http.ResponseWriter, request *http.Request)
}
