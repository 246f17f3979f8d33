// Package session implements the stateless cookie session: a signed JWT
// carrying the user ID, held entirely by the client. The server keeps no
// session state beyond the signing secret.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the JWT payload stored in the session cookie.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ErrEmptySecret is returned by New when no signing secret is configured.
// This is a startup precondition, not a per-request error.
var ErrEmptySecret = errors.New("session signing secret is not set")

// Store creates, reads and clears session cookies.
//
// Read never fails: a missing, malformed, expired or tampered cookie yields
// the empty session, which the callers treat as "not logged in".
type Store struct {
	cookieName string
	secret     []byte
	maxAge     time.Duration
	secure     bool
}

// New returns a Store configured with the cookie name, signing secret,
// session lifetime and the Secure cookie attribute.
func New(cookieName string, secret []byte, maxAge time.Duration, secure bool) (*Store, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	return &Store{
		cookieName: cookieName,
		secret:     secret,
		maxAge:     maxAge,
		secure:     secure,
	}, nil
}

// Create encodes userID into a signed session token.
func (s *Store) Create(userID string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.maxAge)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Read extracts the user ID from the request's session cookie.
// It returns the empty string for any invalid or absent session.
func (s *Store) Read(request *http.Request) string {
	cookie, err := request.Cookie(s.cookieName)
	if err != nil {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}

// Set attaches the session token to the response.
func (s *Store) Set(response http.ResponseWriter, token string) {
	http.SetCookie(response, s.cookie(token, int(s.maxAge.Seconds())))
}

// Clear overwrites the session cookie with an immediately expiring one.
// Used on logout.
func (s *Store) Clear(response http.ResponseWriter) {
	http.SetCookie(response, s.cookie("", -1))
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
