// Package user defines the user model used throughout the application,
// particularly for authentication and user-scoped URL ownership.
package user

// User represents a registered account.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Username is the unique login name chosen at registration.
	Username string

	// PasswordHash is the salted bcrypt digest of the user's password.
	// It never leaves the server.
	PasswordHash string
}
