// Package hasher wraps bcrypt password hashing behind a small type so the
// rest of the application never touches the algorithm directly.
package hasher

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost factor used for new password digests.
const DefaultCost = 10

// Hasher produces and verifies salted password digests.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost.
// A cost below bcrypt.MinCost falls back to DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}

	return &Hasher{cost: cost}
}

// Hash returns a salted digest of password. The salt is randomized per call,
// so two digests of the same password differ.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Check reports whether password matches digest. Any mismatch or malformed
// digest yields false; a wrong password is never an error.
func (h *Hasher) Check(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
