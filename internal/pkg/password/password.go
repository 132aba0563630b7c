// Package password hashes and checks the bcrypt secrets stored for mentors
// and mentees.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("password hashing failed")
	ErrMismatch      = errors.New("password does not match")
	ErrEmpty         = errors.New("password is empty")
)

const DefaultCost = bcrypt.DefaultCost

// absentAccountHash stands in for a stored hash when the email is unknown so
// a failed login costs one bcrypt comparison either way.
const absentAccountHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3vUOGsrNvm8Vg6eYeJ7yTFi"

func Hash(plain string) (string, error) {
	return HashWithCost(plain, DefaultCost)
}

// HashWithCost lets fixtures use bcrypt.MinCost to keep test setup fast.
func HashWithCost(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", errors.Join(ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Verify reports ErrMismatch for a wrong password. An empty stored hash is
// treated like an unknown account.
func Verify(hashed, plain string) error {
	if plain == "" {
		return ErrEmpty
	}
	if hashed == "" {
		BurnAbsent(plain)
		return ErrMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return err
	}
}

// BurnAbsent spends the same work as a real comparison for a login against
// an account that does not exist.
func BurnAbsent(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(absentAccountHash), []byte(plain))
}
