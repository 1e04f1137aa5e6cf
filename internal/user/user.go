package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateAccount reports a Save for an account name already present.
var ErrDuplicateAccount = errors.New("user: account already exists")

// User is a stored account. Passwords are kept only as bcrypt hashes.
type User struct {
	ID           int64
	Account      string
	PasswordHash string
	Email        string
}

// CheckPassword reports whether the candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// PrincipalName is the identity under which sessions index this user.
func (u *User) PrincipalName() string {
	return u.Account
}

// Registration is the record a new signup persists.
type Registration struct {
	Account  string
	Password string
	Email    string
}

// Repository is the external user-account collaborator.
type Repository interface {
	// FindByAccount resolves an account name, returning nil when absent.
	FindByAccount(ctx context.Context, account string) (*User, error)

	// Save persists a registration and returns the stored user, failing
	// with ErrDuplicateAccount when the name is taken.
	Save(ctx context.Context, reg Registration) (*User, error)
}

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
