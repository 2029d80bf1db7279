package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

// ErrPasswordTooLong is returned for plaintexts bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = common.NewValidationError("Password is too long")

// HashPassword returns a bcrypt hash of plain with a fresh salt embedded in it.
// An empty plaintext is hashed like any other.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash. A malformed hash is a
// mismatch.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
