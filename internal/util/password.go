package util

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	passwordSaltLen = 16
	passwordHashLen = 32
	argonPasses     = 1
	argonMemoryKiB  = 64 * 1024
	argonLanes      = 4

	// MinPasswordLength applies everywhere a password is set: registration,
	// change-password, and the OTP reset flow.
	MinPasswordLength = 8
)

var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// DerivePassword hashes a password with argon2id under a fresh random salt.
func DerivePassword(password string) (hash, salt []byte, err error) {
	if password == "" {
		return nil, nil, errors.New("password cannot be empty")
	}
	salt = make([]byte, passwordSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	hash = argon2.IDKey([]byte(password), salt, argonPasses, argonMemoryKiB, argonLanes, passwordHashLen)
	return hash, salt, nil
}

func VerifyPassword(password string, salt, expected []byte) bool {
	if password == "" || len(salt) == 0 || len(expected) == 0 {
		return false
	}
	candidate := argon2.IDKey([]byte(password), salt, argonPasses, argonMemoryKiB, argonLanes, passwordHashLen)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
