package utils

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadPIN = errors.New("pin must be 4 digits")

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// HashPIN bcrypt-hashes the operator PIN so the plain value is not kept in memory.
func HashPIN(pin string) ([]byte, error) {
	if !pinPattern.MatchString(pin) {
		return nil, ErrBadPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}
	return hash, nil
}

func CheckPIN(hash []byte, pin string) bool {
	if !pinPattern.MatchString(pin) {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(pin)) == nil
}
