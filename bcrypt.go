package vecino

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoEmptyString is returned when hashing an empty value
var ErrNoEmptyString = errors.New("cannot hash an empty string")

// ErrMismatchedHashAndCode is returned when a gate code does not match its hash
var ErrMismatchedHashAndCode = errors.New("mismatched hash and code")

// HashGateCode will generate a gate code hash
func HashGateCode(code string) (string, error) {
	if code == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(code), gateCodeHashCost())
	return string(h), err
}

// CompareGateCodeAndHash will validate the given cleartext gate code
// matches the stored hash
func CompareGateCodeAndHash(code, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndCode
		}
		return err
	}
	return nil
}

// NewGateCode mints the 6 digit code the visitor presents at the gate.
func NewGateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
