// Package auth abstracts how stored credentials are produced and checked.
package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemePlain  Scheme = "plain"
	SchemeBcrypt Scheme = "bcrypt"
)

// Scheme names a credential verifier implementation.
type Scheme string

// IsValid returns true if the scheme is known
func (s Scheme) IsValid() bool {
	switch s {
	case SchemePlain, SchemeBcrypt:
		return true
	default:
		return false
	}
}

// CredentialVerifier turns a password into its stored form and checks a
// candidate password against that stored form.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// New returns the verifier for scheme.
func New(scheme Scheme) (CredentialVerifier, error) {
	switch scheme {
	case SchemePlain:
		return PlainVerifier{}, nil
	case SchemeBcrypt:
		return BcryptVerifier{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown credential scheme: %s", scheme)
	}
}

// PlainVerifier stores passwords as given and compares them byte for byte,
// case and whitespace included.
type PlainVerifier struct{}

func (PlainVerifier) Hash(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptVerifier stores bcrypt hashes.
type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptVerifier) Verify(stored, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	return err == nil
}

