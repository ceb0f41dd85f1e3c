package services

import (
	"context"
	"errors"
	"fmt"

	"saldo/internal/auth"
	"saldo/internal/core"
	applog "saldo/internal/log"
)

// AccountService registers users and checks their credentials
type AccountService struct {
	store    UserStore
	verifier auth.CredentialVerifier
	logger   *applog.Logger
}

func NewAccountService(store UserStore, verifier auth.CredentialVerifier, logger *applog.Logger) *AccountService {
	if verifier == nil {
		verifier = auth.PlainVerifier{}
	}
	if logger == nil {
		logger = applog.Discard()
	}
	return &AccountService{
		store:    store,
		verifier: verifier,
		logger:   logger.WithComponent(applog.ComponentAccounts),
	}
}

// Register creates a user. It returns false when the username is taken.
// Blank values are not rejected here; callers trim and check first.
func (s *AccountService) Register(ctx context.Context, username, password string) (bool, error) {
	stored, err := s.verifier.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash credentials: %w", err)
	}

	created, err := s.store.CreateUser(ctx, username, stored)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to register user", applog.NewFields().
			WithOperation(applog.OpRegister).
			With(applog.FieldUsername, username).
			WithError(err, applog.ErrorTypeDatabase).ToSlice()...)
		return false, fmt.Errorf("register user: %w", err)
	}

	if !created {
		s.logger.InfoContext(ctx, "Username already taken",
			applog.FieldOperation, applog.OpRegister,
			applog.FieldUsername, username,
			applog.FieldErrorType, applog.ErrorTypeConflict)
		return false, nil
	}

	s.logger.InfoContext(ctx, "User registered",
		applog.FieldOperation, applog.OpRegister,
		applog.FieldUsername, username)
	return true, nil
}

// Authenticate returns the user whose username matches exactly and whose
// stored credential accepts password. Any miss is core.ErrUserNotFound.
// The returned user carries no password.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*core.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, core.ErrUserNotFound) {
		s.logger.InfoContext(ctx, "Authentication failed",
			applog.FieldOperation, applog.OpAuthenticate,
			applog.FieldUsername, username,
			applog.FieldErrorType, applog.ErrorTypeNotFound)
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.verifier.Verify(u.Password, password) {
		s.logger.InfoContext(ctx, "Authentication failed",
			applog.FieldOperation, applog.OpAuthenticate,
			applog.FieldUsername, username,
			applog.FieldErrorType, applog.ErrorTypeAuth)
		return nil, core.ErrUserNotFound
	}

	s.logger.DebugContext(ctx, "User authenticated",
		applog.FieldOperation, applog.OpAuthenticate,
		applog.FieldUserID, u.ID)
	return &core.User{ID: u.ID, Username: u.Username}, nil
}
