package backend

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// Backend is the whole surface a front end may call
type Backend interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*core.User, error)
	CreateTransaction(ctx context.Context, userID int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (bool, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
	ComputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and its cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend ensures the schema and wires a backend for config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	SQLiteDBPath string
	DBTimeout    time.Duration

	CredentialScheme string
	StrictCategories bool

	// Ledger events, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}
