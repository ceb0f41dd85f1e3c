// Package services holds the account and ledger operations the front ends call.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"saldo/internal/amqp"
	"saldo/internal/core"
)

// UserStore persists user accounts
type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
}

// TransactionStore persists transactions
type TransactionStore interface {
	CreateTransaction(ctx context.Context, userID int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (int64, bool, error)
	DeleteTransaction(ctx context.Context, id int64) (int64, bool, error)
}

// EventPublisher announces ledger changes. Optional.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}
