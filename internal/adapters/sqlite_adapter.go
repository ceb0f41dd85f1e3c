package adapters

import (
	"context"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
	"saldo/internal/services"
)

// SQLiteAdapter joins the account and ledger services into the single
// surface the front ends call.
type SQLiteAdapter struct {
	accounts *services.AccountService
	ledger   *services.LedgerService
}

func NewSQLiteAdapter(accounts *services.AccountService, ledger *services.LedgerService) *SQLiteAdapter {
	return &SQLiteAdapter{
		accounts: accounts,
		ledger:   ledger,
	}
}

func (a *SQLiteAdapter) Register(ctx context.Context, username, password string) (bool, error) {
	return a.accounts.Register(ctx, username, password)
}

func (a *SQLiteAdapter) Authenticate(ctx context.Context, username, password string) (*core.User, error) {
	return a.accounts.Authenticate(ctx, username, password)
}

func (a *SQLiteAdapter) CreateTransaction(ctx context.Context, userID int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (core.Transaction, error) {
	return a.ledger.CreateTransaction(ctx, userID, kind, amount, description, category)
}

func (a *SQLiteAdapter) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return a.ledger.ListTransactions(ctx, userID)
}

func (a *SQLiteAdapter) UpdateTransaction(ctx context.Context, id int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (bool, error) {
	return a.ledger.UpdateTransaction(ctx, id, kind, amount, description, category)
}

func (a *SQLiteAdapter) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	return a.ledger.DeleteTransaction(ctx, id)
}

func (a *SQLiteAdapter) ComputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return a.ledger.ComputeBalance(ctx, userID)
}
