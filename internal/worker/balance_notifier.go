package worker

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"saldo/internal/amqp"
	"saldo/internal/core"
	applog "saldo/internal/log"
)

// BalanceReader recomputes a user's balance from the store
type BalanceReader interface {
	ComputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// BalanceNotifier reacts to ledger events by logging the user's fresh balance.
type BalanceNotifier struct {
	balances BalanceReader
	logger   *applog.Logger
}

func NewBalanceNotifier(balances BalanceReader, logger *applog.Logger) *BalanceNotifier {
	if logger == nil {
		logger = applog.Discard()
	}
	return &BalanceNotifier{
		balances: balances,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
// Returning an error requeues the message.
func (n *BalanceNotifier) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	logger := n.logger.With(
		applog.FieldEventID, event.ID,
		"type", event.Type,
		applog.FieldTransactionID, event.TransactionID)

	if event.UserID == 0 {
		logger.WarnContext(ctx, "Ledger event without user, skipping")
		return nil
	}

	balance, err := n.balances.ComputeBalance(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("compute balance for user %d: %w", event.UserID, err)
	}

	logger.InfoContext(ctx, "Balance updated",
		applog.FieldOperation, applog.OpConsume,
		applog.FieldUserID, event.UserID,
		applog.FieldBalance, core.FormatAmount(balance))
	return nil
}
