package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"saldo/internal/amqp"
	"saldo/internal/core"
	applog "saldo/internal/log"
)

// LedgerService records transactions and derives balances. Every call
// re-reads the store; nothing is cached.
type LedgerService struct {
	store            TransactionStore
	publisher        EventPublisher
	logger           *applog.Logger
	strictCategories bool
}

// LedgerOption tweaks a LedgerService
type LedgerOption func(*LedgerService)

// WithPublisher publishes an event after each successful write
func WithPublisher(p EventPublisher) LedgerOption {
	return func(s *LedgerService) { s.publisher = p }
}

// WithStrictCategories rejects categories outside core.Categories on create and update
func WithStrictCategories(strict bool) LedgerOption {
	return func(s *LedgerService) { s.strictCategories = strict }
}

func NewLedgerService(store TransactionStore, logger *applog.Logger, opts ...LedgerOption) *LedgerService {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &LedgerService{
		store:  store,
		logger: logger.WithComponent(applog.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTransaction records a new entry stamped with the current time.
// Amount sign and user existence are not checked.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (core.Transaction, error) {
	if err := s.checkCategory(category); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.store.CreateTransaction(ctx, userID, kind, amount, description, category)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithUser(userID).
		WithTransaction(tx.ID, string(kind), amount, string(category)).ToSlice()...)

	s.publish(ctx, amqp.EventTransactionCreated, userID, tx.ID)
	return tx, nil
}

// ListTransactions returns the user's transactions, most recently created first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	s.logger.DebugContext(ctx, "Transactions listed",
		applog.FieldOperation, applog.OpList,
		applog.FieldUserID, userID,
		applog.FieldCount, len(txs))
	return txs, nil
}

// UpdateTransaction overwrites the mutable fields of transaction id; the
// timestamp is kept. It returns false when id does not exist.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (bool, error) {
	if err := s.checkCategory(category); err != nil {
		return false, err
	}

	userID, found, err := s.store.UpdateTransaction(ctx, id, kind, amount, description, category)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction update applied", applog.NewFields().
		WithOperation(applog.OpUpdate).
		WithTransaction(id, string(kind), amount, string(category)).
		With(applog.FieldFound, found).ToSlice()...)

	if found {
		s.publish(ctx, amqp.EventTransactionUpdated, userID, id)
	}
	return found, nil
}

// DeleteTransaction removes transaction id. It returns false when id does not exist.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	userID, found, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction delete applied",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldTransactionID, id,
		applog.FieldFound, found)

	if found {
		s.publish(ctx, amqp.EventTransactionDeleted, userID, id)
	}
	return found, nil
}

// ComputeBalance folds the user's current transactions: Income adds, any
// other kind subtracts. The result is exact and unrounded.
func (s *LedgerService) ComputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	txs, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compute balance: %w", err)
	}

	balance := core.Balance(txs)
	s.logger.DebugContext(ctx, "Balance computed",
		applog.FieldOperation, applog.OpBalance,
		applog.FieldUserID, userID,
		applog.FieldBalance, balance.String())
	return balance, nil
}

func (s *LedgerService) checkCategory(category core.Category) error {
	if s.strictCategories && !category.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidCategory, category)
	}
	return nil
}

// publish never fails the caller: the write is already committed locally.
func (s *LedgerService) publish(ctx context.Context, eventType amqp.EventType, userID, transactionID int64) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(eventType, userID, transactionID)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event", applog.NewFields().
			WithOperation(applog.OpPublish).
			WithUser(userID).
			With(applog.FieldTransactionID, transactionID).
			WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
	}
}
