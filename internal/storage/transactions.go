package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// CreateTransaction stamps the current local time and inserts the row as given:
// amount sign, category membership and user existence are not checked.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (core.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx := core.Transaction{
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Category:    category,
		Timestamp:   core.FormatTimestamp(r.now()),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, amount, description, category, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID, string(tx.Kind), tx.Amount.InexactFloat64(), tx.Description, string(tx.Category), tx.Timestamp)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	tx.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"user_id", tx.UserID,
		"kind", tx.Kind,
		"amount", tx.Amount.String(),
		"category", tx.Category)

	return tx, nil
}

// ListTransactions returns every transaction of userID, most recently created first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, COALESCE(kind, ''), COALESCE(amount, 0), COALESCE(description, ''), COALESCE(category, ''), COALESCE(timestamp, '')
		FROM transactions WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx       core.Transaction
			kind     string
			category string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &kind, &tx.Amount, &tx.Description, &category, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.Kind(kind)
		tx.Category = core.Category(category)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

// UpdateTransaction overwrites kind, amount, description and category of row id.
// The timestamp is left alone. found is false when no row has that id.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, kind core.Kind, amount decimal.Decimal, description string, category core.Category) (userID int64, found bool, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.QueryRowContext(ctx,
		`UPDATE transactions SET kind = ?, amount = ?, description = ?, category = ? WHERE id = ? RETURNING COALESCE(user_id, 0)`,
		string(kind), amount.InexactFloat64(), description, string(category), id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		slog.DebugContext(ctx, "Transaction to update not found", "id", id)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "user_id", userID)
	return userID, true, nil
}

// DeleteTransaction removes row id. found is false when no row has that id.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (userID int64, found bool, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.db.QueryRowContext(ctx,
		`DELETE FROM transactions WHERE id = ? RETURNING COALESCE(user_id, 0)`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		slog.DebugContext(ctx, "Transaction to delete not found", "id", id)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", userID)
	return userID, true, nil
}
