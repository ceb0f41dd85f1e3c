package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/amqp"
	applog "saldo/internal/log"
)

type stubBalances struct {
	balances map[int64]decimal.Decimal
	err      error
	calls    []int64
}

func (s *stubBalances) ComputeBalance(_ context.Context, userID int64) (decimal.Decimal, error) {
	s.calls = append(s.calls, userID)
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.balances[userID], nil
}

func TestBalanceNotifier_LogsBalance(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Output: &buf})
	stub := &stubBalances{balances: map[int64]decimal.Decimal{4: decimal.RequireFromString("749.5")}}

	n := NewBalanceNotifier(stub, logger)
	event := amqp.NewLedgerEvent(amqp.EventTransactionCreated, 4, 10)
	err := n.HandleLedgerEvent(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, []int64{4}, stub.calls)
	assert.Contains(t, buf.String(), "balance=749.50")
	assert.Contains(t, buf.String(), "component=worker")
	assert.Contains(t, buf.String(), "event_id="+event.ID)
}

func TestBalanceNotifier_StoreErrorRequeues(t *testing.T) {
	stub := &stubBalances{err: errors.New("disk I/O error")}

	n := NewBalanceNotifier(stub, nil)
	err := n.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionDeleted, 1, 2))
	assert.Error(t, err)
}

func TestBalanceNotifier_SkipsAnonymousEvent(t *testing.T) {
	stub := &stubBalances{}

	n := NewBalanceNotifier(stub, nil)
	err := n.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(amqp.EventTransactionUpdated, 0, 2))
	assert.NoError(t, err)
	assert.Empty(t, stub.calls)
}
