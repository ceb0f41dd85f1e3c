package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/config"
	"saldo/internal/core"
)

func testConfig(t *testing.T) Config {
	return Config{
		SQLiteDBPath:     filepath.Join(t.TempDir(), "nested", "saldo.db"),
		DBTimeout:        time.Second,
		CredentialScheme: "plain",
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig(t)
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.SQLiteDBPath = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.CredentialScheme = "rot13"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.AMQPURL = "amqp://localhost/"
	assert.Error(t, bad.Validate())
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	app := &config.Config{
		SQLiteDBPath:     "/tmp/x.db",
		DBTimeout:        time.Second,
		CredentialScheme: "bcrypt",
		StrictCategories: true,
		AMQPExchange:     "saldo",
		AMQPQueue:        "ledger_events",
	}
	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.SQLiteDBPath)
	assert.Equal(t, "bcrypt", cfg.CredentialScheme)
	assert.True(t, cfg.StrictCategories)
	assert.Equal(t, "saldo", cfg.AMQPExchange)
}

func TestCreateBackend_EndToEnd(t *testing.T) {
	ctx := context.Background()
	result, err := NewFactory(nil).CreateBackend(ctx, testConfig(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, result.Cleanup()) }()

	b := result.Backend

	ok, err := b.Register(ctx, "ana", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	u, err := b.Authenticate(ctx, "ana", "pw")
	require.NoError(t, err)

	_, err = b.CreateTransaction(ctx, u.ID, core.Income, decimal.RequireFromString("1000.00"), "", core.Salary)
	require.NoError(t, err)
	food, err := b.CreateTransaction(ctx, u.ID, core.Expense, decimal.RequireFromString("250.50"), "", core.Food)
	require.NoError(t, err)

	balance, err := b.ComputeBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "749.50", core.FormatAmount(balance))

	found, err := b.UpdateTransaction(ctx, food.ID, core.Expense, decimal.RequireFromString("50"), "lunch", core.Food)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = b.DeleteTransaction(ctx, food.ID)
	require.NoError(t, err)
	assert.True(t, found)

	txs, err := b.ListTransactions(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestCreateBackend_StrictCategories(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.StrictCategories = true

	result, err := NewFactory(nil).CreateBackend(ctx, cfg)
	require.NoError(t, err)
	defer result.Cleanup()

	_, err = result.Backend.CreateTransaction(ctx, 1, core.Expense, decimal.NewFromInt(1), "", "Groceries")
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
}

func TestCreateBackend_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CredentialScheme = "nope"

	_, err := NewFactory(nil).CreateBackend(context.Background(), cfg)
	assert.Error(t, err)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseAll_JoinsErrors(t *testing.T) {
	errBroker := errors.New("broker gone")
	errDisk := errors.New("disk full")
	var order []string

	cleanup := closeAll(
		resource{name: "amqp", closer: closerFunc(func() error { order = append(order, "amqp"); return errBroker })},
		resource{name: "storage", closer: closerFunc(func() error { order = append(order, "storage"); return errDisk })},
	)

	err := cleanup()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroker)
	assert.ErrorIs(t, err, errDisk)
	assert.Contains(t, err.Error(), "amqp: broker gone")
	assert.Equal(t, []string{"amqp", "storage"}, order)

	ok := closeAll(resource{name: "storage", closer: closerFunc(func() error { return nil })})
	assert.NoError(t, ok())
}
