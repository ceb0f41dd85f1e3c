package backend

import (
	"context"
	"errors"
	"fmt"
	"io"

	"saldo/internal/adapters"
	"saldo/internal/amqp"
	"saldo/internal/auth"
	applog "saldo/internal/log"
	"saldo/internal/services"
	"saldo/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	verifier, err := auth.New(auth.Scheme(config.CredentialScheme))
	if err != nil {
		return nil, err
	}

	// Schema is ensured inside the repository constructor
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.DBTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	opts := []services.LedgerOption{services.WithStrictCategories(config.StrictCategories)}

	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without ledger events", "error", err)
			amqpClient = nil
		} else {
			opts = append(opts, services.WithPublisher(amqpClient))
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	accounts := services.NewAccountService(repo, verifier, f.logger)
	ledger := services.NewLedgerService(repo, f.logger, opts...)

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		applog.FieldDBPath, config.SQLiteDBPath,
		"credential_scheme", config.CredentialScheme,
		"strict_categories", config.StrictCategories,
		"events_enabled", amqpClient != nil)

	return &BackendResult{
		Backend: adapters.NewSQLiteAdapter(accounts, ledger),
		Cleanup: closeAll(resources(repo, amqpClient)...),
	}, nil
}

// resource is something the cleanup must close, named for the error message
type resource struct {
	name   string
	closer io.Closer
}

// resources lists what the backend owns, events first so nothing publishes
// into a closed store.
func resources(repo *storage.SQLiteRepository, amqpClient *amqp.Client) []resource {
	var rs []resource
	if amqpClient != nil {
		rs = append(rs, resource{name: "amqp", closer: amqpClient})
	}
	return append(rs, resource{name: "storage", closer: repo})
}

func closeAll(rs ...resource) CleanupFunc {
	return func() error {
		var errs []error
		for _, r := range rs {
			if err := r.closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("close backend: %w", err)
		}
		return nil
	}
}
