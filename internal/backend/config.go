package backend

import (
	"fmt"

	"saldo/internal/auth"
	"saldo/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		SQLiteDBPath:     appConfig.SQLiteDBPath,
		DBTimeout:        appConfig.DBTimeout,
		CredentialScheme: appConfig.CredentialScheme,
		StrictCategories: appConfig.StrictCategories,
		AMQPURL:          appConfig.AMQPURL,
		AMQPExchange:     appConfig.AMQPExchange,
		AMQPQueue:        appConfig.AMQPQueue,
	}
	return cfg, cfg.Validate()
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required")
	}
	if !auth.Scheme(c.CredentialScheme).IsValid() {
		return fmt.Errorf("invalid credential scheme: %s", c.CredentialScheme)
	}
	// AMQP is optional; when set both names are needed
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}
	return nil
}
