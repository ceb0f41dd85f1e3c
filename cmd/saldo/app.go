package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	ucli "github.com/urfave/cli/v2"

	"saldo/internal/backend"
	"saldo/internal/cli"
	"saldo/internal/config"
	"saldo/internal/core"
	applog "saldo/internal/log"
	"saldo/internal/storage"
)

// session carries the config and, once a command asks for it, the backend.
type session struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend backend.Backend
	cleanup backend.CleanupFunc
}

func newApp(out io.Writer) *ucli.App {
	s := &session{}

	return &ucli.App{
		Name:   "saldo",
		Usage:  "personal income and expense ledger",
		Writer: out,
		Reader: os.Stdin,
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "db", Usage: "path of the SQLite ledger file", EnvVars: []string{"SQLITE_DB_PATH"}},
			&ucli.StringFlag{Name: "username", Aliases: []string{"u"}, EnvVars: []string{"SALDO_USERNAME"}},
			&ucli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"SALDO_PASSWORD"}},
		},
		Before: s.open,
		After:  s.close,
		Commands: []*ucli.Command{
			{
				Name:   "init",
				Usage:  "create the ledger tables if needed",
				Action: s.initSchema,
			},
			{
				Name:   "register",
				Usage:  "create a user from --username and --password",
				Action: s.register,
			},
			{
				Name:   "login",
				Usage:  "check --username and --password",
				Action: s.login,
			},
			{
				Name:   "add-income",
				Usage:  "record an income",
				Flags:  entryFlags(),
				Action: s.add(core.Income),
			},
			{
				Name:   "add-expense",
				Usage:  "record an expense",
				Flags:  entryFlags(),
				Action: s.add(core.Expense),
			},
			{
				Name:   "list",
				Usage:  "show transactions, newest first",
				Action: s.list,
			},
			{
				Name:  "edit",
				Usage: "change a transaction; unset flags keep the current values",
				Flags: append(entryFlags(),
					&ucli.Int64Flag{Name: "id", Required: true},
					&ucli.StringFlag{Name: "kind", Usage: "Income or Expense"},
				),
				Action: s.edit,
			},
			{
				Name:  "delete",
				Usage: "remove a transaction",
				Flags: []ucli.Flag{
					&ucli.Int64Flag{Name: "id", Required: true},
					&ucli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation"},
				},
				Action: s.delete,
			},
			{
				Name:   "balance",
				Usage:  "show the current balance",
				Action: s.balance,
			},
			{
				Name:   "categories",
				Usage:  "list the available categories",
				Action: s.categories,
			},
		},
	}
}

func entryFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{Name: "amount", Aliases: []string{"a"}},
		&ucli.StringFlag{Name: "description", Aliases: []string{"d"}},
		&ucli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: string(core.Categories[0])},
	}
}

// open runs before any command. Storage is left alone until a command needs it.
func (s *session) open(c *ucli.Context) error {
	s.cfg = config.Load()
	if db := c.String("db"); db != "" {
		s.cfg.SQLiteDBPath = db
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.logger = cli.SetupLogger(s.cfg.LogLevel)
	return nil
}

// ledger ensures the schema and builds the backend on first use.
func (s *session) ledger(c *ucli.Context) (backend.Backend, error) {
	if s.backend != nil {
		return s.backend, nil
	}

	backendCfg, err := backend.FromAppConfig(s.cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(s.logger).CreateBackend(c.Context, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	s.backend, s.cleanup = result.Backend, result.Cleanup
	return s.backend, nil
}

func (s *session) close(*ucli.Context) error {
	if s.cleanup == nil {
		return nil
	}
	return s.cleanup()
}

// user trims and checks the credentials, then authenticates them.
// On success the backend is open for the rest of the command.
func (s *session) user(c *ucli.Context) (*core.User, error) {
	username, password, err := core.ValidateCredentials(c.String("username"), c.String("password"))
	if err != nil {
		return nil, fmt.Errorf("fill in --username and --password: %w", err)
	}
	b, err := s.ledger(c)
	if err != nil {
		return nil, err
	}
	u, err := b.Authenticate(c.Context, username, password)
	if errors.Is(err, core.ErrUserNotFound) {
		return nil, errors.New("wrong username or password")
	}
	return u, err
}

func (s *session) initSchema(c *ucli.Context) error {
	if _, err := s.ledger(c); err != nil {
		return err
	}
	version, err := storage.SchemaVersion(s.cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "ledger ready at %s (schema version %d)\n", s.cfg.SQLiteDBPath, version)
	return nil
}

func (s *session) register(c *ucli.Context) error {
	username, password, err := core.ValidateCredentials(c.String("username"), c.String("password"))
	if err != nil {
		return fmt.Errorf("fill in --username and --password: %w", err)
	}
	b, err := s.ledger(c)
	if err != nil {
		return err
	}
	ok, err := b.Register(c.Context, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %q already exists", username)
	}
	fmt.Fprintf(c.App.Writer, "user %s registered\n", username)
	return nil
}

func (s *session) login(c *ucli.Context) error {
	u, err := s.user(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Welcome, %s!\n", u.Username)
	return nil
}

func (s *session) add(kind core.Kind) ucli.ActionFunc {
	return func(c *ucli.Context) error {
		u, err := s.user(c)
		if err != nil {
			return err
		}
		amount, err := core.ParseAmount(c.String("amount"))
		if err != nil {
			return fmt.Errorf("--amount must be a number: %w", err)
		}
		category, err := core.ParseCategory(c.String("category"))
		if err != nil {
			return fmt.Errorf("--category must be one of %v", core.Categories)
		}

		tx, err := s.backend.CreateTransaction(c.Context, u.ID, kind, amount, c.String("description"), category)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s %s recorded as #%d\n", kind, core.FormatAmount(amount), tx.ID)
		return s.printBalance(c.Context, c.App.Writer, u.ID)
	}
}

func (s *session) list(c *ucli.Context) error {
	u, err := s.user(c)
	if err != nil {
		return err
	}
	txs, err := s.backend.ListTransactions(c.Context, u.ID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tAMOUNT\tDESCRIPTION\tCATEGORY\tDATE")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Kind, core.FormatAmount(tx.Amount), tx.Description, tx.Category, tx.Timestamp)
	}
	return w.Flush()
}

// owned finds id among the user's own transactions.
func (s *session) owned(ctx context.Context, userID, id int64) (core.Transaction, error) {
	txs, err := s.backend.ListTransactions(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction #%d not found", id)
}

func (s *session) edit(c *ucli.Context) error {
	u, err := s.user(c)
	if err != nil {
		return err
	}
	current, err := s.owned(c.Context, u.ID, c.Int64("id"))
	if err != nil {
		return err
	}

	kind, amount, description, category := current.Kind, current.Amount, current.Description, current.Category
	if c.IsSet("kind") {
		if kind, err = core.ParseKind(c.String("kind")); err != nil {
			return errors.New("--kind must be Income or Expense")
		}
	}
	if c.IsSet("amount") {
		if amount, err = core.ParseAmount(c.String("amount")); err != nil {
			return fmt.Errorf("--amount must be a number: %w", err)
		}
	}
	if c.IsSet("description") {
		description = c.String("description")
	}
	if c.IsSet("category") {
		if category, err = core.ParseCategory(c.String("category")); err != nil {
			return fmt.Errorf("--category must be one of %v", core.Categories)
		}
	}

	found, err := s.backend.UpdateTransaction(c.Context, current.ID, kind, amount, description, category)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("transaction #%d not found", current.ID)
	}
	fmt.Fprintf(c.App.Writer, "transaction #%d updated\n", current.ID)
	return s.printBalance(c.Context, c.App.Writer, u.ID)
}

func (s *session) delete(c *ucli.Context) error {
	u, err := s.user(c)
	if err != nil {
		return err
	}
	current, err := s.owned(c.Context, u.ID, c.Int64("id"))
	if err != nil {
		return err
	}

	if !c.Bool("yes") {
		fmt.Fprintf(c.App.Writer, "Delete transaction #%d (%s %s %s)? [y/N] ",
			current.ID, current.Kind, core.FormatAmount(current.Amount), current.Description)
		if !confirmed(c.App.Reader) {
			fmt.Fprintln(c.App.Writer, "nothing deleted")
			return nil
		}
	}

	found, err := s.backend.DeleteTransaction(c.Context, current.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("transaction #%d not found", current.ID)
	}
	fmt.Fprintf(c.App.Writer, "transaction #%d deleted\n", current.ID)
	return s.printBalance(c.Context, c.App.Writer, u.ID)
}

// confirmed reads one answer line; only y or yes agrees.
func confirmed(r io.Reader) bool {
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *session) balance(c *ucli.Context) error {
	u, err := s.user(c)
	if err != nil {
		return err
	}
	return s.printBalance(c.Context, c.App.Writer, u.ID)
}

func (s *session) categories(c *ucli.Context) error {
	for _, category := range core.Categories {
		fmt.Fprintln(c.App.Writer, category)
	}
	return nil
}

func (s *session) printBalance(ctx context.Context, w io.Writer, userID int64) error {
	balance, err := s.backend.ComputeBalance(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Current balance: %s\n", core.FormatAmount(balance))
	return nil
}
