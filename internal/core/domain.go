package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout of Transaction.Timestamp ("YYYY-MM-DD HH:MM").
const TimestampLayout = "2006-01-02 15:04"

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

const (
	Food      Category = "Food"
	Transport Category = "Transport"
	Leisure   Category = "Leisure"
	Salary    Category = "Salary"
	Other     Category = "Other"
)

// Categories is the closed set offered wherever a transaction is entered or edited.
var Categories = []Category{Food, Transport, Leisure, Salary, Other}

type (
	// Kind tags a transaction as a credit (Income) or a debit (anything else).
	Kind string

	Category string

	User struct {
		ID       int64
		Username string
		Password string // as produced by the configured credential verifier
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Kind        Kind
		Amount      decimal.Decimal
		Description string
		Category    Category
		Timestamp   string // TimestampLayout, set once at creation
	}
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyUsername   = errors.New("empty username")
	ErrEmptyPassword   = errors.New("empty password")
)

// IsCredit reports whether the kind adds to the balance. Only the literal Income tag does.
func (k Kind) IsCredit() bool {
	return k == Income
}

// ParseKind accepts "income"/"expense" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", ErrInvalidKind
}

// Valid reports whether c belongs to Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against Categories ignoring case and surrounding spaces.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", ErrInvalidCategory
}

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ValidateCredentials applies the blank checks the login and registration screens perform.
// Both fields are trimmed first; the trimmed values are returned.
func ValidateCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" {
		return "", "", ErrEmptyUsername
	}
	if password == "" {
		return "", "", ErrEmptyPassword
	}
	return username, password, nil
}
