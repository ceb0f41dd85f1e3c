package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindIsCredit(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Income, true},
		{Expense, false},
		{"income", false}, // case matters
		{"Receita", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.kind.IsCredit(), "kind %q", tc.kind)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Income ")
	require.NoError(t, err)
	assert.Equal(t, Income, k)

	k, err = ParseKind("EXPENSE")
	require.NoError(t, err)
	assert.Equal(t, Expense, k)

	_, err = ParseKind("transfer")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.True(t, c.Valid())
	}

	got, err := ParseCategory("  food")
	require.NoError(t, err)
	assert.Equal(t, Food, got)

	_, err = ParseCategory("Groceries")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.False(t, Category("Groceries").Valid())
	assert.False(t, Category("food").Valid())
}

func TestCategoriesFixedSet(t *testing.T) {
	assert.Equal(t, []Category{"Food", "Transport", "Leisure", "Salary", "Other"}, Categories)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 3, 7, 9, 5, 59, 0, time.Local)
	assert.Equal(t, "2025-03-07 09:05", FormatTimestamp(ts))

	_, err := time.ParseInLocation(TimestampLayout, FormatTimestamp(time.Now()), time.Local)
	assert.NoError(t, err)
}

func TestValidateCredentials(t *testing.T) {
	u, p, err := ValidateCredentials("  ana ", " secret ")
	require.NoError(t, err)
	assert.Equal(t, "ana", u)
	assert.Equal(t, "secret", p)

	_, _, err = ValidateCredentials("   ", "secret")
	assert.ErrorIs(t, err, ErrEmptyUsername)

	_, _, err = ValidateCredentials("ana", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
