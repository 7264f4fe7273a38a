package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditDAO_DebitIfSufficient(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	require.NoError(t, d.Credit(ctx, "user-1", 10, "initial grant"))

	ok, err := d.DebitIfSufficient(ctx, "user-1", 4, "batch of 4")
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err := d.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 6, balance)

	txs, err := d.Transactions(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	// Newest first.
	assert.Equal(t, -4, txs[0].Amount)
	assert.Equal(t, 10, txs[1].Amount)
}

func TestCreditDAO_DebitInsufficientLeavesBalanceUntouched(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	require.NoError(t, d.Credit(ctx, "user-1", 3, "initial grant"))

	ok, err := d.DebitIfSufficient(ctx, "user-1", 5, "batch of 5")
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := d.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, balance)

	// No debit line was written.
	txs, err := d.Transactions(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 3, txs[0].Amount)
}

func TestCreditDAO_DebitDrainsExactly(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	require.NoError(t, d.Credit(ctx, "user-1", 5, "grant"))

	// Two sequential debits against the same balance: the second must see the
	// decremented value, not the original.
	ok, err := d.DebitIfSufficient(ctx, "user-1", 5, "first")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.DebitIfSufficient(ctx, "user-1", 1, "second")
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := d.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestCreditDAO_UnknownUser(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	balance, err := d.Balance(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	ok, err := d.DebitIfSufficient(ctx, "nobody", 1, "debit")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreditDAO_CreditCreatesAccount(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	require.NoError(t, d.Credit(ctx, "new-user", 7, "welcome"))
	balance, err := d.Balance(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, 7, balance)

	require.NoError(t, d.Credit(ctx, "new-user", 2, "refund"))
	balance, err = d.Balance(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, 9, balance)
}

func TestCreditDAO_RejectsNonPositiveAmounts(t *testing.T) {
	db := testDB(t)
	d := NewCreditDAO(db)
	ctx := context.Background()

	_, err := d.DebitIfSufficient(ctx, "user-1", 0, "zero")
	assert.Error(t, err)
	assert.Error(t, d.Credit(ctx, "user-1", -1, "negative"))
}
