package ledger

import (
	"testing"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveAccount(t *testing.T, name string, accountType AccountType) *LedgerAccount {
	t.Helper()
	account, err := NewLedgerAccount(name, accountType, "", uuid.Nil)
	require.NoError(t, err)
	account.ClearDomainEvents()
	return account
}

func accountMap(accounts ...*LedgerAccount) map[uuid.UUID]*LedgerAccount {
	m := make(map[uuid.UUID]*LedgerAccount, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}
	return m
}

func TestValidateLines(t *testing.T) {
	bank := newActiveAccount(t, "Cash at Bank", AccountTypeBank)
	sales := newActiveAccount(t, "Fuel Sales Revenue", AccountTypeAsset)
	accounts := accountMap(bank, sales)

	t.Run("accepts a balanced two line voucher", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(500)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(500)},
		}
		assert.NoError(t, ValidateLines(lines, accounts))
	})

	t.Run("accepts a compound voucher with several legs", func(t *testing.T) {
		expense := newActiveAccount(t, "Station Expenses", AccountTypeIndirectExpense)
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(300)},
			{AccountID: expense.ID, Debit: decimal.NewFromInt(200)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(500)},
		}
		assert.NoError(t, ValidateLines(lines, accountMap(bank, sales, expense)))
	})

	t.Run("rejects fewer than two lines", func(t *testing.T) {
		lines := []LineInput{{AccountID: bank.ID, Debit: decimal.NewFromInt(100)}}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
	})

	t.Run("rejects a line with both sides set", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
		assert.Contains(t, err.Error(), "both debit and credit")
	})

	t.Run("rejects a line with neither side set", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(-100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(-100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
	})

	t.Run("rejects an unknown account", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: uuid.New(), Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
		assert.Contains(t, err.Error(), "unknown account")
	})

	t.Run("rejects a missing account id", func(t *testing.T) {
		lines := []LineInput{
			{Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
	})

	t.Run("rejects an inactive account", func(t *testing.T) {
		dormant := newActiveAccount(t, "Old Equipment", AccountTypeAsset)
		require.NoError(t, dormant.Deactivate(uuid.Nil))

		lines := []LineInput{
			{AccountID: dormant.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accountMap(dormant, sales))
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
		assert.Contains(t, err.Error(), "inactive account")
	})

	t.Run("rejects all debit legs", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Debit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeInvalidLine)
		assert.Contains(t, err.Error(), "at least one debit leg and one credit leg")
	})

	t.Run("rejects unbalanced totals with exact amounts in the message", func(t *testing.T) {
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromFloat(100.01)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}
		err := ValidateLines(lines, accounts)
		require.Error(t, err)
		assertDomainCode(t, err, CodeUnbalancedVoucher)
		assert.Contains(t, err.Error(), "100.01")
		assert.Contains(t, err.Error(), "0.01")
	})

	t.Run("compares totals exactly, not approximately", func(t *testing.T) {
		// 0.1 + 0.2 vs 0.3 must balance under decimal arithmetic
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromFloat(0.1)},
			{AccountID: bank.ID, Debit: decimal.NewFromFloat(0.2)},
			{AccountID: sales.ID, Credit: decimal.NewFromFloat(0.3)},
		}
		assert.NoError(t, ValidateLines(lines, accounts))
	})
}

func TestNaturalBalance(t *testing.T) {
	t.Run("debit natural account with net debits", func(t *testing.T) {
		balance, side := NaturalBalance(AccountTypeAsset, decimal.NewFromInt(500), decimal.NewFromInt(200))
		assert.True(t, balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, BalanceSideDebit, side)
	})

	t.Run("debit natural account flips to credit when overdrawn", func(t *testing.T) {
		balance, side := NaturalBalance(AccountTypeAsset, decimal.NewFromInt(200), decimal.NewFromInt(500))
		assert.True(t, balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, BalanceSideCredit, side)
	})

	t.Run("liability account is credit natural", func(t *testing.T) {
		balance, side := NaturalBalance(AccountTypeLiability, decimal.NewFromInt(100), decimal.NewFromInt(400))
		assert.True(t, balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, BalanceSideCredit, side)
	})

	t.Run("vendor account is credit natural", func(t *testing.T) {
		balance, side := NaturalBalance(AccountTypeVendor, decimal.NewFromInt(400), decimal.NewFromInt(100))
		assert.True(t, balance.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, BalanceSideDebit, side)
	})

	t.Run("zero activity yields zero on the natural side", func(t *testing.T) {
		balance, side := NaturalBalance(AccountTypeBank, decimal.Zero, decimal.Zero)
		assert.True(t, balance.IsZero())
		assert.Equal(t, BalanceSideDebit, side)
	})
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
