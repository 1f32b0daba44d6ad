package ledger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerAccount(t *testing.T) {
	t.Run("creates an active account", func(t *testing.T) {
		creator := uuid.New()
		account, err := NewLedgerAccount("Diesel Stock", AccountTypeAsset, "Bulk diesel inventory", creator)
		require.NoError(t, err)

		assert.Equal(t, "Diesel Stock", account.Name)
		assert.Equal(t, AccountTypeAsset, account.Type)
		assert.Equal(t, "Bulk diesel inventory", account.Description)
		assert.Equal(t, AccountStatusActive, account.Status)
		assert.False(t, account.IsSystem)
		assert.True(t, account.IsActive())
		assert.NotEqual(t, uuid.Nil, account.ID)
		require.NotNil(t, account.CreatedBy)
		assert.Equal(t, creator, *account.CreatedBy)
	})

	t.Run("raises AccountCreated event", func(t *testing.T) {
		account, err := NewLedgerAccount("Diesel Stock", AccountTypeAsset, "", uuid.Nil)
		require.NoError(t, err)

		events := account.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeAccountCreated, events[0].EventType())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewLedgerAccount("", AccountTypeAsset, "", uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("rejects a name over 200 characters", func(t *testing.T) {
		_, err := NewLedgerAccount(strings.Repeat("x", 201), AccountTypeAsset, "", uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("rejects an unknown account type", func(t *testing.T) {
		_, err := NewLedgerAccount("Diesel Stock", AccountType("EQUITY"), "", uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})
}

func TestNewSystemAccount(t *testing.T) {
	account, err := NewSystemAccount("Cash at Bank", AccountTypeBank, "Primary bank account")
	require.NoError(t, err)
	assert.True(t, account.IsSystem)
	assert.True(t, account.IsActive())
}

func TestLedgerAccount_Rename(t *testing.T) {
	t.Run("renames a regular account", func(t *testing.T) {
		account := newActiveAccount(t, "Misc Expenses", AccountTypeIndirectExpense)
		actor := uuid.New()

		require.NoError(t, account.Rename("Station Overheads", actor))
		assert.Equal(t, "Station Overheads", account.Name)
		assert.Equal(t, 2, account.GetVersion())
		require.NotNil(t, account.UpdatedBy)
		assert.Equal(t, actor, *account.UpdatedBy)
	})

	t.Run("system accounts keep their name", func(t *testing.T) {
		account, err := NewSystemAccount("Cash in Hand", AccountTypeAsset, "")
		require.NoError(t, err)

		err = account.Rename("Petty Cash", uuid.New())
		require.Error(t, err)
		assertDomainCode(t, err, CodeImmutableSystemAccount)
		assert.Equal(t, "Cash in Hand", account.Name)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		account := newActiveAccount(t, "Misc Expenses", AccountTypeIndirectExpense)
		err := account.Rename("", uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})
}

func TestLedgerAccount_ChangeType(t *testing.T) {
	t.Run("reclassifies a regular account", func(t *testing.T) {
		account := newActiveAccount(t, "Tanker Deposit", AccountTypeAsset)
		require.NoError(t, account.ChangeType(AccountTypeVendor, uuid.Nil))
		assert.Equal(t, AccountTypeVendor, account.Type)
	})

	t.Run("system accounts keep their type", func(t *testing.T) {
		account, err := NewSystemAccount("Oil Company Payable", AccountTypeLiability, "")
		require.NoError(t, err)

		err = account.ChangeType(AccountTypeVendor, uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeImmutableSystemAccount)
		assert.Equal(t, AccountTypeLiability, account.Type)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		account := newActiveAccount(t, "Tanker Deposit", AccountTypeAsset)
		err := account.ChangeType(AccountType("EQUITY"), uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})
}

func TestLedgerAccount_StatusTransitions(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		account := newActiveAccount(t, "Old Pump Meter", AccountTypeAsset)

		require.NoError(t, account.Deactivate(uuid.Nil))
		assert.False(t, account.IsActive())

		require.NoError(t, account.Activate(uuid.Nil))
		assert.True(t, account.IsActive())
	})

	t.Run("deactivating twice is rejected", func(t *testing.T) {
		account := newActiveAccount(t, "Old Pump Meter", AccountTypeAsset)
		require.NoError(t, account.Deactivate(uuid.Nil))

		err := account.Deactivate(uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("activating an active account is rejected", func(t *testing.T) {
		account := newActiveAccount(t, "Old Pump Meter", AccountTypeAsset)
		err := account.Activate(uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("system accounts can be deactivated", func(t *testing.T) {
		account, err := NewSystemAccount("Station Expenses", AccountTypeIndirectExpense, "")
		require.NoError(t, err)
		assert.NoError(t, account.Deactivate(uuid.Nil))
	})
}

func TestAccountType(t *testing.T) {
	t.Run("natural sides", func(t *testing.T) {
		assert.Equal(t, BalanceSideCredit, AccountTypeLiability.NaturalSide())
		assert.Equal(t, BalanceSideCredit, AccountTypeVendor.NaturalSide())
		assert.Equal(t, BalanceSideDebit, AccountTypeAsset.NaturalSide())
		assert.Equal(t, BalanceSideDebit, AccountTypeBank.NaturalSide())
		assert.Equal(t, BalanceSideDebit, AccountTypeCustomer.NaturalSide())
		assert.Equal(t, BalanceSideDebit, AccountTypeDirectExpense.NaturalSide())
		assert.Equal(t, BalanceSideDebit, AccountTypeIndirectExpense.NaturalSide())
	})

	t.Run("validity", func(t *testing.T) {
		for _, valid := range []AccountType{
			AccountTypeDirectExpense, AccountTypeIndirectExpense, AccountTypeAsset,
			AccountTypeLiability, AccountTypeCustomer, AccountTypeVendor, AccountTypeBank,
		} {
			assert.True(t, valid.IsValid(), string(valid))
		}
		assert.False(t, AccountType("EQUITY").IsValid())
		assert.False(t, AccountType("").IsValid())
	})
}
