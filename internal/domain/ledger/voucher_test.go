package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVoucher(t *testing.T) *JournalVoucher {
	t.Helper()
	bank := newActiveAccount(t, "Cash at Bank", AccountTypeBank)
	sales := newActiveAccount(t, "Fuel Sales Revenue", AccountTypeAsset)

	lines := []LineInput{
		{AccountID: bank.ID, Debit: decimal.NewFromInt(750), Description: "Card settlement"},
		{AccountID: sales.ID, Credit: decimal.NewFromInt(750)},
	}
	voucher, err := NewJournalVoucher(
		VoucherTypeReceipt,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		"SALE-0042",
		"Fuel sale settlement",
		lines,
		accountMap(bank, sales),
		uuid.New(),
	)
	require.NoError(t, err)
	return voucher
}

func TestNewJournalVoucher(t *testing.T) {
	t.Run("creates a posted voucher from valid lines", func(t *testing.T) {
		voucher := newTestVoucher(t)

		assert.Equal(t, VoucherTypeReceipt, voucher.Type)
		assert.Equal(t, VoucherStatusPosted, voucher.Status)
		assert.Empty(t, voucher.VoucherNumber)
		assert.True(t, voucher.TotalAmount.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, 2, voucher.LineCount())
		assert.True(t, voucher.IsBalanced())
		assert.True(t, voucher.IsPosted())

		// Lines carry positions and denormalized account names
		assert.Equal(t, 1, voucher.Lines[0].Position)
		assert.Equal(t, 2, voucher.Lines[1].Position)
		assert.Equal(t, "Cash at Bank", voucher.Lines[0].AccountName)
		assert.Equal(t, "Fuel Sales Revenue", voucher.Lines[1].AccountName)
	})

	t.Run("raises no event until posting completes", func(t *testing.T) {
		voucher := newTestVoucher(t)
		assert.Empty(t, voucher.GetDomainEvents())
	})

	t.Run("MarkPosted raises the posted event", func(t *testing.T) {
		voucher := newTestVoucher(t)
		voucher.VoucherNumber = "RV-2026-00001"
		voucher.MarkPosted()

		events := voucher.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*VoucherPostedEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeVoucherPosted, event.EventType())
		assert.Equal(t, "RV-2026-00001", event.VoucherNumber)
		assert.True(t, event.TotalAmount.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, 2, event.LineCount)
	})

	t.Run("rejects an unknown voucher type", func(t *testing.T) {
		bank := newActiveAccount(t, "Cash at Bank", AccountTypeBank)
		sales := newActiveAccount(t, "Fuel Sales Revenue", AccountTypeAsset)
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}

		_, err := NewJournalVoucher(VoucherType("INVOICE"), time.Now(), "", "", lines, accountMap(bank, sales), uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("rejects a zero voucher date", func(t *testing.T) {
		bank := newActiveAccount(t, "Cash at Bank", AccountTypeBank)
		sales := newActiveAccount(t, "Fuel Sales Revenue", AccountTypeAsset)
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(100)},
		}

		_, err := NewJournalVoucher(VoucherTypeJournal, time.Time{}, "", "", lines, accountMap(bank, sales), uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("rejects unbalanced lines", func(t *testing.T) {
		bank := newActiveAccount(t, "Cash at Bank", AccountTypeBank)
		sales := newActiveAccount(t, "Fuel Sales Revenue", AccountTypeAsset)
		lines := []LineInput{
			{AccountID: bank.ID, Debit: decimal.NewFromInt(100)},
			{AccountID: sales.ID, Credit: decimal.NewFromInt(99)},
		}

		_, err := NewJournalVoucher(VoucherTypeJournal, time.Now(), "", "", lines, accountMap(bank, sales), uuid.Nil)
		require.Error(t, err)
		assertDomainCode(t, err, CodeUnbalancedVoucher)
	})
}

func TestJournalVoucher_Cancel(t *testing.T) {
	t.Run("cancels a posted voucher", func(t *testing.T) {
		voucher := newTestVoucher(t)
		voucher.VoucherNumber = "RV-2026-00007"
		actor := uuid.New()

		require.NoError(t, voucher.Cancel(actor, "Duplicate entry"))

		assert.True(t, voucher.IsCancelled())
		assert.Equal(t, VoucherStatusCancelled, voucher.Status)
		require.NotNil(t, voucher.CancelledAt)
		require.NotNil(t, voucher.CancelledBy)
		assert.Equal(t, actor, *voucher.CancelledBy)
		assert.Equal(t, "Duplicate entry", voucher.CancelReason)
		assert.Equal(t, 2, voucher.GetVersion())

		events := voucher.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*VoucherCancelledEvent)
		require.True(t, ok)
		assert.Equal(t, "RV-2026-00007", event.VoucherNumber)
		assert.Equal(t, "Duplicate entry", event.CancelReason)
	})

	t.Run("rejects cancelling twice", func(t *testing.T) {
		voucher := newTestVoucher(t)
		require.NoError(t, voucher.Cancel(uuid.New(), "First cancel"))

		err := voucher.Cancel(uuid.New(), "Second cancel")
		require.Error(t, err)
		assertDomainCode(t, err, CodeAlreadyCancelled)
	})

	t.Run("requires a reason", func(t *testing.T) {
		voucher := newTestVoucher(t)
		err := voucher.Cancel(uuid.New(), "")
		require.Error(t, err)
		assertDomainCode(t, err, CodeValidation)
	})

	t.Run("keeps lines after cancellation", func(t *testing.T) {
		voucher := newTestVoucher(t)
		require.NoError(t, voucher.Cancel(uuid.New(), "Wrong station"))
		assert.Equal(t, 2, voucher.LineCount())
	})
}

func TestJournalVoucher_Totals(t *testing.T) {
	voucher := newTestVoucher(t)

	assert.True(t, voucher.TotalDebits().Equal(decimal.NewFromInt(750)))
	assert.True(t, voucher.TotalCredits().Equal(decimal.NewFromInt(750)))
	assert.True(t, voucher.IsBalanced())
}

func TestVoucherType(t *testing.T) {
	t.Run("number prefixes", func(t *testing.T) {
		assert.Equal(t, "PV", VoucherTypePayment.NumberPrefix())
		assert.Equal(t, "RV", VoucherTypeReceipt.NumberPrefix())
		assert.Equal(t, "JV", VoucherTypeJournal.NumberPrefix())
	})

	t.Run("validity", func(t *testing.T) {
		assert.True(t, VoucherTypePayment.IsValid())
		assert.True(t, VoucherTypeReceipt.IsValid())
		assert.True(t, VoucherTypeJournal.IsValid())
		assert.False(t, VoucherType("INVOICE").IsValid())
		assert.False(t, VoucherType("").IsValid())
	})
}

func TestJournalEntryLine(t *testing.T) {
	debitLine := JournalEntryLine{Debit: decimal.NewFromInt(100)}
	creditLine := JournalEntryLine{Credit: decimal.NewFromInt(40)}

	assert.True(t, debitLine.IsDebit())
	assert.False(t, creditLine.IsDebit())
	assert.True(t, debitLine.Amount().Equal(decimal.NewFromInt(100)))
	assert.True(t, creditLine.Amount().Equal(decimal.NewFromInt(40)))
}
