package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is one proposed debit or credit leg of a voucher draft
type LineInput struct {
	AccountID   uuid.UUID
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// MinVoucherLines is the smallest legal voucher: one debit and one credit
const MinVoucherLines = 2

// ValidateLines checks a voucher draft against the double-entry rules.
// It is a pure function: accounts must contain every account referenced by
// the lines, and no side effects are performed.
//
// Rules, in order of checking:
//   - at least two lines
//   - each line carries exactly one of debit/credit, strictly positive
//   - each line references a known, active account
//   - at least one debit leg and one credit leg
//   - sum(debits) equals sum(credits) exactly
func ValidateLines(lines []LineInput, accounts map[uuid.UUID]*LedgerAccount) error {
	if len(lines) < MinVoucherLines {
		return NewInvalidLineError(fmt.Sprintf(
			"A voucher needs at least %d lines, got %d", MinVoucherLines, len(lines)))
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	debitLegs := 0
	creditLegs := 0

	for i, line := range lines {
		position := i + 1

		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		switch {
		case hasDebit && hasCredit:
			return NewInvalidLineError(fmt.Sprintf(
				"Line %d sets both debit and credit; a line must carry exactly one side", position))
		case !hasDebit && !hasCredit:
			return NewInvalidLineError(fmt.Sprintf(
				"Line %d has neither a debit nor a credit amount", position))
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return NewInvalidLineError(fmt.Sprintf(
				"Line %d has a negative amount; amounts must be strictly positive", position))
		}

		if line.AccountID == uuid.Nil {
			return NewInvalidLineError(fmt.Sprintf("Line %d is missing an account", position))
		}
		account, ok := accounts[line.AccountID]
		if !ok {
			return NewInvalidLineError(fmt.Sprintf(
				"Line %d references unknown account %s", position, line.AccountID))
		}
		if !account.IsActive() {
			return NewInvalidLineError(fmt.Sprintf(
				"Line %d references inactive account %q", position, account.Name))
		}

		if hasDebit {
			debitLegs++
			totalDebits = totalDebits.Add(line.Debit)
		} else {
			creditLegs++
			totalCredits = totalCredits.Add(line.Credit)
		}
	}

	if debitLegs == 0 || creditLegs == 0 {
		return NewInvalidLineError("A voucher needs at least one debit leg and one credit leg")
	}

	// Exact decimal comparison, never floating-point equality
	if !totalDebits.Equal(totalCredits) {
		return NewUnbalancedVoucherError(totalDebits, totalCredits)
	}

	return nil
}

// NaturalBalance converts raw debit/credit sums into the signed balance and
// the side it is reported on, per the account's natural balance side. The
// returned balance_type is always the side on which the amount is
// non-negative.
func NaturalBalance(accountType AccountType, debits, credits decimal.Decimal) (decimal.Decimal, BalanceSide) {
	var balance decimal.Decimal
	side := accountType.NaturalSide()
	if side == BalanceSideDebit {
		balance = debits.Sub(credits)
	} else {
		balance = credits.Sub(debits)
	}
	if balance.IsNegative() {
		if side == BalanceSideDebit {
			side = BalanceSideCredit
		} else {
			side = BalanceSideDebit
		}
		balance = balance.Neg()
	}
	return balance, side
}
