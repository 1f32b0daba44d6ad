package ledger

import (
	"fmt"

	"github.com/fuelops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Error codes for ledger business-rule rejections
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeUnbalancedVoucher      = "UNBALANCED_VOUCHER"
	CodeInvalidLine            = "INVALID_LINE"
	CodeImmutableSystemAccount = "SYSTEM_ACCOUNT_IMMUTABLE"
	CodeAccountInUse           = "ACCOUNT_IN_USE"
	CodeAlreadyCancelled       = "ALREADY_CANCELLED"
)

// NewValidationError reports malformed input
func NewValidationError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeValidation, message)
}

// NewUnbalancedVoucherError reports a voucher whose debit and credit totals
// differ, naming the exact amounts and the difference.
func NewUnbalancedVoucherError(totalDebits, totalCredits decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(CodeUnbalancedVoucher, fmt.Sprintf(
		"Voucher is out of balance: total debits %s do not equal total credits %s (difference %s)",
		totalDebits.StringFixed(2), totalCredits.StringFixed(2), totalDebits.Sub(totalCredits).Abs().StringFixed(2)))
}

// NewInvalidLineError reports a malformed voucher line
func NewInvalidLineError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidLine, message)
}

// NewImmutableSystemAccountError reports an attempt to change or delete a
// built-in account.
func NewImmutableSystemAccountError(name, action string) *shared.DomainError {
	return shared.NewDomainError(CodeImmutableSystemAccount, fmt.Sprintf(
		"Account %q is a system account and cannot be %s", name, action))
}

// NewAccountInUseError reports an attempt to delete an account referenced by
// posted voucher lines.
func NewAccountInUseError(name string) *shared.DomainError {
	return shared.NewDomainError(CodeAccountInUse, fmt.Sprintf(
		"Account %q is referenced by posted vouchers and cannot be deleted; deactivate it instead", name))
}

// NewAlreadyCancelledError reports a repeated cancellation
func NewAlreadyCancelledError(voucherNumber string) *shared.DomainError {
	return shared.NewDomainError(CodeAlreadyCancelled, fmt.Sprintf(
		"Voucher %s is already cancelled", voucherNumber))
}
