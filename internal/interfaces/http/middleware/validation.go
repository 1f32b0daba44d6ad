package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fuelops/backend/internal/domain/ledger"
)

// SetupValidator configures the binding validator with JSON field names and
// the ledger enum tags used in request DTOs. Call once at startup.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation("account_type", func(fl validator.FieldLevel) bool {
		return ledger.AccountType(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("voucher_type", func(fl validator.FieldLevel) bool {
		return ledger.VoucherType(fl.Field().String()).IsValid()
	})
}
