package util

import (
	"github.com/bwise1/phishblock/internal/phishing"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("identifier", validateIdentifier)
	validate.RegisterValidation("wallet", validateWallet)
}

// validateIdentifier accepts anything the normalizer accepts: a
// URL-shaped string or a wallet address.
func validateIdentifier(fl validator.FieldLevel) bool {
	_, err := phishing.Normalize(fl.Field().String())
	return err == nil
}

func validateWallet(fl validator.FieldLevel) bool {
	ident, err := phishing.Normalize(fl.Field().String())
	return err == nil && ident.Kind == phishing.KindAddress
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
