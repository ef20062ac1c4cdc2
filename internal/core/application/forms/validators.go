package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
	"github.com/shopspring/decimal"
)

// Errors maps field ids to their validation error message.
type Errors map[string]string

func (e Errors) copy() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// merge returns a map holding the errors of e and all of others. Later
// errors override earlier ones for the same field.
func (e Errors) merge(others ...Errors) Errors {
	out := e.copy()
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// ValidationError reports the field errors of a rejected request.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidFields, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidFields
}

// AsError returns a ValidationError holding e, nil if e is empty.
func (e Errors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{e.copy()}
}

// parseNumber parses a sanitized user input, like a float would.
func parseNumber(value string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(sanitizer.Sanitize(value))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// isCoinWeiable returns whether amount can be converted to the smallest unit
// of the chain coin.
func isCoinWeiable(client ports.UnitConverter, chain domain.ChainConfig, amount string) bool {
	_, err := client.FromCoin(chain, sanitizer.Sanitize(amount))
	return err == nil
}

// isWeiable returns whether amount, expressed in unit, can be converted to
// wei.
func isWeiable(client ports.UnitConverter, amount, unit string) bool {
	_, err := client.ToWei(sanitizer.Sanitize(amount), unit)
	return err == nil
}

func isHexable(client ports.UnitConverter, amount string) bool {
	_, err := client.ToHex(amount)
	return err == nil
}

// isGreaterThanZero returns whether amount is a valid amount above 0.
func isGreaterThanZero(amount string) bool {
	v, ok := parseNumber(amount)
	return ok && v.IsPositive()
}

func validateAmount(id, amount, max string, weiable func(string) bool) Errors {
	errs := Errors{}
	switch {
	case amount == "":
		errs[id] = "Amount is required"
	case !weiable(amount):
		errs[id] = "Invalid amount"
	case exceeds(amount, max):
		errs[id] = "Insufficient funds"
	case isNegative(amount):
		errs[id] = "Amount must be greater than 0"
	}
	return errs
}

func exceeds(amount, max string) bool {
	if max == "" {
		return false
	}
	a, ok := parseNumber(amount)
	if !ok {
		return false
	}
	m, ok := parseNumber(max)
	return ok && a.GreaterThan(m)
}

func isNegative(amount string) bool {
	v, ok := parseNumber(amount)
	return ok && v.IsNegative()
}

// ValidateCoinAmount validates an amount of the chain coin against the
// available balance max, in coin units.
func ValidateCoinAmount(
	client ports.UnitConverter, chain domain.ChainConfig, amount, max string,
) Errors {
	return validateAmount(FieldCoinAmount, amount, max, func(a string) bool {
		return isCoinWeiable(client, chain, a)
	})
}

// ValidateMetAmount validates a MET amount against the available balance
// max.
func ValidateMetAmount(client ports.UnitConverter, amount, max string) Errors {
	return validateAmount(FieldMetAmount, amount, max, func(a string) bool {
		return isWeiable(client, a, units.UnitEther)
	})
}

func ValidateToAddress(client ports.UnitConverter, chain domain.ChainConfig, to string) Errors {
	errs := Errors{}
	switch {
	case to == "":
		errs[FieldToAddress] = "Address is required"
	case !client.IsAddress(chain, to):
		errs[FieldToAddress] = "Invalid address"
	}
	return errs
}

func ValidateGasLimit(client ports.UnitConverter, gasLimit string) Errors {
	errs := Errors{}
	if gasLimit == "" {
		errs[FieldGasLimit] = "Gas limit is required"
		return errs
	}
	v, ok := parseNumber(gasLimit)
	switch {
	case !ok:
		errs[FieldGasLimit] = "Invalid value"
	case !v.Equal(v.Floor()):
		errs[FieldGasLimit] = "Gas limit must be an integer"
	case !v.IsPositive():
		errs[FieldGasLimit] = "Gas limit must be greater than 0"
	case !isHexable(client, v.String()):
		errs[FieldGasLimit] = "Invalid value"
	}
	return errs
}

// ValidateGasPrice validates a gas price expressed in gwei.
func ValidateGasPrice(client ports.UnitConverter, gasPrice string) Errors {
	errs := Errors{}
	if gasPrice == "" {
		errs[FieldGasPrice] = "Gas price is required"
		return errs
	}
	v, ok := parseNumber(gasPrice)
	switch {
	case !ok:
		errs[FieldGasPrice] = "Invalid value"
	case !v.IsPositive():
		errs[FieldGasPrice] = "Gas price must be greater than 0"
	case !isWeiable(client, gasPrice, units.UnitGwei):
		errs[FieldGasPrice] = "Invalid value"
	default:
		wei, _ := client.ToWei(sanitizer.Sanitize(gasPrice), units.UnitGwei)
		if !isHexable(client, wei) {
			errs[FieldGasPrice] = "Invalid value"
		}
	}
	return errs
}

// ValidateMnemonic validates a recovery phrase, reporting errors under id.
func ValidateMnemonic(client ports.MnemonicProvider, mnemonic, id string) Errors {
	errs := Errors{}
	switch {
	case mnemonic == "":
		errs[id] = "The phrase is required"
	case !client.IsValidMnemonic(sanitizer.SanitizeMnemonic(mnemonic)):
		errs[id] = "These words don't look like a valid recovery phrase"
	}
	return errs
}

// ValidateMnemonicAgain validates the confirmation of the recovery phrase
// mnemonic, reporting errors under id.
func ValidateMnemonicAgain(client ports.MnemonicProvider, mnemonic, again, id string) Errors {
	errs := ValidateMnemonic(client, again, id)
	if len(errs) > 0 {
		return errs
	}
	if sanitizer.SanitizeMnemonic(again) != mnemonic {
		errs[id] = "The text provided does not match your recovery passphrase."
	}
	return errs
}

func ValidatePassword(password string) Errors {
	errs := Errors{}
	if password == "" {
		errs[FieldPassword] = "Password is required"
	}
	return errs
}

// ValidatePasswordCreation validates a new password against the entropy
// required by the config.
func ValidatePasswordCreation(
	client ports.MnemonicProvider, config domain.Config, password string,
) Errors {
	errs := ValidatePassword(password)
	if len(errs) > 0 {
		return errs
	}
	if client.GetStringEntropy(password) < config.RequiredPasswordEntropy {
		errs[FieldPassword] = "Password is not strong enough"
	}
	return errs
}

// ValidateOnboarding validates the recovery phrase of a new wallet, its
// confirmation when given, and the new password.
func ValidateOnboarding(
	client ports.MnemonicProvider, config domain.Config, mnemonic, again, password string,
) Errors {
	errs := ValidateMnemonic(client, mnemonic, FieldMnemonic)
	if len(errs) == 0 && again != "" {
		errs = ValidateMnemonicAgain(
			client, sanitizer.SanitizeMnemonic(mnemonic), again, FieldMnemonicAgain,
		)
	}
	return errs.merge(ValidatePasswordCreation(client, config, password))
}

// ValidateUseMinimum requires a conversion estimate when the minimum return
// is enforced.
func ValidateUseMinimum(useMinimum bool, estimate string) Errors {
	errs := Errors{}
	if useMinimum && estimate == "" {
		errs[FieldUseMinimum] = "No estimated return. Try again."
	}
	return errs
}
