package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

var sourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateSourceID checks that a source id is well-formed.
func ValidateSourceID(id string) error {
	if !sourceIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidSourceID, id)
	}
	return nil
}

// ValidateCurrency checks that code is a known ISO 4217 currency code.
func ValidateCurrency(code string) error {
	if code == "" || code != strings.ToUpper(code) || money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
	}
	return nil
}
