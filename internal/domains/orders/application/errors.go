package application

import (
	"errors"
	"fmt"

	catalogdomain "github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a business rule. The HTTP
// layer maps it to 400. A product referenced by a mutation that does not
// exist counts as invalid input, not as a missing resource.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, domain.ErrEmptyDetails) ||
		errors.Is(err, domain.ErrDiscountOutOfRange) ||
		errors.Is(err, domain.ErrQuantityNotPositive) ||
		errors.Is(err, domain.ErrAlreadyShipped) ||
		errors.Is(err, catalogdomain.ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func errProductMissing(productID int64) error {
	return fmt.Errorf("%w: product with id %d does not exist", ErrInvalidInput, productID)
}
