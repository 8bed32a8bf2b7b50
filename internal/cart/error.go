package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrInvalidProduct   = errors.New("product missing or not approved")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrCartNotFound     = errors.New("cart not found")
)
