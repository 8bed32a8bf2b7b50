package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrFarmerNotVerified = errors.New("farmer is not verified")
	ErrInvalidInput      = errors.New("invalid product input")
	ErrInvalidStatus     = errors.New("invalid product status")
)
