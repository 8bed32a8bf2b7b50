package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotAFarmer    = errors.New("user is not a farmer")
)
