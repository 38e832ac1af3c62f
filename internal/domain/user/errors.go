package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrOfficeAccessDenied      = errors.New("you cannot manage this office")
)
