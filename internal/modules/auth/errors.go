package auth

import (
	"fmt"

	"hotelpms/internal/domain"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	ErrAccountLocked      = fmt.Errorf("account locked, try again later: %w", domain.ErrForbidden)
	ErrAccountDisabled    = fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	ErrEmailAlreadyExists = domain.Invalid("email already exists")
)
