// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors returned by the catalog core. Handlers match on these with
// errors.Is to pick response codes; the service layer wraps them with context.
var (
	ErrNotFound          = errors.New("product not found")
	ErrDuplicateSerial   = errors.New("product serial number already exists")
	ErrMissingCreator    = errors.New("creator is required")
	ErrIncompleteProduct = errors.New("product name and price are required before going on shelf")
	ErrOnShelfDeletion   = errors.New("on-shelf products cannot be deleted")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)
