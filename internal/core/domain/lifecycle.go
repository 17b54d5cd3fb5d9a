// internal/core/domain/lifecycle.go
package domain

import "time"

// Shelf transitions are free functions over the aggregate rather than
// methods on Status. The reference time is passed in explicitly so tests
// can pin the shelf timestamp.

// ToOnShelf moves the product on shelf. It fails with ErrIncompleteProduct
// when the name is empty or the price is not positive, leaving the product
// untouched. On success the status becomes StatusOnShelf and ShelfTime is
// stamped with now.
func ToOnShelf(p *Product, now time.Time) error {
	if !p.Complete() {
		return ErrIncompleteProduct
	}
	p.Status = StatusOnShelf
	p.ShelfTime = &now
	return nil
}

// ToOffShelf moves the product off shelf unconditionally. The previous
// ShelfTime is kept as a record of the last time the product was listed.
func ToOffShelf(p *Product) {
	p.Status = StatusOffShelf
}
