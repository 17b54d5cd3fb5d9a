// internal/core/domain/stock.go
package domain

// StockChange describes the outcome of a ledger operation. Status side
// effects (sold-out on depletion, recovery on restock) are part of the
// ledger contract, so the change record carries them explicitly instead of
// leaving callers to diff the aggregate.
type StockChange struct {
	Stock         int    `json:"stock"`
	Sales         int    `json:"sales"`
	Status        Status `json:"status"`
	StatusChanged bool   `json:"status_changed"`
}

// DecreaseStock removes quantity units from stock and adds them to the
// sales counter. It fails with ErrInsufficientStock when quantity exceeds
// the current stock, in which case the product is left unchanged. When the
// remaining stock reaches zero the status is forced to StatusSoldOut
// regardless of its prior value.
//
// The caller is responsible for rejecting non-positive quantities before
// invoking the ledger.
func DecreaseStock(p *Product, quantity int) (StockChange, error) {
	if quantity > p.Stock {
		return StockChange{}, ErrInsufficientStock
	}

	p.Stock -= quantity
	p.Sales += quantity

	changed := false
	if p.Stock == 0 && p.Status != StatusSoldOut {
		p.Status = StatusSoldOut
		changed = true
	}

	return StockChange{
		Stock:         p.Stock,
		Sales:         p.Sales,
		Status:        p.Status,
		StatusChanged: changed,
	}, nil
}

// IncreaseStock adds quantity units to stock. A sold-out product with
// stock again available is promoted back to StatusOnShelf; any other
// status is preserved.
func IncreaseStock(p *Product, quantity int) StockChange {
	p.Stock += quantity

	changed := false
	if p.Status == StatusSoldOut && p.Stock > 0 {
		p.Status = StatusOnShelf
		changed = true
	}

	return StockChange{
		Stock:         p.Stock,
		Sales:         p.Sales,
		Status:        p.Status,
		StatusChanged: changed,
	}
}
