// internal/core/domain/product.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUnit is the sales unit applied when the caller does not supply one
const DefaultUnit = "件"

// Product represents a single catalog entry together with its stock count
// and shelf status. It is the consistency unit every catalog operation
// loads, mutates and persists.
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	SerialNumber  string           `json:"serial_number"`
	Description   string           `json:"description,omitempty"`
	Content       string           `json:"content,omitempty"`
	Image         string           `json:"image,omitempty"`
	Images        []string         `json:"images,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Stock         int              `json:"stock"`
	Sales         int              `json:"sales"`
	Status        Status           `json:"status"`
	Sort          int              `json:"sort"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	Unit          string           `json:"unit"`
	Specs         map[string]any   `json:"specs,omitempty"`
	Attributes    map[string]any   `json:"attributes,omitempty"`
	IsVirtual     bool             `json:"is_virtual"`
	IsHot         bool             `json:"is_hot"`
	IsRecommend   bool             `json:"is_recommend"`
	ShelfTime     *time.Time       `json:"shelf_time,omitempty"`
	CreatedBy     int64            `json:"created_by"`
	UpdatedBy     int64            `json:"updated_by,omitempty"`
	Remark        string           `json:"remark,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if p.Sales < 0 {
		return fmt.Errorf("sales cannot be negative")
	}
	if p.Status == 0 {
		p.Status = StatusOffShelf
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown status: %d", p.Status)
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	return nil
}

// IsOnShelf reports whether the product is currently purchasable
func (p *Product) IsOnShelf() bool {
	return p.Status == StatusOnShelf
}

// HasStock reports whether any stock remains
func (p *Product) HasStock() bool {
	return p.Stock > 0
}

// Complete reports whether the product carries the fields required to go
// on shelf: a non-empty name and a positive price.
func (p *Product) Complete() bool {
	return p.Name != "" && p.Price.IsPositive()
}

// PrepareForStorage assigns the identifier and timestamps ahead of the
// first insert
func (p *Product) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
