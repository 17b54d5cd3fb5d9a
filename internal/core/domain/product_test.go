package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wshuai/catalog-be/internal/core/domain"
)

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   *domain.Product
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_product_with_all_fields",
			product: &domain.Product{
				Name:   "Ceramic Mug",
				Price:  decimal.NewFromFloat(19.90),
				Stock:  10,
				Status: domain.StatusOffShelf,
				Unit:   "件",
			},
			wantError: false,
		},
		{
			name: "missing_name",
			product: &domain.Product{
				Price: decimal.NewFromFloat(10),
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "negative_price",
			product: &domain.Product{
				Name:  "Ceramic Mug",
				Price: decimal.NewFromFloat(-1),
			},
			wantError: true,
			errorMsg:  "price cannot be negative",
		},
		{
			name: "negative_stock",
			product: &domain.Product{
				Name:  "Ceramic Mug",
				Price: decimal.NewFromFloat(10),
				Stock: -1,
			},
			wantError: true,
			errorMsg:  "stock cannot be negative",
		},
		{
			name: "unknown_status",
			product: &domain.Product{
				Name:   "Ceramic Mug",
				Price:  decimal.NewFromFloat(10),
				Status: domain.Status(9),
			},
			wantError: true,
			errorMsg:  "unknown status",
		},
		{
			name: "defaults_status_and_unit_when_empty",
			product: &domain.Product{
				Name:  "Ceramic Mug",
				Price: decimal.NewFromFloat(10),
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.product.Status.Valid())
				assert.NotEmpty(t, tt.product.Unit)
			}
		})
	}
}

func TestToOnShelf(t *testing.T) {
	now := time.Date(2024, 12, 19, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		product    *domain.Product
		wantError  bool
		wantStatus domain.Status
	}{
		{
			name: "complete_product_goes_on_shelf",
			product: &domain.Product{
				Name:   "Ceramic Mug",
				Price:  decimal.NewFromFloat(19.90),
				Status: domain.StatusOffShelf,
			},
			wantError:  false,
			wantStatus: domain.StatusOnShelf,
		},
		{
			name: "empty_name_rejected",
			product: &domain.Product{
				Price:  decimal.NewFromFloat(19.90),
				Status: domain.StatusOffShelf,
			},
			wantError:  true,
			wantStatus: domain.StatusOffShelf,
		},
		{
			name: "zero_price_rejected",
			product: &domain.Product{
				Name:   "Ceramic Mug",
				Price:  decimal.Zero,
				Status: domain.StatusOffShelf,
			},
			wantError:  true,
			wantStatus: domain.StatusOffShelf,
		},
		{
			name: "negative_price_rejected",
			product: &domain.Product{
				Name:   "Ceramic Mug",
				Price:  decimal.NewFromFloat(-5),
				Status: domain.StatusSoldOut,
			},
			wantError:  true,
			wantStatus: domain.StatusSoldOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ToOnShelf(tt.product, now)

			assert.Equal(t, tt.wantStatus, tt.product.Status)
			if tt.wantError {
				require.ErrorIs(t, err, domain.ErrIncompleteProduct)
				assert.Nil(t, tt.product.ShelfTime)
			} else {
				require.NoError(t, err)
				require.NotNil(t, tt.product.ShelfTime)
				assert.Equal(t, now, *tt.product.ShelfTime)
			}
		})
	}
}

func TestToOffShelf_KeepsShelfTime(t *testing.T) {
	now := time.Now()
	product := &domain.Product{
		Name:   "Ceramic Mug",
		Price:  decimal.NewFromFloat(19.90),
		Status: domain.StatusOffShelf,
	}

	require.NoError(t, domain.ToOnShelf(product, now))

	domain.ToOffShelf(product)

	assert.Equal(t, domain.StatusOffShelf, product.Status)
	require.NotNil(t, product.ShelfTime)
	assert.Equal(t, now, *product.ShelfTime)
}

func TestDecreaseStock(t *testing.T) {
	tests := []struct {
		name          string
		product       *domain.Product
		quantity      int
		wantError     bool
		wantStock     int
		wantSales     int
		wantStatus    domain.Status
		statusChanged bool
	}{
		{
			name:       "partial_decrease_keeps_status",
			product:    &domain.Product{Stock: 10, Sales: 0, Status: domain.StatusOnShelf},
			quantity:   4,
			wantStock:  6,
			wantSales:  4,
			wantStatus: domain.StatusOnShelf,
		},
		{
			name:          "depleting_stock_forces_sold_out",
			product:       &domain.Product{Stock: 3, Sales: 7, Status: domain.StatusOnShelf},
			quantity:      3,
			wantStock:     0,
			wantSales:     10,
			wantStatus:    domain.StatusSoldOut,
			statusChanged: true,
		},
		{
			name:          "depletion_from_off_shelf_still_forces_sold_out",
			product:       &domain.Product{Stock: 2, Sales: 0, Status: domain.StatusOffShelf},
			quantity:      2,
			wantStock:     0,
			wantSales:     2,
			wantStatus:    domain.StatusSoldOut,
			statusChanged: true,
		},
		{
			name:       "over_decrease_leaves_product_unchanged",
			product:    &domain.Product{Stock: 1, Sales: 9, Status: domain.StatusOnShelf},
			quantity:   2,
			wantError:  true,
			wantStock:  1,
			wantSales:  9,
			wantStatus: domain.StatusOnShelf,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := domain.DecreaseStock(tt.product, tt.quantity)

			assert.Equal(t, tt.wantStock, tt.product.Stock)
			assert.Equal(t, tt.wantSales, tt.product.Sales)
			assert.Equal(t, tt.wantStatus, tt.product.Status)
			assert.GreaterOrEqual(t, tt.product.Stock, 0)

			if tt.wantError {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStock, change.Stock)
				assert.Equal(t, tt.wantSales, change.Sales)
				assert.Equal(t, tt.wantStatus, change.Status)
				assert.Equal(t, tt.statusChanged, change.StatusChanged)
			}
		})
	}
}

func TestIncreaseStock(t *testing.T) {
	tests := []struct {
		name          string
		product       *domain.Product
		quantity      int
		wantStock     int
		wantStatus    domain.Status
		statusChanged bool
	}{
		{
			name:          "restock_from_sold_out_promotes_to_on_shelf",
			product:       &domain.Product{Stock: 0, Status: domain.StatusSoldOut},
			quantity:      5,
			wantStock:     5,
			wantStatus:    domain.StatusOnShelf,
			statusChanged: true,
		},
		{
			name:       "restock_on_shelf_keeps_status",
			product:    &domain.Product{Stock: 3, Status: domain.StatusOnShelf},
			quantity:   2,
			wantStock:  5,
			wantStatus: domain.StatusOnShelf,
		},
		{
			name:       "restock_off_shelf_keeps_status",
			product:    &domain.Product{Stock: 0, Status: domain.StatusOffShelf},
			quantity:   1,
			wantStock:  1,
			wantStatus: domain.StatusOffShelf,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := domain.IncreaseStock(tt.product, tt.quantity)

			assert.Equal(t, tt.wantStock, tt.product.Stock)
			assert.Equal(t, tt.wantStatus, tt.product.Status)
			assert.Equal(t, tt.wantStock, change.Stock)
			assert.Equal(t, tt.statusChanged, change.StatusChanged)
		})
	}
}

// Exercises the full widget scenario: sell most of the stock, fail an
// oversell, deplete to sold-out, then restock back to on-shelf.
func TestStockLedger_Scenario(t *testing.T) {
	product := &domain.Product{
		Name:   "Widget",
		Price:  decimal.NewFromInt(10),
		Stock:  5,
		Status: domain.StatusOnShelf,
	}

	change, err := domain.DecreaseStock(product, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, change.Stock)
	assert.Equal(t, 4, change.Sales)
	assert.Equal(t, domain.StatusOnShelf, change.Status)
	assert.False(t, change.StatusChanged)

	_, err = domain.DecreaseStock(product, 2)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, product.Stock)

	change, err = domain.DecreaseStock(product, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, change.Stock)
	assert.Equal(t, domain.StatusSoldOut, change.Status)
	assert.True(t, change.StatusChanged)

	change = domain.IncreaseStock(product, 3)
	assert.Equal(t, 3, change.Stock)
	assert.Equal(t, domain.StatusOnShelf, change.Status)
	assert.True(t, change.StatusChanged)
	assert.Equal(t, 5, product.Sales)
}

func TestStatusOptions(t *testing.T) {
	options := domain.StatusOptions()

	require.Len(t, options, 3)
	assert.Equal(t, domain.StatusOffShelf, options[0].Value)
	assert.Equal(t, domain.StatusOnShelf, options[1].Value)
	assert.Equal(t, domain.StatusSoldOut, options[2].Value)

	for _, opt := range options {
		assert.NotEmpty(t, opt.Label)
		assert.NotEmpty(t, opt.Color)
	}
}
