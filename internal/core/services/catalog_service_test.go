// internal/core/services/catalog_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
	"github.com/wshuai/catalog-be/internal/core/services"
	"github.com/wshuai/catalog-be/test/helpers"
	"github.com/wshuai/catalog-be/test/mocks"
)

func newCatalogService(t *testing.T) (*services.CatalogService, *mocks.MockProductRepository, *mocks.MockSerialGenerator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockProductRepository(ctrl)
	mockSerial := mocks.NewMockSerialGenerator(ctrl)
	logger := helpers.TestLogger()

	return services.NewCatalogService(mockRepo, mockSerial, logger), mockRepo, mockSerial
}

func TestCatalogService_CreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		product       *domain.Product
		setupMocks    func(*mocks.MockProductRepository, *mocks.MockSerialGenerator)
		expectedError error
		errorContains string
	}{
		{
			name: "successful_create_with_supplied_serial",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.SerialNumber = "SP202501150042"
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				m.EXPECT().
					ExistsBySerial(gomock.Any(), "SP202501150042", uuid.Nil).
					Return(false, nil)
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "generates_serial_when_empty",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.SerialNumber = ""
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				sg.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					Return("SP202501150001", nil)
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, p *domain.Product) error {
						assert.Equal(t, "SP202501150001", p.SerialNumber)
						return nil
					})
			},
		},
		{
			name: "rejects_missing_creator",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.CreatedBy = 0
			}),
			setupMocks:    func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {},
			expectedError: domain.ErrMissingCreator,
		},
		{
			name: "rejects_duplicate_serial",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.SerialNumber = "SP202501150042"
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				m.EXPECT().
					ExistsBySerial(gomock.Any(), "SP202501150042", uuid.Nil).
					Return(true, nil)
			},
			expectedError: domain.ErrDuplicateSerial,
		},
		{
			name: "validation_fails_for_empty_name",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.Name = ""
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				m.EXPECT().
					ExistsBySerial(gomock.Any(), gomock.Any(), uuid.Nil).
					Return(false, nil)
			},
			errorContains: "validation failed",
		},
		{
			name: "serial_generation_error",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.SerialNumber = ""
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				sg.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					Return("", errors.New("counter unavailable"))
			},
			errorContains: "failed to generate serial number",
		},
		{
			name:    "repository_create_error",
			product: helpers.CreateTestProduct(),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				m.EXPECT().
					ExistsBySerial(gomock.Any(), gomock.Any(), uuid.Nil).
					Return(false, nil)
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			errorContains: "failed to create product",
		},
		{
			name: "applies_defaults_before_insert",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = uuid.Nil
				p.Unit = ""
				p.Status = 0
			}),
			setupMocks: func(m *mocks.MockProductRepository, sg *mocks.MockSerialGenerator) {
				m.EXPECT().
					ExistsBySerial(gomock.Any(), gomock.Any(), uuid.Nil).
					Return(false, nil)
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, p *domain.Product) error {
						assert.NotEqual(t, uuid.Nil, p.ID)
						assert.Equal(t, domain.DefaultUnit, p.Unit)
						assert.Equal(t, domain.StatusOffShelf, p.Status)
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, mockSerial := newCatalogService(t)
			tt.setupMocks(mockRepo, mockSerial)

			err := service.CreateProduct(context.Background(), tt.product)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	existing := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Stock = 42
		p.Sales = 7
		p.Status = domain.StatusOnShelf
	})

	tests := []struct {
		name          string
		product       *domain.Product
		setupMocks    func(*mocks.MockProductRepository)
		expectedError error
		errorContains string
	}{
		{
			name: "successful_update_preserves_ledger_fields",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.Name = "Renamed Mug"
				p.SerialNumber = ""
				p.Stock = 0
				p.Sales = 0
				p.Status = domain.StatusOffShelf
			}),
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), existing.ID).
					Return(existing, nil)
				m.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, p *domain.Product) error {
						assert.Equal(t, "Renamed Mug", p.Name)
						assert.Equal(t, existing.SerialNumber, p.SerialNumber)
						assert.Equal(t, 42, p.Stock)
						assert.Equal(t, 7, p.Sales)
						assert.Equal(t, domain.StatusOnShelf, p.Status)
						assert.Equal(t, existing.CreatedBy, p.CreatedBy)
						return nil
					})
			},
		},
		{
			name:    "product_not_found",
			product: helpers.CreateTestProduct(),
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), existing.ID).
					Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "rejects_serial_change_to_taken_serial",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.SerialNumber = "SP202501159999"
			}),
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), existing.ID).
					Return(existing, nil)
				m.EXPECT().
					ExistsBySerial(gomock.Any(), "SP202501159999", existing.ID).
					Return(true, nil)
			},
			expectedError: domain.ErrDuplicateSerial,
		},
		{
			name:    "repository_update_error",
			product: helpers.CreateTestProduct(func(p *domain.Product) { p.SerialNumber = "" }),
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), existing.ID).
					Return(existing, nil)
				m.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					Return(errors.New("update failed"))
			},
			errorContains: "failed to update product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _ := newCatalogService(t)
			tt.setupMocks(mockRepo)

			err := service.UpdateProduct(context.Background(), existing.ID, tt.product)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	testID := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockProductRepository)
		expectedError error
	}{
		{
			name: "deletes_off_shelf_product",
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Status = domain.StatusOffShelf
					}), nil)
				m.EXPECT().SoftDelete(gomock.Any(), testID).Return(nil)
			},
		},
		{
			name: "deletes_sold_out_product",
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Status = domain.StatusSoldOut
					}), nil)
				m.EXPECT().SoftDelete(gomock.Any(), testID).Return(nil)
			},
		},
		{
			name: "rejects_on_shelf_product",
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Status = domain.StatusOnShelf
					}), nil)
			},
			expectedError: domain.ErrOnShelfDeletion,
		},
		{
			name: "product_not_found",
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _ := newCatalogService(t)
			tt.setupMocks(mockRepo)

			err := service.DeleteProduct(context.Background(), testID)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCatalogService_BatchDelete(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	t.Run("deletes_all_when_none_on_shelf", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().CountOnShelf(gomock.Any(), ids).Return(int64(0), nil)
		mockRepo.EXPECT().SoftDeleteByIDs(gomock.Any(), ids).Return(int64(3), nil)

		count, err := service.BatchDelete(context.Background(), ids)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("rejects_whole_batch_when_any_on_shelf", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().CountOnShelf(gomock.Any(), ids).Return(int64(1), nil)

		count, err := service.BatchDelete(context.Background(), ids)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrOnShelfDeletion)
		assert.Zero(t, count)
	})

	t.Run("empty_ids_is_a_noop", func(t *testing.T) {
		service, _, _ := newCatalogService(t)

		count, err := service.BatchDelete(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestCatalogService_OnShelf(t *testing.T) {
	testID := uuid.New()

	t.Run("transitions_complete_product", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), testID).
			Return(helpers.CreateTestProduct(func(p *domain.Product) { p.ID = testID }), nil)
		mockRepo.EXPECT().
			BulkUpdateStatus(gomock.Any(), []uuid.UUID{testID}, domain.StatusOnShelf, gomock.Not(gomock.Nil())).
			Return(int64(1), nil)

		require.NoError(t, service.OnShelf(context.Background(), testID))
	})

	t.Run("rejects_incomplete_product", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), testID).
			Return(helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = testID
				p.Name = ""
			}), nil)

		err := service.OnShelf(context.Background(), testID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIncompleteProduct)
	})

	t.Run("not_found", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), testID).Return(nil, nil)

		err := service.OnShelf(context.Background(), testID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCatalogService_OffShelf(t *testing.T) {
	testID := uuid.New()

	t.Run("transitions_unconditionally_and_clears_no_shelf_time", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), testID).
			Return(helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = testID
				p.Status = domain.StatusOnShelf
			}), nil)
		mockRepo.EXPECT().
			BulkUpdateStatus(gomock.Any(), []uuid.UUID{testID}, domain.StatusOffShelf, nil).
			Return(int64(1), nil)

		require.NoError(t, service.OffShelf(context.Background(), testID))
	})
}

func TestCatalogService_BatchOnShelf(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("transitions_all_complete_products", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().CountIncomplete(gomock.Any(), ids).Return(int64(0), nil)
		mockRepo.EXPECT().
			BulkUpdateStatus(gomock.Any(), ids, domain.StatusOnShelf, gomock.Not(gomock.Nil())).
			Return(int64(2), nil)

		count, err := service.BatchOnShelf(context.Background(), ids)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("rejects_whole_batch_when_any_incomplete", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().CountIncomplete(gomock.Any(), ids).Return(int64(1), nil)

		count, err := service.BatchOnShelf(context.Background(), ids)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIncompleteProduct)
		assert.Zero(t, count)
	})
}

func TestCatalogService_BatchOffShelf(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	service, mockRepo, _ := newCatalogService(t)
	mockRepo.EXPECT().
		BulkUpdateStatus(gomock.Any(), ids, domain.StatusOffShelf, nil).
		Return(int64(2), nil)

	count, err := service.BatchOffShelf(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCatalogService_AdjustStock(t *testing.T) {
	testID := uuid.New()

	tests := []struct {
		name           string
		quantity       int
		direction      ports.AdjustDirection
		setupMocks     func(*mocks.MockProductRepository)
		expectedChange domain.StockChange
		expectedError  error
		errorContains  string
	}{
		{
			name:      "decrease_within_stock",
			quantity:  3,
			direction: ports.AdjustDecrease,
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Stock = 10
						p.Status = domain.StatusOnShelf
					}), nil)
				m.EXPECT().
					DecreaseStock(gomock.Any(), testID, 3).
					Return(domain.StockChange{Stock: 7, Sales: 3, Status: domain.StatusOnShelf}, nil)
			},
			expectedChange: domain.StockChange{Stock: 7, Sales: 3, Status: domain.StatusOnShelf},
		},
		{
			name:      "decrease_to_zero_marks_sold_out",
			quantity:  10,
			direction: ports.AdjustDecrease,
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Stock = 10
						p.Status = domain.StatusOnShelf
					}), nil)
				m.EXPECT().
					DecreaseStock(gomock.Any(), testID, 10).
					Return(domain.StockChange{
						Stock:         0,
						Sales:         10,
						Status:        domain.StatusSoldOut,
						StatusChanged: true,
					}, nil)
			},
			expectedChange: domain.StockChange{
				Stock:         0,
				Sales:         10,
				Status:        domain.StatusSoldOut,
				StatusChanged: true,
			},
		},
		{
			name:      "decrease_beyond_stock_fails_without_repo_call",
			quantity:  11,
			direction: ports.AdjustDecrease,
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Stock = 10
					}), nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name:      "increase_from_sold_out_restores_on_shelf",
			quantity:  3,
			direction: ports.AdjustIncrease,
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testID).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.ID = testID
						p.Stock = 0
						p.Status = domain.StatusSoldOut
					}), nil)
				m.EXPECT().
					IncreaseStock(gomock.Any(), testID, 3).
					Return(domain.StockChange{
						Stock:         3,
						Status:        domain.StatusOnShelf,
						StatusChanged: true,
					}, nil)
			},
			expectedChange: domain.StockChange{
				Stock:         3,
				Status:        domain.StatusOnShelf,
				StatusChanged: true,
			},
		},
		{
			name:          "rejects_zero_quantity",
			quantity:      0,
			direction:     ports.AdjustDecrease,
			setupMocks:    func(m *mocks.MockProductRepository) {},
			expectedError: domain.ErrInvalidQuantity,
		},
		{
			name:          "rejects_negative_quantity",
			quantity:      -5,
			direction:     ports.AdjustIncrease,
			setupMocks:    func(m *mocks.MockProductRepository) {},
			expectedError: domain.ErrInvalidQuantity,
		},
		{
			name:          "rejects_unknown_direction",
			quantity:      1,
			direction:     ports.AdjustDirection("sideways"),
			setupMocks:    func(m *mocks.MockProductRepository) {},
			errorContains: "unknown adjust direction",
		},
		{
			name:      "not_found",
			quantity:  1,
			direction: ports.AdjustIncrease,
			setupMocks: func(m *mocks.MockProductRepository) {
				m.EXPECT().FindByID(gomock.Any(), testID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _ := newCatalogService(t)
			tt.setupMocks(mockRepo)

			change, err := service.AdjustStock(context.Background(), testID, tt.quantity, tt.direction)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedChange, change)
			}
		})
	}
}

func TestCatalogService_List(t *testing.T) {
	ctx := context.Background()
	testProducts := []*domain.Product{helpers.CreateTestProduct()}

	tests := []struct {
		name               string
		inputParams        ports.ListParams
		mockRepoResponse   []*domain.Product
		mockRepoTotal      int64
		mockRepoErr        error
		expectedResult     *ports.ListResult
		expectedError      bool
		expectedErrorMsg   string
		expectedRepoParams ports.ListParams
	}{
		{
			name:             "lists_products_on_first_page",
			inputParams:      ports.ListParams{Page: 1, PageSize: 10, Keyword: "mug"},
			mockRepoResponse: testProducts,
			mockRepoTotal:    1,
			expectedResult: &ports.ListResult{
				Items:      testProducts,
				Page:       1,
				PageSize:   10,
				TotalCount: 1,
				TotalPages: 1,
			},
			expectedRepoParams: ports.ListParams{Page: 1, PageSize: 10, Keyword: "mug"},
		},
		{
			name:             "computes_total_pages_with_remainder",
			inputParams:      ports.ListParams{Page: 2, PageSize: 50},
			mockRepoResponse: testProducts,
			mockRepoTotal:    101, // 3 pages total
			expectedResult: &ports.ListResult{
				Items:      testProducts,
				Page:       2,
				PageSize:   50,
				TotalCount: 101,
				TotalPages: 3,
			},
			expectedRepoParams: ports.ListParams{Page: 2, PageSize: 50},
		},
		{
			name:             "normalizes_invalid_page_and_pageSize",
			inputParams:      ports.ListParams{Page: 0, PageSize: 2000},
			mockRepoResponse: testProducts,
			mockRepoTotal:    1,
			expectedResult: &ports.ListResult{
				Items:      testProducts,
				Page:       1,
				PageSize:   1000,
				TotalCount: 1,
				TotalPages: 1,
			},
			expectedRepoParams: ports.ListParams{Page: 1, PageSize: 1000},
		},
		{
			name:               "handles_repository_error",
			inputParams:        ports.ListParams{Page: 1, PageSize: 10},
			mockRepoErr:        errors.New("database connection failed"),
			expectedError:      true,
			expectedErrorMsg:   "failed to list products",
			expectedRepoParams: ports.ListParams{Page: 1, PageSize: 10},
		},
		{
			name:             "handles_zero_results",
			inputParams:      ports.ListParams{Page: 1, PageSize: 10},
			mockRepoResponse: []*domain.Product{},
			mockRepoTotal:    0,
			expectedResult: &ports.ListResult{
				Items:      []*domain.Product{},
				Page:       1,
				PageSize:   10,
				TotalCount: 0,
				TotalPages: 0,
			},
			expectedRepoParams: ports.ListParams{Page: 1, PageSize: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, _ := newCatalogService(t)

			// Expect the normalized parameters
			mockRepo.EXPECT().
				FindAll(ctx, tt.expectedRepoParams).
				Return(tt.mockRepoResponse, tt.mockRepoTotal, tt.mockRepoErr)

			result, err := service.List(ctx, tt.inputParams)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErrorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
			}
		})
	}
}

func TestCatalogService_Stats(t *testing.T) {
	service, mockRepo, _ := newCatalogService(t)

	expected := &ports.SalesStats{
		TotalSales:    120,
		OnShelfCount:  5,
		OffShelfCount: 3,
		SoldOutCount:  2,
		TotalCount:    10,
	}
	mockRepo.EXPECT().SalesStats(gomock.Any()).Return(expected, nil)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestCatalogService_LowStock(t *testing.T) {
	t.Run("uses_default_threshold_when_non_positive", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().FindLowStock(gomock.Any(), 10).Return([]*domain.Product{}, nil)

		_, err := service.LowStock(context.Background(), 0)
		require.NoError(t, err)
	})

	t.Run("passes_explicit_threshold", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().FindLowStock(gomock.Any(), 25).Return([]*domain.Product{}, nil)

		_, err := service.LowStock(context.Background(), 25)
		require.NoError(t, err)
	})
}

func TestCatalogService_HotAndRecommend(t *testing.T) {
	products := []*domain.Product{helpers.CreateTestProduct()}

	t.Run("hot_defaults_limit", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().FindHot(gomock.Any(), 10).Return(products, nil)

		result, err := service.Hot(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("recommend_passes_limit", func(t *testing.T) {
		service, mockRepo, _ := newCatalogService(t)
		mockRepo.EXPECT().FindRecommend(gomock.Any(), 5).Return(products, nil)

		result, err := service.Recommend(context.Background(), 5)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})
}

// Benchmarks

func BenchmarkCatalogService_AdjustStock(b *testing.B) {
	ctrl := gomock.NewController(b)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockProductRepository(ctrl)
	mockSerial := mocks.NewMockSerialGenerator(ctrl)
	logger := helpers.TestLogger()

	service := services.NewCatalogService(mockRepo, mockSerial, logger)
	testID := uuid.New()

	mockRepo.EXPECT().
		FindByID(gomock.Any(), testID).
		AnyTimes().
		Return(helpers.CreateTestProduct(func(p *domain.Product) {
			p.ID = testID
			p.Stock = 1 << 30
		}), nil)
	mockRepo.EXPECT().
		DecreaseStock(gomock.Any(), testID, 1).
		AnyTimes().
		Return(domain.StockChange{Stock: 1, Sales: 1, Status: domain.StatusOnShelf}, nil)

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = service.AdjustStock(ctx, testID, 1, ports.AdjustDecrease)
	}
}
