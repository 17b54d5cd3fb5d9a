// internal/handlers/product_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wshuai/catalog-be/internal/core/domain"
	"github.com/wshuai/catalog-be/internal/core/ports"
	"github.com/wshuai/catalog-be/internal/handlers"
	"github.com/wshuai/catalog-be/test/helpers"
	"github.com/wshuai/catalog-be/test/mocks"
)

func newProductHandler(t *testing.T) (*handlers.ProductHandler, *mocks.MockCatalogService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mocks.NewMockCatalogService(ctrl)
	handler := handlers.NewProductHandler(mockService, helpers.TestLogger())
	return handler, mockService
}

func TestProductHandler_GetProduct(t *testing.T) {
	testProduct := helpers.CreateTestProduct()

	tests := []struct {
		name           string
		productID      string
		setupMocks     func(*mocks.MockCatalogService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:      "successfully_retrieves_product",
			productID: testProduct.ID.String(),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					GetByID(gomock.Any(), testProduct.ID).
					Return(testProduct, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Product
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, testProduct.ID, response.ID)
				assert.Equal(t, testProduct.Name, response.Name)
				assert.Equal(t, testProduct.SerialNumber, response.SerialNumber)
			},
		},
		{
			name:           "invalid_uuid_format",
			productID:      "not-a-uuid",
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Invalid product ID format", response["error"])
			},
		},
		{
			name:      "product_not_found",
			productID: uuid.New().String(),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					GetByID(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Product not found", response["error"])
			},
		},
		{
			name:      "service_error",
			productID: testProduct.ID.String(),
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					GetByID(gomock.Any(), testProduct.ID).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Failed to retrieve product", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/products/"+tt.productID, nil)
			req.SetPathValue("id", tt.productID)
			w := httptest.NewRecorder()

			handler.GetProduct(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestProductHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		setupMocks     func(t *testing.T, m *mocks.MockCatalogService)
		expectedStatus int
	}{
		{
			name: "passes_pagination_and_filters_to_service",
			queryParams: map[string]string{
				"page":      "2",
				"page_size": "25",
				"keyword":   "mug",
				"status":    "2",
				"is_hot":    "true",
			},
			setupMocks: func(t *testing.T, m *mocks.MockCatalogService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Equal(t, 2, params.Page)
						assert.Equal(t, 25, params.PageSize)
						assert.Equal(t, "mug", params.Keyword)
						require.NotNil(t, params.Status)
						assert.Equal(t, domain.StatusOnShelf, *params.Status)
						require.NotNil(t, params.IsHot)
						assert.True(t, *params.IsHot)
						return &ports.ListResult{
							Items:      helpers.CreateTestProducts(2),
							Page:       2,
							PageSize:   25,
							TotalCount: 2,
							TotalPages: 1,
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "ignores_invalid_status_filter",
			queryParams: map[string]string{"status": "99"},
			setupMocks: func(t *testing.T, m *mocks.MockCatalogService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Nil(t, params.Status)
						return &ports.ListResult{Items: nil}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "service_error",
			queryParams: nil,
			setupMocks: func(t *testing.T, m *mocks.MockCatalogService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("query failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(t, mockService)

			req := httptest.NewRequest("GET", "/api/v1/products", nil)
			q := req.URL.Query()
			for k, v := range tt.queryParams {
				q.Set(k, v)
			}
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()

			handler.ListProducts(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestProductHandler_CreateProduct(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockCatalogService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successfully_creates_product",
			body: `{"name":"Ceramic Mug","price":"29.90","stock":50,"created_by":1001}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					CreateProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, p *domain.Product) error {
						p.ID = uuid.New()
						p.SerialNumber = "SP202501150001"
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid_json_body",
			body:           `{not json`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "missing_name",
			body:           `{"price":"10.00","created_by":1001}`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
		{
			name:           "negative_price",
			body:           `{"name":"Mug","price":"-1.00","created_by":1001}`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price cannot be negative",
		},
		{
			name: "duplicate_serial_conflict",
			body: `{"name":"Mug","serial_number":"SP202501150001","price":"10.00","created_by":1001}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					CreateProduct(gomock.Any(), gomock.Any()).
					Return(domain.ErrDuplicateSerial)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Product serial number already exists",
		},
		{
			name: "missing_creator",
			body: `{"name":"Mug","price":"10.00"}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					CreateProduct(gomock.Any(), gomock.Any()).
					Return(domain.ErrMissingCreator)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "created_by is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedError, response["error"])
			}
		})
	}
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockCatalogService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successfully_deletes_product",
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					DeleteProduct(gomock.Any(), productID).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rejects_on_shelf_product",
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					DeleteProduct(gomock.Any(), productID).
					Return(domain.ErrOnShelfDeletion)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "On-shelf products cannot be deleted",
		},
		{
			name: "not_found",
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					DeleteProduct(gomock.Any(), productID).
					Return(domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("DELETE", "/api/v1/products/"+productID.String(), nil)
			req.SetPathValue("id", productID.String())
			w := httptest.NewRecorder()

			handler.DeleteProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedError, response["error"])
			}
		})
	}
}

func TestProductHandler_BatchDelete(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockCatalogService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successfully_deletes_batch",
			body: `{"ids":["` + id1.String() + `","` + id2.String() + `"]}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					BatchDelete(gomock.Any(), []uuid.UUID{id1, id2}).
					Return(int64(2), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty_ids_rejected",
			body:           `{"ids":[]}`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "ids is required",
		},
		{
			name:           "malformed_id_rejected",
			body:           `{"ids":["nope"]}`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid product ID: nope",
		},
		{
			name: "all_or_nothing_conflict",
			body: `{"ids":["` + id1.String() + `"]}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					BatchDelete(gomock.Any(), []uuid.UUID{id1}).
					Return(int64(0), domain.ErrOnShelfDeletion)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "On-shelf products cannot be deleted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/products/batch-delete", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.BatchDelete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedError, response["error"])
			}
		})
	}
}

func TestProductHandler_ShelfLifecycle(t *testing.T) {
	productID := uuid.New()

	t.Run("on_shelf_success", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().OnShelf(gomock.Any(), productID).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/products/"+productID.String()+"/on-shelf", nil)
		req.SetPathValue("id", productID.String())
		w := httptest.NewRecorder()

		handler.OnShelf(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("on_shelf_incomplete_product", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().OnShelf(gomock.Any(), productID).Return(domain.ErrIncompleteProduct)

		req := httptest.NewRequest("POST", "/api/v1/products/"+productID.String()+"/on-shelf", nil)
		req.SetPathValue("id", productID.String())
		w := httptest.NewRecorder()

		handler.OnShelf(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("off_shelf_success", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().OffShelf(gomock.Any(), productID).Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/products/"+productID.String()+"/off-shelf", nil)
		req.SetPathValue("id", productID.String())
		w := httptest.NewRecorder()

		handler.OffShelf(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("batch_on_shelf_incomplete_conflict", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		id := uuid.New()
		mockService.EXPECT().
			BatchOnShelf(gomock.Any(), []uuid.UUID{id}).
			Return(int64(0), domain.ErrIncompleteProduct)

		body := `{"ids":["` + id.String() + `"]}`
		req := httptest.NewRequest("POST", "/api/v1/products/batch/on-shelf", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.BatchOnShelf(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("batch_off_shelf_success", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		id := uuid.New()
		mockService.EXPECT().
			BatchOffShelf(gomock.Any(), []uuid.UUID{id}).
			Return(int64(1), nil)

		body := `{"ids":["` + id.String() + `"]}`
		req := httptest.NewRequest("POST", "/api/v1/products/batch/off-shelf", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.BatchOffShelf(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductHandler_AdjustStock(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockCatalogService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "decrease_returns_stock_change",
			body: `{"quantity":3,"direction":"decrease"}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), productID, 3, ports.AdjustDecrease).
					Return(domain.StockChange{Stock: 0, Sales: 53, Status: domain.StatusSoldOut, StatusChanged: true}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var change domain.StockChange
				require.NoError(t, json.Unmarshal(body, &change))
				assert.Equal(t, 0, change.Stock)
				assert.Equal(t, domain.StatusSoldOut, change.Status)
				assert.True(t, change.StatusChanged)
			},
		},
		{
			name:           "unknown_direction_rejected",
			body:           `{"quantity":3,"direction":"sideways"}`,
			setupMocks:     func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient_stock_conflict",
			body: `{"quantity":100,"direction":"decrease"}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), productID, 100, ports.AdjustDecrease).
					Return(domain.StockChange{}, domain.ErrInsufficientStock)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "invalid_quantity",
			body: `{"quantity":0,"direction":"increase"}`,
			setupMocks: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), productID, 0, ports.AdjustIncrease).
					Return(domain.StockChange{}, domain.ErrInvalidQuantity)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := newProductHandler(t)
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/products/"+productID.String()+"/adjust-stock", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", productID.String())
			w := httptest.NewRecorder()

			handler.AdjustStock(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestProductHandler_Stats(t *testing.T) {
	handler, mockService := newProductHandler(t)
	mockService.EXPECT().
		Stats(gomock.Any()).
		Return(&ports.SalesStats{
			TotalSales:    120,
			OnShelfCount:  8,
			OffShelfCount: 3,
			SoldOutCount:  1,
			TotalCount:    12,
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/products/stats", nil)
	w := httptest.NewRecorder()

	handler.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats ports.SalesStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(120), stats.TotalSales)
	assert.Equal(t, int64(12), stats.TotalCount)
}

func TestProductHandler_LowStock(t *testing.T) {
	t.Run("passes_threshold_to_service", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().
			LowStock(gomock.Any(), 5).
			Return(helpers.CreateTestProducts(1), nil)

		req := httptest.NewRequest("GET", "/api/v1/products/low-stock?threshold=5", nil)
		w := httptest.NewRecorder()

		handler.LowStock(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects_negative_threshold", func(t *testing.T) {
		handler, _ := newProductHandler(t)

		req := httptest.NewRequest("GET", "/api/v1/products/low-stock?threshold=-1", nil)
		w := httptest.NewRecorder()

		handler.LowStock(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("defaults_threshold_to_zero", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().
			LowStock(gomock.Any(), 0).
			Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/products/low-stock", nil)
		w := httptest.NewRecorder()

		handler.LowStock(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductHandler_StatusOptions(t *testing.T) {
	handler, _ := newProductHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/products/status-options", nil)
	w := httptest.NewRecorder()

	handler.StatusOptions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var options []domain.StatusOption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	require.Len(t, options, 3)
	assert.Equal(t, domain.StatusOffShelf, options[0].Value)
	assert.Equal(t, domain.StatusOnShelf, options[1].Value)
	assert.Equal(t, domain.StatusSoldOut, options[2].Value)
}

func TestProductHandler_HotAndRecommend(t *testing.T) {
	t.Run("hot_with_limit", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().
			Hot(gomock.Any(), 5).
			Return(helpers.CreateTestProducts(2), nil)

		req := httptest.NewRequest("GET", "/api/v1/products/hot?limit=5", nil)
		w := httptest.NewRecorder()

		handler.Hot(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("recommend_caps_limit", func(t *testing.T) {
		handler, mockService := newProductHandler(t)
		mockService.EXPECT().
			Recommend(gomock.Any(), 100).
			Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/products/recommend?limit=500", nil)
		w := httptest.NewRecorder()

		handler.Recommend(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
