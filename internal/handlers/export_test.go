// internal/handlers/export_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/handlers"
	"github.com/orovela/joyeria-be/test/helpers"
	"github.com/orovela/joyeria-be/test/mocks"
)

func newExportHandler(t *testing.T) (*handlers.ExportHandler, *mocks.MockInventoryService, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	mockCache := mocks.NewMockCacheRepository(ctrl)
	handler := handlers.NewExportHandler(mockService, mockCache, helpers.TestLogger())
	return handler, mockService, mockCache
}

func TestExportHandler_ExportExcel(t *testing.T) {
	lastSync := time.Now().UTC()
	testItems := helpers.CreateTestItems(5)

	t.Run("successfully_exports_excel", func(t *testing.T) {
		handler, mockService, _ := newExportHandler(t)
		mockService.EXPECT().LastUpdated().Return(lastSync)
		mockService.EXPECT().Items().Return(testItems)

		req := httptest.NewRequest("GET", "/api/v1/export/excel", nil)
		w := httptest.NewRecorder()

		handler.ExportExcel(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory_export_")
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("filters_by_material", func(t *testing.T) {
		handler, mockService, _ := newExportHandler(t)
		mockService.EXPECT().LastUpdated().Return(lastSync)
		mockService.EXPECT().
			ItemsByMaterial(gomock.Any(), domain.MaterialSilver).
			Return(testItems[:2], nil)

		req := httptest.NewRequest("GET", "/api/v1/export/excel?material=silver", nil)
		w := httptest.NewRecorder()

		handler.ExportExcel(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("fails_when_initial_sync_fails", func(t *testing.T) {
		handler, mockService, _ := newExportHandler(t)
		mockService.EXPECT().LastUpdated().Return(time.Time{})
		mockService.EXPECT().Fetch(gomock.Any()).
			Return(&domain.StoreError{Op: "scan", Err: errors.New("timeout")})

		req := httptest.NewRequest("GET", "/api/v1/export/excel", nil)
		w := httptest.NewRecorder()

		handler.ExportExcel(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestExportHandler_ExportJSON(t *testing.T) {
	lastSync := time.Now().UTC()
	testItems := helpers.CreateTestItems(3)

	t.Run("cache_miss_builds_and_caches_export", func(t *testing.T) {
		handler, mockService, mockCache := newExportHandler(t)

		mockCache.EXPECT().
			Get(gomock.Any(), "export:json:all", gomock.Any()).
			Return(errors.New("cache miss"))
		mockService.EXPECT().LastUpdated().Return(lastSync)
		mockService.EXPECT().Items().Return(testItems)

		cached := make(chan struct{})
		mockCache.EXPECT().
			SetWithTTL(gomock.Any(), "export:json:all", gomock.Any(), 5*time.Minute).
			DoAndReturn(func(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
				close(cached)
				return nil
			})

		req := httptest.NewRequest("GET", "/api/v1/export/json", nil)
		w := httptest.NewRecorder()

		handler.ExportJSON(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

		var response handlers.JSONExportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Items, 3)
		assert.Equal(t, 3, response.Metadata.TotalItems)

		select {
		case <-cached:
		case <-time.After(2 * time.Second):
			t.Fatal("export was never written to the cache")
		}
	})

	t.Run("cache_hit_short_circuits", func(t *testing.T) {
		handler, _, mockCache := newExportHandler(t)

		cachedBody, err := json.Marshal(handlers.JSONExportResponse{
			Items: testItems,
			Metadata: handlers.ExportMetadata{
				ExportDate: lastSync,
				TotalItems: len(testItems),
			},
		})
		require.NoError(t, err)

		mockCache.EXPECT().
			Get(gomock.Any(), "export:json:all", gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest interface{}) error {
				*dest.(*[]byte) = cachedBody
				return nil
			})

		req := httptest.NewRequest("GET", "/api/v1/export/json", nil)
		w := httptest.NewRecorder()

		handler.ExportJSON(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
		assert.Equal(t, cachedBody, w.Body.Bytes())
	})

	t.Run("sold_filter_shapes_cache_key", func(t *testing.T) {
		handler, mockService, mockCache := newExportHandler(t)

		soldItems := helpers.CreateTestItems(4)
		soldItems[0].Sold = true
		soldItems[2].Sold = true

		mockCache.EXPECT().
			Get(gomock.Any(), "export:json:all_sold_true", gomock.Any()).
			Return(errors.New("cache miss"))
		mockService.EXPECT().LastUpdated().Return(lastSync)
		mockService.EXPECT().Items().Return(soldItems)

		cached := make(chan struct{})
		mockCache.EXPECT().
			SetWithTTL(gomock.Any(), "export:json:all_sold_true", gomock.Any(), 5*time.Minute).
			DoAndReturn(func(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
				close(cached)
				return nil
			})

		req := httptest.NewRequest("GET", "/api/v1/export/json?sold=true", nil)
		w := httptest.NewRecorder()

		handler.ExportJSON(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response handlers.JSONExportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Items, 2)
		for _, item := range response.Items {
			assert.True(t, item.Sold)
		}

		select {
		case <-cached:
		case <-time.After(2 * time.Second):
			t.Fatal("export was never written to the cache")
		}
	})
}
