// internal/handlers/images_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/orovela/joyeria-be/internal/core/domain"
	"github.com/orovela/joyeria-be/internal/handlers"
	"github.com/orovela/joyeria-be/test/helpers"
	"github.com/orovela/joyeria-be/test/mocks"
)

// fakeImageStore is an in-memory storage.ImageStore
type fakeImageStore struct {
	objects    map[string][]byte
	uploadErr  error
	presignErr error
	deleted    []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string][]byte)}
}

func (f *fakeImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "https://images.test/" + key, nil
}

func (f *fakeImageStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return fmt.Sprintf("https://images.test/%s?signed=1&expires=%d", key, int(expires.Seconds())), nil
}

func (f *fakeImageStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func imageUploadRequest(t *testing.T, id, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/items/"+id+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetPathValue("id", id)
	return req
}

func TestImageHandler_UploadImage(t *testing.T) {
	testID := uuid.New()

	t.Run("successfully_uploads_image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockInventoryService(ctrl)
		mockStore := mocks.NewMockItemStore(ctrl)
		mockCache := mocks.NewMockCacheRepository(ctrl)
		images := newFakeImageStore()
		handler := handlers.NewImageHandler(mockService, mockStore, images, mockCache, helpers.TestLogger())

		updated := helpers.CreateTestItem(func(i *domain.Item) {
			i.ID = testID
		})
		mockStore.EXPECT().
			SetImage(gomock.Any(), testID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, id uuid.UUID, key string) (*domain.Item, error) {
				assert.Contains(t, key, "items/"+testID.String()+"/")
				updated.ImageKey = key
				return updated, nil
			})
		mockCache.EXPECT().InvalidateItems(gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.UploadImage(w, imageUploadRequest(t, testID.String(), "image/jpeg"))

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response struct {
			Item     domain.Item `json:"item"`
			ImageURL string      `json:"image_url"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testID, response.Item.ID)
		assert.NotEmpty(t, response.ImageURL)
		assert.Len(t, images.objects, 1)
	})

	t.Run("rejects_non_image_content", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handler := handlers.NewImageHandler(
			mocks.NewMockInventoryService(ctrl),
			mocks.NewMockItemStore(ctrl),
			newFakeImageStore(),
			mocks.NewMockCacheRepository(ctrl),
			helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.UploadImage(w, imageUploadRequest(t, testID.String(), "application/pdf"))

		resp := w.Result()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("invalid_uuid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		handler := handlers.NewImageHandler(
			mocks.NewMockInventoryService(ctrl),
			mocks.NewMockItemStore(ctrl),
			newFakeImageStore(),
			mocks.NewMockCacheRepository(ctrl),
			helpers.TestLogger())

		w := httptest.NewRecorder()
		handler.UploadImage(w, imageUploadRequest(t, "not-a-uuid", "image/jpeg"))

		resp := w.Result()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("deletes_orphaned_object_when_record_update_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockInventoryService(ctrl)
		mockStore := mocks.NewMockItemStore(ctrl)
		images := newFakeImageStore()
		handler := handlers.NewImageHandler(mockService, mockStore, images,
			mocks.NewMockCacheRepository(ctrl), helpers.TestLogger())

		mockStore.EXPECT().
			SetImage(gomock.Any(), testID, gomock.Any()).
			Return(nil, domain.ErrItemNotFound)

		w := httptest.NewRecorder()
		handler.UploadImage(w, imageUploadRequest(t, testID.String(), "image/jpeg"))

		resp := w.Result()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Empty(t, images.objects)
		assert.Len(t, images.deleted, 1)
	})
}

func TestImageHandler_GetImageURL(t *testing.T) {
	testID := uuid.New()

	t.Run("returns_presigned_url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockInventoryService(ctrl)
		handler := handlers.NewImageHandler(mockService,
			mocks.NewMockItemStore(ctrl), newFakeImageStore(),
			mocks.NewMockCacheRepository(ctrl), helpers.TestLogger())

		withImage := helpers.CreateTestItem(func(i *domain.Item) {
			i.ID = testID
			i.ImageKey = "items/" + testID.String() + "/photo.jpg"
		})
		mockService.EXPECT().Items().Return([]domain.Item{*withImage})

		req := httptest.NewRequest("GET", "/api/v1/items/"+testID.String()+"/image", nil)
		req.SetPathValue("id", testID.String())
		w := httptest.NewRecorder()

		handler.GetImageURL(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response["url"], "signed=1")
		assert.NotEmpty(t, response["expires_in"])
	})

	t.Run("item_without_image_is_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockInventoryService(ctrl)
		handler := handlers.NewImageHandler(mockService,
			mocks.NewMockItemStore(ctrl), newFakeImageStore(),
			mocks.NewMockCacheRepository(ctrl), helpers.TestLogger())

		noImage := helpers.CreateTestItem(func(i *domain.Item) { i.ID = testID })
		mockService.EXPECT().Items().Return([]domain.Item{*noImage})

		req := httptest.NewRequest("GET", "/api/v1/items/"+testID.String()+"/image", nil)
		req.SetPathValue("id", testID.String())
		w := httptest.NewRecorder()

		handler.GetImageURL(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown_item_is_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := mocks.NewMockInventoryService(ctrl)
		handler := handlers.NewImageHandler(mockService,
			mocks.NewMockItemStore(ctrl), newFakeImageStore(),
			mocks.NewMockCacheRepository(ctrl), helpers.TestLogger())

		mockService.EXPECT().Items().Return(nil)

		req := httptest.NewRequest("GET", "/api/v1/items/"+testID.String()+"/image", nil)
		req.SetPathValue("id", testID.String())
		w := httptest.NewRecorder()

		handler.GetImageURL(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
