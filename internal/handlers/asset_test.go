package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/pm-planner/internal/db"
	"github.com/ukydev/pm-planner/internal/models"
)

// MockAssetCollection is a mock implementation of AssetCollection
type MockAssetCollection struct {
	mock.Mock
}

func (m *MockAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) (string, error) {
	args := m.Called(ctx, asset)
	return args.String(0), args.Error(1)
}

func (m *MockAssetCollection) FindAssets(ctx context.Context, filter bson.M) ([]models.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetCollection) FindAssetBySerial(ctx context.Context, serial string) (*models.Asset, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetCollection) UpdateAsset(ctx context.Context, id string, asset models.Asset) error {
	args := m.Called(ctx, id, asset)
	return args.Error(0)
}

func (m *MockAssetCollection) UpdateAssetUsage(ctx context.Context, serial string, hours, cycles int64) error {
	args := m.Called(ctx, serial, hours, cycles)
	return args.Error(0)
}

func (m *MockAssetCollection) DeleteAsset(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAssetHandler_Assets(t *testing.T) {
	t.Run("list assets", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		assets := []models.Asset{
			{ID: primitive.NewObjectID(), Name: "Pump A", Model: "X100", Serial: "SN1", Category: "Pump"},
		}
		mockAssets.On("FindAssets", mock.Anything, bson.M{}).Return(assets, nil)

		req := httptest.NewRequest("GET", "/api/assets", nil)
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []models.Asset `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "Pump A", response.Data[0].Name)
	})

	t.Run("list assets with company filter", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		mockAssets.On("FindAssets", mock.Anything, bson.M{"company": "Acme"}).Return([]models.Asset{}, nil)

		req := httptest.NewRequest("GET", "/api/assets?company=Acme", nil)
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockAssets.AssertExpectations(t)
	})

	t.Run("create asset", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		mockAssets.On("FindAssetBySerial", mock.Anything, "SN1").Return(nil, assert.AnError)
		mockAssets.On("InsertAsset", mock.Anything, mock.AnythingOfType("models.Asset")).Return("abc123", nil)

		body, _ := json.Marshal(models.Asset{
			Name: "Pump A", Model: "X100", Serial: "SN1", Category: "Pump",
			Hours: 500, Cycles: 1000, Environment: "Outdoor",
		})
		req := httptest.NewRequest("POST", "/api/assets", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "abc123", response["id"])
	})

	t.Run("create asset duplicate serial", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		existing := &models.Asset{ID: primitive.NewObjectID(), Serial: "SN1"}
		mockAssets.On("FindAssetBySerial", mock.Anything, "SN1").Return(existing, nil)

		body, _ := json.Marshal(models.Asset{Name: "Pump A", Model: "X100", Serial: "SN1", Category: "Pump"})
		req := httptest.NewRequest("POST", "/api/assets", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create asset missing fields", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		body, _ := json.Marshal(models.Asset{Name: "Pump A"})
		req := httptest.NewRequest("POST", "/api/assets", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := NewAssetHandler(new(MockAssetCollection))

		req := httptest.NewRequest("DELETE", "/api/assets", nil)
		w := httptest.NewRecorder()

		handler.Assets(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestAssetHandler_AssetByID(t *testing.T) {
	assetID := primitive.NewObjectID()

	t.Run("get asset", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		asset := &models.Asset{ID: assetID, Name: "Pump A", Serial: "SN1"}
		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(asset, nil)

		req := httptest.NewRequest("GET", "/api/assets/"+assetID.Hex(), nil)
		w := httptest.NewRecorder()

		handler.AssetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Pump A")
	})

	t.Run("get missing asset", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(nil, assert.AnError)

		req := httptest.NewRequest("GET", "/api/assets/"+assetID.Hex(), nil)
		w := httptest.NewRecorder()

		handler.AssetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update keeps serial", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		existing := &models.Asset{ID: assetID, Name: "Pump A", Serial: "SN1"}
		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(existing, nil)
		mockAssets.On("UpdateAsset", mock.Anything, assetID.Hex(), mock.MatchedBy(func(a models.Asset) bool {
			return a.Serial == "SN1" && a.Name == "Pump B"
		})).Return(nil)

		body, _ := json.Marshal(models.Asset{Name: "Pump B", Model: "X100", Serial: "OTHER", Category: "Pump"})
		req := httptest.NewRequest("PUT", "/api/assets/"+assetID.Hex(), bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.AssetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockAssets.AssertExpectations(t)
	})

	t.Run("delete asset", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(db.AssetCollection(mockAssets))

		existing := &models.Asset{ID: assetID, Serial: "SN1"}
		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(existing, nil)
		mockAssets.On("DeleteAsset", mock.Anything, assetID.Hex()).Return(nil)

		req := httptest.NewRequest("DELETE", "/api/assets/"+assetID.Hex(), nil)
		w := httptest.NewRecorder()

		handler.AssetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid path", func(t *testing.T) {
		handler := NewAssetHandler(new(MockAssetCollection))

		req := httptest.NewRequest("GET", "/api/assets/", nil)
		w := httptest.NewRecorder()

		handler.AssetByID(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
