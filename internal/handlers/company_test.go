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

// MockCompanyCollection is a mock implementation of CompanyCollection
type MockCompanyCollection struct {
	mock.Mock
}

func (m *MockCompanyCollection) InsertCompany(ctx context.Context, company models.Company) (string, error) {
	args := m.Called(ctx, company)
	return args.String(0), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanies(ctx context.Context, filter bson.M) ([]models.Company, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockCompanyCollection) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func TestCompanyHandler_Companies(t *testing.T) {
	t.Run("list companies", func(t *testing.T) {
		mockCompanies := new(MockCompanyCollection)
		handler := NewCompanyHandler(db.CompanyCollection(mockCompanies))

		companies := []models.Company{{ID: primitive.NewObjectID(), Name: "Acme", Industry: "Manufacturing"}}
		mockCompanies.On("FindCompanies", mock.Anything, bson.M{}).Return(companies, nil)

		req := httptest.NewRequest("GET", "/api/companies", nil)
		w := httptest.NewRecorder()

		handler.Companies(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Acme")
	})

	t.Run("create company", func(t *testing.T) {
		mockCompanies := new(MockCompanyCollection)
		handler := NewCompanyHandler(db.CompanyCollection(mockCompanies))

		mockCompanies.On("FindCompanyByName", mock.Anything, "Acme").Return(nil, assert.AnError)
		mockCompanies.On("InsertCompany", mock.Anything, mock.AnythingOfType("models.Company")).Return("c1", nil)

		body, _ := json.Marshal(models.Company{Name: "Acme", Industry: "Manufacturing"})
		req := httptest.NewRequest("POST", "/api/companies", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Companies(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "c1", response["id"])
	})

	t.Run("create duplicate company", func(t *testing.T) {
		mockCompanies := new(MockCompanyCollection)
		handler := NewCompanyHandler(db.CompanyCollection(mockCompanies))

		existing := &models.Company{ID: primitive.NewObjectID(), Name: "Acme"}
		mockCompanies.On("FindCompanyByName", mock.Anything, "Acme").Return(existing, nil)

		body, _ := json.Marshal(models.Company{Name: "Acme"})
		req := httptest.NewRequest("POST", "/api/companies", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Companies(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create company without name", func(t *testing.T) {
		mockCompanies := new(MockCompanyCollection)
		handler := NewCompanyHandler(db.CompanyCollection(mockCompanies))

		body, _ := json.Marshal(models.Company{Industry: "Manufacturing"})
		req := httptest.NewRequest("POST", "/api/companies", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Companies(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
