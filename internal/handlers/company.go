package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/pm-planner/internal/db"
	"github.com/ukydev/pm-planner/internal/models"
)

// CompanyHandler handles company requests
type CompanyHandler struct {
	companyCollection db.CompanyCollection
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyCollection db.CompanyCollection) *CompanyHandler {
	return &CompanyHandler{
		companyCollection: companyCollection,
	}
}

// Companies routes /api/companies requests by method
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCompanies(w, r)
	case http.MethodPost:
		h.createCompany(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CompanyHandler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companyCollection.FindCompanies(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to fetch companies", http.StatusInternalServerError)
		return
	}

	if companies == nil {
		companies = []models.Company{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": companies})
}

func (h *CompanyHandler) createCompany(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var company models.Company
	if err := json.Unmarshal(body, &company); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if company.Name == "" {
		http.Error(w, "Company name is required", http.StatusBadRequest)
		return
	}

	if _, err := h.companyCollection.FindCompanyByName(r.Context(), company.Name); err == nil {
		http.Error(w, "Company already exists", http.StatusConflict)
		return
	}

	id, err := h.companyCollection.InsertCompany(r.Context(), company)
	if err != nil {
		http.Error(w, "Failed to create company", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
