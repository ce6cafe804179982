package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/pm-planner/internal/db"
	"github.com/ukydev/pm-planner/internal/models"
)

// AssetHandler handles asset CRUD requests
type AssetHandler struct {
	assetCollection db.AssetCollection
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetCollection db.AssetCollection) *AssetHandler {
	return &AssetHandler{
		assetCollection: assetCollection,
	}
}

// Assets routes /api/assets requests by method
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listAssets(w, r)
	case http.MethodPost:
		h.createAsset(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// AssetByID routes /api/assets/{id} requests by method
func (h *AssetHandler) AssetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/assets/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAsset(w, r, id)
	case http.MethodPut:
		h.updateAsset(w, r, id)
	case http.MethodDelete:
		h.deleteAsset(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetHandler) listAssets(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if company := r.URL.Query().Get("company"); company != "" {
		filter["company"] = company
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	assets, err := h.assetCollection.FindAssets(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch assets", http.StatusInternalServerError)
		return
	}

	if assets == nil {
		assets = []models.Asset{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": assets})
}

func (h *AssetHandler) createAsset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if asset.Name == "" || asset.Model == "" || asset.Serial == "" || asset.Category == "" {
		http.Error(w, "Name, model, serial and category are required", http.StatusBadRequest)
		return
	}
	if asset.Hours < 0 || asset.Cycles < 0 {
		http.Error(w, "Hours and cycles must be non-negative", http.StatusBadRequest)
		return
	}

	if _, err := h.assetCollection.FindAssetBySerial(r.Context(), asset.Serial); err == nil {
		http.Error(w, "Asset with this serial already exists", http.StatusConflict)
		return
	}

	id, err := h.assetCollection.InsertAsset(r.Context(), asset)
	if err != nil {
		http.Error(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *AssetHandler) getAsset(w http.ResponseWriter, r *http.Request, id string) {
	asset, err := h.assetCollection.FindAssetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) updateAsset(w http.ResponseWriter, r *http.Request, id string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if asset.Hours < 0 || asset.Cycles < 0 {
		http.Error(w, "Hours and cycles must be non-negative", http.StatusBadRequest)
		return
	}

	existing, err := h.assetCollection.FindAssetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	// Serial is the usage ingestion key and cannot change once set.
	asset.Serial = existing.Serial
	asset.CreatedAt = existing.CreatedAt

	if err := h.assetCollection.UpdateAsset(r.Context(), id, asset); err != nil {
		http.Error(w, "Failed to update asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Asset updated successfully"})
}

func (h *AssetHandler) deleteAsset(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.assetCollection.FindAssetByID(r.Context(), id); err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	if err := h.assetCollection.DeleteAsset(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Asset deleted successfully"})
}
