package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/pm-planner/internal/planner"
	"github.com/ukydev/pm-planner/internal/requestlog"
)

func planRequestBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Pump A",
		"model":       "X100",
		"serial":      "SN1",
		"category":    "Pump",
		"hours":       500,
		"cycles":      1000,
		"environment": "Outdoor",
	})
	return body
}

func TestPlanHandler_GeneratePlan(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: `{"maintenance_plan":[{
		"task_name":"Inspect seals",
		"maintenance_interval":"Monthly",
		"instructions":["Check for leaks"],
		"reason":"Prevent failure",
		"safety_precautions":"Lockout"
	}]}`})
	handler := NewPlanHandler(gen, nil)

	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBuffer(planRequestBody()))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			MaintenancePlan []planner.MaintenanceTask `json:"maintenance_plan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.MaintenancePlan, 1)

	task := response.Data.MaintenancePlan[0]
	assert.Equal(t, "Inspect seals", task.TaskName)
	assert.Equal(t, "Pump A", task.AssetName)
	assert.Equal(t, "X100", task.AssetModel)
	assert.Equal(t, "1. Check for leaks", task.Instructions)
}

func TestPlanHandler_GeneratePlan_MalformedUpstream(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: "not json"})
	handler := NewPlanHandler(gen, nil)

	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBuffer(planRequestBody()))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			MaintenancePlan []planner.MaintenanceTask `json:"maintenance_plan"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Data.MaintenancePlan)
	assert.Contains(t, w.Body.String(), `"maintenance_plan":[]`)
}

func TestPlanHandler_GeneratePlan_UpstreamError(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Err: errors.New("timeout")})
	handler := NewPlanHandler(gen, nil)

	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBuffer(planRequestBody()))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
	assert.NotEmpty(t, response["message"])
}

func TestPlanHandler_GeneratePlan_ValidationError(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: `{"maintenance_plan":[]}`})
	handler := NewPlanHandler(gen, nil)

	body, _ := json.Marshal(map[string]interface{}{"name": "Pump A"})
	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
}

func TestPlanHandler_GeneratePlan_InvalidJSON(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: `{"maintenance_plan":[]}`})
	handler := NewPlanHandler(gen, nil)

	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_GeneratePlan_MethodNotAllowed(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: `{"maintenance_plan":[]}`})
	handler := NewPlanHandler(gen, nil)

	req := httptest.NewRequest("GET", "/api/generate_pm_plan", nil)
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPlanHandler_GeneratePlan_LogsRequest(t *testing.T) {
	gen := planner.NewGenerator(planner.StaticGenerator{Response: `{"maintenance_plan":[]}`})
	logPath := filepath.Join(t.TempDir(), "requests.txt")
	handler := NewPlanHandler(gen, requestlog.New(logPath))

	req := httptest.NewRequest("POST", "/api/generate_pm_plan", bytes.NewBuffer(planRequestBody()))
	w := httptest.NewRecorder()

	handler.GeneratePlan(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.FileExists(t, logPath)
}
