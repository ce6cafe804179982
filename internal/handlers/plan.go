package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/pm-planner/internal/planner"
	"github.com/ukydev/pm-planner/internal/requestlog"
)

// PlanHandler handles maintenance plan generation requests
type PlanHandler struct {
	generator  *planner.Generator
	requestLog *requestlog.Logger
}

// NewPlanHandler creates a new plan handler. requestLog may be nil to
// disable request logging.
func NewPlanHandler(generator *planner.Generator, requestLog *requestlog.Logger) *PlanHandler {
	return &PlanHandler{
		generator:  generator,
		requestLog: requestLog,
	}
}

// GeneratePlan handles POST /api/generate_pm_plan
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req planner.PlanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.requestLog != nil {
		if err := h.requestLog.Append(req); err != nil {
			log.WithError(err).Warn("Failed to write request log")
		}
	}

	plan, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrUpstream) {
			log.WithFields(log.Fields{
				"serial": req.Serial,
				"error":  err,
			}).Error("Plan generation failed upstream")
			writeError(w, http.StatusBadGateway, "Plan generation service is unavailable")
			return
		}
		log.WithError(err).Error("Plan generation failed")
		writeError(w, http.StatusInternalServerError, "Failed to generate plan")
		return
	}

	log.WithFields(log.Fields{
		"serial": req.Serial,
		"tasks":  len(plan),
	}).Info("Generated maintenance plan")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"maintenance_plan": plan,
		},
	})
}

// writeError sends the error envelope used by the planner frontend.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
