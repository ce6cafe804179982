package planner

import (
	"errors"
	"fmt"
	"time"
)

// PlanRequest describes the asset a PM plan is requested for. It is built
// from the inbound request and never mutated.
type PlanRequest struct {
	Name            string `json:"name"`
	Model           string `json:"model"`
	Serial          string `json:"serial"`
	Category        string `json:"category"`
	Hours           int64  `json:"hours"`
	Cycles          int64  `json:"cycles"`
	Environment     string `json:"environment"`
	DateOfPlanStart string `json:"date_of_plan_start,omitempty"`
	Email           string `json:"email,omitempty"`
	Company         string `json:"company,omitempty"`
}

// Validate checks the request before it reaches the generator. These are the
// only failures that surface to clients as 4xx.
func (r PlanRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Model == "" {
		return errors.New("model is required")
	}
	if r.Serial == "" {
		return errors.New("serial is required")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	if r.Environment == "" {
		return errors.New("environment is required")
	}
	if r.Hours < 0 {
		return errors.New("hours must be non-negative")
	}
	if r.Cycles < 0 {
		return errors.New("cycles must be non-negative")
	}
	if r.DateOfPlanStart != "" {
		if _, err := time.Parse(time.DateOnly, r.DateOfPlanStart); err != nil {
			return fmt.Errorf("date_of_plan_start must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// StartDate resolves the effective plan-start date: the explicit request
// value, or the processing date when absent.
func (r PlanRequest) StartDate(now time.Time) time.Time {
	if r.DateOfPlanStart != "" {
		if d, err := time.Parse(time.DateOnly, r.DateOfPlanStart); err == nil {
			return d
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MaintenanceTask is one recurring task of a PM plan, normalized for
// display: instructions are a numbered string and the asset identity is
// always stamped on.
type MaintenanceTask struct {
	TaskName                string   `json:"task_name"`
	MaintenanceInterval     string   `json:"maintenance_interval"`
	HoursInterval           string   `json:"hours_interval"`
	Instructions            string   `json:"instructions"`
	Reason                  string   `json:"reason"`
	EngineeringRationale    string   `json:"engineering_rationale,omitempty"`
	SafetyPrecautions       string   `json:"safety_precautions"`
	CommonFailuresPrevented string   `json:"common_failures_prevented,omitempty"`
	UsageInsights           string   `json:"usage_insights,omitempty"`
	ScheduledDates          []string `json:"scheduled_dates,omitempty"`
	AssetName               string   `json:"asset_name"`
	AssetModel              string   `json:"asset_model"`
}

// MaintenancePlan is an ordered list of tasks. An empty plan is a valid
// terminal state when the upstream output could not be parsed.
type MaintenancePlan []MaintenanceTask
