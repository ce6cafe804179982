package planner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// rawTask mirrors the upstream task shape before normalization.
// Instructions is kept raw because models return either an array of steps
// or a single pipe-delimited string.
type rawTask struct {
	TaskName                string          `json:"task_name"`
	MaintenanceInterval     string          `json:"maintenance_interval"`
	HoursInterval           string          `json:"hours_interval"`
	Instructions            json.RawMessage `json:"instructions"`
	Reason                  string          `json:"reason"`
	EngineeringRationale    string          `json:"engineering_rationale"`
	SafetyPrecautions       string          `json:"safety_precautions"`
	CommonFailuresPrevented string          `json:"common_failures_prevented"`
	UsageInsights           string          `json:"usage_insights"`
	ScheduledDates          []string        `json:"scheduled_dates"`
}

type rawPlan struct {
	MaintenancePlan []rawTask `json:"maintenance_plan"`
}

// StripFences removes a markdown code fence wrapped around the response,
// with or without a language tag on the opening marker. Idempotent: text
// without fences is returned unchanged.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
	}
	return s
}

// decodePlan parses the cleaned response into the raw upstream shape. A
// missing or non-array maintenance_plan key yields an empty slice, not an
// error.
func decodePlan(text string) ([]rawTask, error) {
	text = StripFences(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var plan rawPlan
	if err := json.Unmarshal([]byte(text[start:end+1]), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}
	return plan.MaintenancePlan, nil
}

// instructionSteps extracts ordered step strings from the raw instructions
// value: either a JSON array of strings or a pipe-delimited string. Empty
// segments are dropped.
func instructionSteps(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimSteps(list)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return trimSteps(strings.Split(s, "|"))
	}

	return nil
}

func trimSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		out = append(out, step)
	}
	return out
}

// numberSteps renders steps as a newline-joined, 1-indexed numbered list.
func numberSteps(steps []string) string {
	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%d. %s", i+1, step))
	}
	return b.String()
}

// normalizeDates keeps only dates parseable as YYYY-MM-DD that fall within
// twelve months of the plan start, sorted non-decreasing.
func normalizeDates(dates []string, start time.Time) []string {
	if len(dates) == 0 {
		return nil
	}

	horizon := start.AddDate(1, 0, 0)
	out := make([]string, 0, len(dates))
	for _, raw := range dates {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if d.Before(start) || !d.Before(horizon) {
			continue
		}
		out = append(out, d.Format(time.DateOnly))
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeTask converts an upstream task into the display shape, stamping
// the asset identity from the request.
func normalizeTask(raw rawTask, req PlanRequest, start time.Time) MaintenanceTask {
	return MaintenanceTask{
		TaskName:                raw.TaskName,
		MaintenanceInterval:     raw.MaintenanceInterval,
		HoursInterval:           raw.HoursInterval, // zero value keeps the "" default
		Instructions:            numberSteps(instructionSteps(raw.Instructions)),
		Reason:                  raw.Reason,
		EngineeringRationale:    raw.EngineeringRationale,
		SafetyPrecautions:       raw.SafetyPrecautions,
		CommonFailuresPrevented: raw.CommonFailuresPrevented,
		UsageInsights:           raw.UsageInsights,
		ScheduledDates:          normalizeDates(raw.ScheduledDates, start),
		AssetName:               req.Name,
		AssetModel:              req.Model,
	}
}
