package planner

import (
	"fmt"
	"time"
)

// SystemPersona frames the generation request.
const SystemPersona = "You are an expert industrial maintenance planner."

const promptTemplate = `Generate a detailed preventive maintenance (PM) plan for the following asset:

- Asset Name: %s
- Model: %s
- Serial Number: %s
- Asset Category: %s
- Usage Hours: %d hours
- Usage Cycles: %d cycles
- Environmental Conditions: %s
- Plan Start Date: %s

Use the manufacturer's user manual to determine recommended maintenance tasks and intervals. If the manual is not available, infer from similar equipment in the same category. Tailor tasks to the provided usage and environmental conditions.

Respond with a single JSON object and nothing else: no surrounding prose, no markdown code fences. The object must contain a top-level "maintenance_plan" array. Each element of the array must be an object with exactly these keys:
- "task_name": string, short name of the task
- "maintenance_interval": string, human-readable cadence (for example "Every 3 months")
- "hours_interval": string, usage-based cadence in operating hours, or "" if not applicable
- "instructions": array of step strings, in execution order
- "reason": string, why the task is needed
- "engineering_rationale": string
- "safety_precautions": string
- "common_failures_prevented": string
- "usage_insights": string
- "scheduled_dates": array of "YYYY-MM-DD" dates, all within 12 months after the plan start date
`

// BuildPrompt renders the instruction string sent to the generation
// service. Pure: the same request and start date always produce the same
// prompt, and no asset field is truncated.
func BuildPrompt(req PlanRequest, start time.Time) string {
	return fmt.Sprintf(promptTemplate,
		req.Name,
		req.Model,
		req.Serial,
		req.Category,
		req.Hours,
		req.Cycles,
		req.Environment,
		start.Format(time.DateOnly),
	)
}
