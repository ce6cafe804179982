package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrUpstream marks failures of the generation service itself (network,
// auth, quota). Handlers map it to a gateway error; everything after a
// successful round trip degrades to an empty plan instead.
var ErrUpstream = errors.New("generation service failure")

// Generator turns a validated request into a normalized maintenance plan.
type Generator struct {
	llm TextGenerator

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewGenerator wires a Generator to a text generation backend.
func NewGenerator(llm TextGenerator) *Generator {
	return &Generator{
		llm: llm,
		now: time.Now,
	}
}

// Generate builds the prompt, performs one generation attempt, and
// normalizes the response. A response the service returned but that cannot
// be parsed yields an empty plan and a logged warning, never an error.
func (g *Generator) Generate(ctx context.Context, req PlanRequest) (MaintenancePlan, error) {
	start := req.StartDate(g.now())
	prompt := BuildPrompt(req, start)

	text, err := g.llm.Generate(ctx, SystemPersona, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	rawTasks, err := decodePlan(text)
	if err != nil {
		log.WithFields(log.Fields{
			"asset_serial": req.Serial,
			"error":        err,
		}).Warn("Discarding unparseable plan response")
		return MaintenancePlan{}, nil
	}

	plan := make(MaintenancePlan, 0, len(rawTasks))
	for _, raw := range rawTasks {
		plan = append(plan, normalizeTask(raw, req, start))
	}
	return plan, nil
}
