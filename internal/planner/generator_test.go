package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
}

func TestGenerator_Generate_WellFormedResponse(t *testing.T) {
	g := NewGenerator(StaticGenerator{Response: `{"maintenance_plan":[{
		"task_name":"Inspect seals",
		"maintenance_interval":"Monthly",
		"instructions":["Check for leaks"],
		"reason":"Prevent failure",
		"safety_precautions":"Lockout"
	}]}`})
	g.now = fixedNow

	plan, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, plan, 1)

	task := plan[0]
	assert.Equal(t, "Inspect seals", task.TaskName)
	assert.Equal(t, "Pump A", task.AssetName)
	assert.Equal(t, "X100", task.AssetModel)
	assert.Equal(t, "1. Check for leaks", task.Instructions)
}

func TestGenerator_Generate_PipeDelimitedInstructions(t *testing.T) {
	g := NewGenerator(StaticGenerator{Response: `{"maintenance_plan":[{
		"task_name":"Oil service",
		"instructions":"Check oil|Replace filter"
	}]}`})
	g.now = fixedNow

	plan, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "1. Check oil\n2. Replace filter", plan[0].Instructions)
}

func TestGenerator_Generate_FencedResponse(t *testing.T) {
	g := NewGenerator(StaticGenerator{
		Response: "```json\n{\"maintenance_plan\":[{\"task_name\":\"T1\",\"instructions\":[\"Step\"]}]}\n```",
	})
	g.now = fixedNow

	plan, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "T1", plan[0].TaskName)
}

func TestGenerator_Generate_MalformedResponse(t *testing.T) {
	g := NewGenerator(StaticGenerator{Response: "this is not json at all"})
	g.now = fixedNow

	plan, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestGenerator_Generate_MissingPlanKey(t *testing.T) {
	g := NewGenerator(StaticGenerator{Response: `{"unexpected": []}`})
	g.now = fixedNow

	plan, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestGenerator_Generate_UpstreamError(t *testing.T) {
	g := NewGenerator(StaticGenerator{Err: errors.New("429 rate limited")})
	g.now = fixedNow

	_, err := g.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerator_Generate_DateWindow(t *testing.T) {
	g := NewGenerator(StaticGenerator{Response: `{"maintenance_plan":[{
		"task_name":"Quarterly check",
		"scheduled_dates":["2025-10-01","2024-06-01","2025-04-01","2027-01-01"]
	}]}`})
	g.now = fixedNow

	req := testRequest()
	req.DateOfPlanStart = "2025-01-01"

	plan, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plan, 1)

	dates := plan[0].ScheduledDates
	assert.Equal(t, []string{"2025-04-01", "2025-10-01"}, dates)
	for _, d := range dates {
		assert.GreaterOrEqual(t, d, "2025-01-01")
		assert.LessOrEqual(t, d, "2025-12-31")
	}
}

func TestNewOpenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator("", "gpt-4o", 0.4, 1200, time.Minute)
	assert.Error(t, err)

	g, err := NewOpenAIGenerator("sk-test", "", 0.4, 1200, 0)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", g.model)
	assert.Equal(t, 90*time.Second, g.timeout)
}
