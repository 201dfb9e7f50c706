// Package planner produces validated task plans for natural-language goals
// and turns execution results back into prose analysis. It owns the prompt
// templates; generation mechanics live in the provider and structured
// packages.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/log"
	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/internal/provider"
	"github.com/planweave/planweave/internal/structured"
)

const planPromptTemplate = `You are an expert task planner. Break down the following goal into actionable steps.
For each task, identify the tools needed and dependencies.

Goal: %s

Provide a JSON response with this structure:
{
  "tasks": [
    {
      "id": "task_1",
      "description": "Task description",
      "tools": ["tool_name"],
      "dependencies": ["task_id_if_any"],
      "optional": false
    }
  ]
}`

const analyzePromptTemplate = `Analyze the following execution results for the goal: %s

Results:
%s

Provide a comprehensive analysis with key insights and recommendations.`

// Planner plans goals against a single backend client.
type Planner struct {
	client  provider.Client
	adapter *structured.Adapter
	logger  *log.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New creates a Planner around a backend client.
func New(client provider.Client, opts ...Option) *Planner {
	p := &Planner{
		client: client,
		logger: log.GetDefault(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.adapter = structured.New(client, structured.WithLogger(p.logger))
	return p
}

// PlanGoal generates a task plan for the goal and validates it. A plan that
// fails validation is returned as an error, not retried; regeneration is the
// caller's decision.
func (p *Planner) PlanGoal(ctx context.Context, goal string) (*plan.Plan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalidValue, "goal must not be empty")
	}

	req := provider.NewGenerateRequest(fmt.Sprintf(planPromptTemplate, goal))
	p.logger.Debug("planning goal",
		"request_id", req.ID,
		"provider", p.client.Info().Identity,
		"model", p.client.Info().Model,
	)

	raw, err := p.adapter.Generate(ctx, req, plan.Schema())
	if err != nil {
		return nil, err
	}

	result, err := plan.Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	p.logger.Info("plan generated",
		"request_id", req.ID,
		"tasks", len(result.Tasks),
	)
	return result, nil
}

// AnalyzeResults asks the backend for a prose analysis of execution results
// and returns the response text verbatim.
func (p *Planner) AnalyzeResults(ctx context.Context, goal string, results any) (string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return "", errors.New(errors.ErrCodeConfigInvalidValue, "goal must not be empty")
	}

	rendered, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigInvalidValue, "results are not renderable as JSON", err)
	}

	req := provider.NewGenerateRequest(fmt.Sprintf(analyzePromptTemplate, goal, rendered))
	resp, err := p.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
