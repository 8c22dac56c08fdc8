package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/pkg/llm"
)

// Planner produces an execution plan from request text.
type Planner interface {
	BuildPlan(ctx context.Context, text string) (*dto.AgentPlan, error)
}

// Service plans with the LLM when a provider is configured and falls back
// to a fixed heuristic plan otherwise (or when the LLM output is
// unusable). The heuristic plan searches both corpora and ends with a
// synthesis step.
type Service struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewService(provider llm.LLMProvider, logger *log.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

func (s *Service) BuildPlan(ctx context.Context, text string) (*dto.AgentPlan, error) {
	if s.provider == nil {
		return heuristicPlan(text), nil
	}

	raw, err := s.provider.Generate(ctx, buildPlannerPrompt(text), llm.WithJSONResponse())
	if err != nil {
		s.logger.Printf("[PLANNER] LLM planning failed: %v, using heuristic plan", err)
		return heuristicPlan(text), nil
	}

	plan, err := extractPlan(raw)
	if err != nil {
		s.logger.Printf("[PLANNER] Plan extraction failed: %v, using heuristic plan", err)
		return heuristicPlan(text), nil
	}
	return plan, nil
}

// heuristicPlan is the zero-dependency default: consult the docs corpus,
// consult the incident history, then synthesize.
func heuristicPlan(text string) *dto.AgentPlan {
	searchDocs := dto.ToolSearchDocs
	queryIncidents := dto.ToolQueryIncidents

	return &dto.AgentPlan{
		Reasoning: "Search documentation and past incidents for the request text, then combine the findings.",
		Steps: []dto.PlanStep{
			{StepNumber: 1, Action: "Search the documentation corpus", Tool: &searchDocs, ToolInput: text},
			{StepNumber: 2, Action: "Look up related past incidents", Tool: &queryIncidents, ToolInput: text},
			{StepNumber: 3, Action: "Synthesize the collected results", Tool: nil},
		},
	}
}

func buildPlannerPrompt(text string) string {
	return fmt.Sprintf(`You are planning how to answer a lab support request.

Available tools:
- search_docs: full-text search over the documentation corpus
- query_incidents: search past support incidents

Request: %s

Respond with JSON:
{
  "reasoning": "why these steps",
  "steps": [
    {"step_number": 1, "action": "...", "tool": "search_docs", "tool_input": "..."},
    {"step_number": 2, "action": "...", "tool": "query_incidents", "tool_input": "..."},
    {"step_number": 3, "action": "Synthesize results", "tool": null}
  ]
}`, text)
}

func extractPlan(response string) (*dto.AgentPlan, error) {
	var plan dto.AgentPlan
	if err := json.Unmarshal([]byte(extractJSON(response)), &plan); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}
	for _, step := range plan.Steps {
		if step.Tool != nil && *step.Tool != dto.ToolSearchDocs && *step.Tool != dto.ToolQueryIncidents {
			return nil, fmt.Errorf("plan references unknown tool %q", *step.Tool)
		}
	}
	return &plan, nil
}

// extractJSON isolates JSON content from a response that may carry prose.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return response
	}
	return response[start : end+1]
}
