package executor

import (
	"context"
	"log"
	"time"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/pkg/tools"
)

// DocSearcher is the search_docs capability as the executor sees it.
type DocSearcher interface {
	SearchDocs(query string) ([]tools.DocHit, error)
}

// IncidentSearcher is the query_incidents capability as the executor sees it.
type IncidentSearcher interface {
	QueryIncidents(ctx context.Context, query string, uow unitofwork.UnitOfWork) ([]tools.IncidentHit, error)
}

// Synthesizer combines the accumulated tool outputs into the final result.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) *dto.AgentResult
}

// Executor walks a plan step by step, dispatches tool invocations, and
// records one ToolCall per executed tool step in invocation order.
type Executor struct {
	docSearcher      DocSearcher
	incidentSearcher IncidentSearcher
	synthesizer      Synthesizer
	logger           *log.Logger
}

func NewExecutor(docSearcher DocSearcher, incidentSearcher IncidentSearcher, synthesizer Synthesizer, logger *log.Logger) *Executor {
	return &Executor{
		docSearcher:      docSearcher,
		incidentSearcher: incidentSearcher,
		synthesizer:      synthesizer,
		logger:           logger,
	}
}

// Execute runs every step of the plan in its declared order, then invokes
// synthesis exactly once. A tool's infrastructure failure is contained to
// its step (the step contributes an empty result set); it never aborts an
// otherwise salvageable request.
func (e *Executor) Execute(ctx context.Context, text string, plan *dto.AgentPlan, uow unitofwork.UnitOfWork) (*dto.AgentResult, []dto.ToolCall) {
	toolCalls := []dto.ToolCall{}
	var docResults []tools.DocHit
	var incidentResults []tools.IncidentHit

	for _, step := range plan.Steps {
		if step.Tool == nil || step.ToolInput == "" {
			continue
		}

		switch *step.Tool {
		case dto.ToolSearchDocs:
			e.logger.Printf("[EXECUTOR] Executing search_docs: %s", step.ToolInput)
			results, err := e.docSearcher.SearchDocs(step.ToolInput)
			if err != nil {
				e.logger.Printf("[EXECUTOR] search_docs failed on step %d: %v (treating as empty result)", step.StepNumber, err)
				results = []tools.DocHit{}
			}
			docResults = append(docResults, results...)
			toolCalls = append(toolCalls, dto.ToolCall{
				Tool:      dto.ToolSearchDocs,
				Input:     step.ToolInput,
				Output:    results,
				Timestamp: time.Now().UTC(),
			})

		case dto.ToolQueryIncidents:
			e.logger.Printf("[EXECUTOR] Executing query_incidents: %s", step.ToolInput)
			results, err := e.incidentSearcher.QueryIncidents(ctx, step.ToolInput, uow)
			if err != nil {
				e.logger.Printf("[EXECUTOR] query_incidents failed on step %d: %v (treating as empty result)", step.StepNumber, err)
				results = []tools.IncidentHit{}
			}
			incidentResults = append(incidentResults, results...)
			toolCalls = append(toolCalls, dto.ToolCall{
				Tool:      dto.ToolQueryIncidents,
				Input:     step.ToolInput,
				Output:    results,
				Timestamp: time.Now().UTC(),
			})

		default:
			e.logger.Printf("[EXECUTOR] Unknown tool %q on step %d, skipping", *step.Tool, step.StepNumber)
		}
	}

	result := e.synthesizer.Synthesize(ctx, text, docResults, incidentResults)
	return result, toolCalls
}
