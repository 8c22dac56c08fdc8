package executor

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/pkg/tools"
)

type fakeDocSearcher struct {
	hits    []tools.DocHit
	err     error
	queries []string
}

func (f *fakeDocSearcher) SearchDocs(query string) ([]tools.DocHit, error) {
	f.queries = append(f.queries, query)
	return f.hits, f.err
}

type fakeIncidentSearcher struct {
	hits    []tools.IncidentHit
	err     error
	queries []string
}

func (f *fakeIncidentSearcher) QueryIncidents(ctx context.Context, query string, uow unitofwork.UnitOfWork) ([]tools.IncidentHit, error) {
	f.queries = append(f.queries, query)
	return f.hits, f.err
}

type fakeSynthesizer struct {
	docResults      []tools.DocHit
	incidentResults []tools.IncidentHit
	calls           int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) *dto.AgentResult {
	f.calls++
	f.docResults = docResults
	f.incidentResults = incidentResults
	return &dto.AgentResult{Summary: "synthesized"}
}

func toolPtr(tool string) *string { return &tool }

func newTestExecutor(docs *fakeDocSearcher, incidents *fakeIncidentSearcher, synth *fakeSynthesizer) *Executor {
	return NewExecutor(docs, incidents, synth, log.New(io.Discard, "", 0))
}

func TestExecuteRunsToolStepsInOrder(t *testing.T) {
	docs := &fakeDocSearcher{hits: []tools.DocHit{{Filename: "db.md", Title: "DB"}}}
	incidents := &fakeIncidentSearcher{hits: []tools.IncidentHit{{Id: "INC-001", Title: "Outage"}}}
	synth := &fakeSynthesizer{}

	plan := &dto.AgentPlan{
		Steps: []dto.PlanStep{
			{StepNumber: 1, Tool: toolPtr(dto.ToolSearchDocs), ToolInput: "timeouts"},
			{StepNumber: 2, Tool: toolPtr(dto.ToolQueryIncidents), ToolInput: "timeouts"},
			{StepNumber: 3, Action: "Synthesize", Tool: nil},
		},
	}

	result, calls := newTestExecutor(docs, incidents, synth).Execute(context.Background(), "timeouts", plan, nil)

	assert.Equal(t, "synthesized", result.Summary)
	assert.Len(t, calls, 2, "only tool steps produce tool calls")
	assert.Equal(t, dto.ToolSearchDocs, calls[0].Tool)
	assert.Equal(t, dto.ToolQueryIncidents, calls[1].Tool)
	assert.Equal(t, "timeouts", calls[0].Input)
	assert.Equal(t, 1, synth.calls, "synthesis runs exactly once")
	assert.Equal(t, docs.hits, synth.docResults)
	assert.Equal(t, incidents.hits, synth.incidentResults)
}

func TestExecuteSkipsNonToolSteps(t *testing.T) {
	docs := &fakeDocSearcher{}
	incidents := &fakeIncidentSearcher{}
	synth := &fakeSynthesizer{}

	plan := &dto.AgentPlan{
		Steps: []dto.PlanStep{
			{StepNumber: 1, Action: "Think about it", Tool: nil},
			{StepNumber: 2, Tool: toolPtr(dto.ToolSearchDocs), ToolInput: ""},
			{StepNumber: 3, Tool: toolPtr("delete_everything"), ToolInput: "x"},
		},
	}

	_, calls := newTestExecutor(docs, incidents, synth).Execute(context.Background(), "q", plan, nil)

	assert.Empty(t, calls)
	assert.Empty(t, docs.queries, "empty tool_input must not reach the tool")
	assert.Equal(t, 1, synth.calls)
}

func TestExecuteContainsToolFailure(t *testing.T) {
	docs := &fakeDocSearcher{err: tools.ErrToolUnavailable}
	incidents := &fakeIncidentSearcher{hits: []tools.IncidentHit{{Id: "INC-002", Title: "Stall"}}}
	synth := &fakeSynthesizer{}

	plan := &dto.AgentPlan{
		Steps: []dto.PlanStep{
			{StepNumber: 1, Tool: toolPtr(dto.ToolSearchDocs), ToolInput: "q"},
			{StepNumber: 2, Tool: toolPtr(dto.ToolQueryIncidents), ToolInput: "q"},
		},
	}

	result, calls := newTestExecutor(docs, incidents, synth).Execute(context.Background(), "q", plan, nil)

	assert.NotNil(t, result, "a failing tool never aborts the plan")
	assert.Len(t, calls, 2, "the failed step still leaves an audit record")
	assert.Equal(t, []tools.DocHit{}, calls[0].Output)
	assert.Empty(t, synth.docResults)
	assert.Equal(t, incidents.hits, synth.incidentResults)
}

func TestExecuteAccumulatesRepeatedToolResults(t *testing.T) {
	docs := &fakeDocSearcher{hits: []tools.DocHit{{Filename: "a.md", Title: "A"}}}
	synth := &fakeSynthesizer{}

	plan := &dto.AgentPlan{
		Steps: []dto.PlanStep{
			{StepNumber: 1, Tool: toolPtr(dto.ToolSearchDocs), ToolInput: "first"},
			{StepNumber: 2, Tool: toolPtr(dto.ToolSearchDocs), ToolInput: "second"},
		},
	}

	_, calls := newTestExecutor(docs, &fakeIncidentSearcher{}, synth).Execute(context.Background(), "q", plan, nil)

	assert.Len(t, calls, 2)
	assert.Equal(t, []string{"first", "second"}, docs.queries)
	assert.Len(t, synth.docResults, 2)
}
