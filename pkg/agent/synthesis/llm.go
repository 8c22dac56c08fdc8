package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/pkg/llm"
	"lab-assistant-be/pkg/tools"
)

// failureReason enumerates the ways the LLM strategy can fail. Every one
// of them triggers fallback to the deterministic strategy at the call
// site; none of them ever reaches the request lifecycle.
type failureReason string

const (
	failureGeneration     failureReason = "generation"
	failureMalformedJSON  failureReason = "malformed_json"
	failureSchemaMismatch failureReason = "schema_mismatch"
)

// llmOutcome is the result type of one LLM synthesis attempt: either a
// parsed result or a typed failure, never both.
type llmOutcome struct {
	result  *dto.AgentResult
	failure failureReason
	detail  string
}

func (e *Engine) synthesizeLLM(ctx context.Context, text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) llmOutcome {
	prompt := buildSynthesisPrompt(text, docResults, incidentResults)

	raw, err := e.provider.Generate(ctx, prompt, llm.WithJSONResponse(), llm.WithModel(e.cfg.Model))
	if err != nil {
		return llmOutcome{failure: failureGeneration, detail: err.Error()}
	}

	var result dto.AgentResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil {
		return llmOutcome{failure: failureMalformedJSON, detail: err.Error()}
	}

	if result.Summary == "" {
		return llmOutcome{failure: failureSchemaMismatch, detail: "missing summary field"}
	}

	// The result invariants hold for every strategy.
	result.Steps = capStrings(result.Steps, maxSteps)
	if len(result.Steps) == 0 {
		result.Steps = []string{reviewSourcesStep}
	}
	result.Sources = dedupe(result.Sources)

	return llmOutcome{result: &result}
}

func buildSynthesisPrompt(text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) string {
	docsJSON, _ := json.MarshalIndent(docResults, "", "  ")
	incidentsJSON, _ := json.MarshalIndent(incidentResults, "", "  ")

	return fmt.Sprintf(`User question: %s

Documentation results:
%s

Incident results:
%s

Based on this information, provide:
1. A clear summary answering the user's question
2. Actionable steps they can take
3. List the sources (filenames and incident IDs) you used

Respond with JSON:
{
  "summary": "...",
  "steps": ["step1", "step2", ...],
  "sources": ["filename.md", "INC-XXX", ...]
}`, text, string(docsJSON), string(incidentsJSON))
}

// extractJSON isolates the JSON object from a response that may carry
// surrounding prose.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return response
	}
	return response[start : end+1]
}
