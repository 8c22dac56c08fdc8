package synthesis

import (
	"context"
	"log"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/pkg/llm"
	"lab-assistant-be/pkg/tools"
)

// Config selects the synthesis strategy. It is passed in explicitly so
// the engine never reads the process environment.
type Config struct {
	UseLLM bool
	APIKey string
	Model  string
}

// Engine turns raw tool outputs into a structured result. The LLM
// strategy is opt-in and always degrades to the deterministic one; a
// caller never sees a synthesis failure.
type Engine struct {
	cfg      Config
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewEngine(cfg Config, provider llm.LLMProvider, logger *log.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
	}
}

// Synthesize produces the final result for a request from everything the
// plan execution collected.
func (e *Engine) Synthesize(ctx context.Context, text string, docResults []tools.DocHit, incidentResults []tools.IncidentHit) *dto.AgentResult {
	if !e.cfg.UseLLM {
		return SynthesizeDeterministic(text, docResults, incidentResults)
	}

	if e.cfg.APIKey == "" || e.provider == nil {
		e.logger.Printf("[SYNTHESIS] LLM API key not configured, falling back to deterministic synthesis")
		return SynthesizeDeterministic(text, docResults, incidentResults)
	}

	outcome := e.synthesizeLLM(ctx, text, docResults, incidentResults)
	if outcome.failure != "" {
		e.logger.Printf("[SYNTHESIS] LLM synthesis failed (%s): %s, falling back to deterministic", outcome.failure, outcome.detail)
		return SynthesizeDeterministic(text, docResults, incidentResults)
	}
	return outcome.result
}
