package dto

import "time"

// Tool names the planner is allowed to reference in a step.
const (
	ToolSearchDocs     = "search_docs"
	ToolQueryIncidents = "query_incidents"
)

// PlanStep is a single step in the agent's execution plan.
// A nil Tool marks a synthesis step that performs no tool invocation.
type PlanStep struct {
	StepNumber int     `json:"step_number"`
	Action     string  `json:"action"`
	Tool       *string `json:"tool"`
	ToolInput  string  `json:"tool_input"`
}

// AgentPlan is the ordered execution plan produced by the planner.
// Immutable once produced; the declared step order is authoritative.
type AgentPlan struct {
	Reasoning string     `json:"reasoning"`
	Steps     []PlanStep `json:"steps"`
}

// AgentResult is the synthesized answer for a request.
type AgentResult struct {
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
	Sources []string `json:"sources"`
}

// ToolCall is an audit record of one tool invocation.
type ToolCall struct {
	Tool      string    `json:"tool"`
	Input     string    `json:"input"`
	Output    any       `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}
