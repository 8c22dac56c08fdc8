package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRequestRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=10000"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal high"`
}

type CreateRequestResponse struct {
	RequestId uuid.UUID `json:"request_id"`
	Status    string    `json:"status"`
}

// RequestStatusResponse is what clients poll until the request is terminal.
// Result is populated iff status is "done", Error iff status is "failed".
type RequestStatusResponse struct {
	RequestId uuid.UUID    `json:"request_id"`
	Status    string       `json:"status"`
	Result    *AgentResult `json:"result"`
	Error     *string      `json:"error"`
}

type GetToolCallsResponse struct {
	RequestId uuid.UUID  `json:"request_id"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// PublishRequestMessage is the queue payload between intake and worker.
type PublishRequestMessage struct {
	RequestId uuid.UUID `json:"request_id"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
