package entity

import (
	"time"

	"github.com/google/uuid"
)

// ToolCall is the persisted audit record of one tool invocation made
// while executing a request's plan. Append-only, owned by the request.
type ToolCall struct {
	Id        uuid.UUID
	RequestId uuid.UUID
	Tool      string
	Input     string
	Output    any
	CallOrder int
	InvokedAt time.Time
	CreatedAt time.Time
}
