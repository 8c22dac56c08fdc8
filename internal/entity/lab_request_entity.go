package entity

import (
	"time"

	"github.com/google/uuid"

	"lab-assistant-be/internal/dto"
)

type RequestStatus string

const (
	RequestStatusQueued  RequestStatus = "queued"
	RequestStatusRunning RequestStatus = "running"
	RequestStatusDone    RequestStatus = "done"
	RequestStatusFailed  RequestStatus = "failed"
)

type RequestPriority string

const (
	RequestPriorityNormal RequestPriority = "normal"
	RequestPriorityHigh   RequestPriority = "high"
)

// CanTransitionTo enforces the forward-only lifecycle:
// queued -> running -> done | failed. Terminal states accept nothing.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusQueued:
		return next == RequestStatusRunning
	case RequestStatusRunning:
		return next == RequestStatusDone || next == RequestStatusFailed
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions occur.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusDone || s == RequestStatusFailed
}

// LabRequest is a submitted support question and its processing state.
// Result and Error are write-once: exactly one of them is set when the
// request reaches a terminal state.
type LabRequest struct {
	Id        uuid.UUID
	Text      string
	Priority  RequestPriority
	Status    RequestStatus
	Result    *dto.AgentResult
	Error     *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
