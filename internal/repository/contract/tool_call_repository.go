package contract

import (
	"context"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/specification"
)

type ToolCallRepository interface {
	CreateAll(ctx context.Context, calls []*entity.ToolCall) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ToolCall, error)
}
