package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

type ToolCallRepository struct {
	mu    sync.Mutex
	calls []*entity.ToolCall
}

func NewToolCallRepository() *ToolCallRepository {
	return &ToolCallRepository{}
}

func (r *ToolCallRepository) CreateAll(ctx context.Context, calls []*entity.ToolCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range calls {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		cp := *c
		r.calls = append(r.calls, &cp)
	}
	return nil
}

func (r *ToolCallRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ToolCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.ToolCall
	for _, c := range r.calls {
		if matchesToolCall(c, specs) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CallOrder < out[j].CallOrder })
	return out, nil
}

func matchesToolCall(c *entity.ToolCall, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByRequestID); ok {
			if id, ok := s.RequestID.(uuid.UUID); ok && c.RequestId != id {
				return false
			}
		}
	}
	return true
}

var _ contract.ToolCallRepository = (*ToolCallRepository)(nil)
