package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/model"
)

type ToolCallMapper struct{}

func NewToolCallMapper() *ToolCallMapper {
	return &ToolCallMapper{}
}

func (m *ToolCallMapper) ToEntity(c *model.ToolCall) *entity.ToolCall {
	if c == nil {
		return nil
	}

	var output any
	if len(c.Output) > 0 {
		// Best effort: the output column holds whatever the tool returned.
		_ = json.Unmarshal(c.Output, &output)
	}

	return &entity.ToolCall{
		Id:        c.Id,
		RequestId: c.RequestId,
		Tool:      c.Tool,
		Input:     c.Input,
		Output:    output,
		CallOrder: c.CallOrder,
		InvokedAt: c.InvokedAt,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ToolCallMapper) ToModel(c *entity.ToolCall) *model.ToolCall {
	if c == nil {
		return nil
	}

	var output datatypes.JSON
	if c.Output != nil {
		if raw, err := json.Marshal(c.Output); err == nil {
			output = datatypes.JSON(raw)
		}
	}

	return &model.ToolCall{
		Id:        c.Id,
		RequestId: c.RequestId,
		Tool:      c.Tool,
		Input:     c.Input,
		Output:    output,
		CallOrder: c.CallOrder,
		InvokedAt: c.InvokedAt,
		CreatedAt: c.CreatedAt,
	}
}
