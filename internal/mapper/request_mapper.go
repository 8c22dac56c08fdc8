package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/model"
)

type RequestMapper struct{}

func NewRequestMapper() *RequestMapper {
	return &RequestMapper{}
}

func (m *RequestMapper) LabRequestToEntity(r *model.LabRequest) *entity.LabRequest {
	if r == nil {
		return nil
	}

	var result *dto.AgentResult
	if len(r.Result) > 0 {
		var res dto.AgentResult
		if err := json.Unmarshal(r.Result, &res); err == nil {
			result = &res
		}
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.LabRequest{
		Id:        r.Id,
		Text:      r.Text,
		Priority:  entity.RequestPriority(r.Priority),
		Status:    entity.RequestStatus(r.Status),
		Result:    result,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *RequestMapper) LabRequestToModel(r *entity.LabRequest) *model.LabRequest {
	if r == nil {
		return nil
	}

	var result datatypes.JSON
	if r.Result != nil {
		if raw, err := json.Marshal(r.Result); err == nil {
			result = datatypes.JSON(raw)
		}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.LabRequest{
		Id:        r.Id,
		Text:      r.Text,
		Priority:  string(r.Priority),
		Status:    string(r.Status),
		Result:    result,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
