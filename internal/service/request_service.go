package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/specification"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/pkg/events"
	pktNats "lab-assistant-be/pkg/nats"
)

type IRequestService interface {
	Create(ctx context.Context, req *dto.CreateRequestRequest) (*dto.CreateRequestResponse, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*dto.RequestStatusResponse, error)
	GetToolCalls(ctx context.Context, id uuid.UUID) (*dto.GetToolCallsResponse, error)
}

type requestService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewRequestService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IRequestService {
	return &requestService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// Create persists a queued request and hands it to the worker queue.
// Input validation has already happened at the transport boundary.
func (s *requestService) Create(ctx context.Context, req *dto.CreateRequestRequest) (*dto.CreateRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	priority := entity.RequestPriority(req.Priority)
	if priority == "" {
		priority = entity.RequestPriorityNormal
	}

	request := entity.LabRequest{
		Id:        uuid.New(),
		Text:      req.Text,
		Priority:  priority,
		Status:    entity.RequestStatusQueued,
		CreatedAt: time.Now(),
	}

	if err := uow.LabRequestRepository().Create(ctx, &request); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishRequestMessage{RequestId: request.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	// Events are auxiliary; a lost one never fails the request.
	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeRequestCreated,
			Data: map[string]interface{}{
				"request_id": request.Id,
				"priority":   string(request.Priority),
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return &dto.CreateRequestResponse{
		RequestId: request.Id,
		Status:    string(request.Status),
	}, nil
}

// GetStatus returns the polling view of a request: result iff done,
// error iff failed. Returns nil when the id is unknown.
func (s *requestService) GetStatus(ctx context.Context, id uuid.UUID) (*dto.RequestStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	resp := &dto.RequestStatusResponse{
		RequestId: request.Id,
		Status:    string(request.Status),
	}
	switch request.Status {
	case entity.RequestStatusDone:
		resp.Result = request.Result
	case entity.RequestStatusFailed:
		resp.Error = request.Error
	}
	return resp, nil
}

func (s *requestService) GetToolCalls(ctx context.Context, id uuid.UUID) (*dto.GetToolCallsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	calls, err := uow.ToolCallRepository().FindAll(ctx,
		specification.ByRequestID{RequestID: id},
		specification.OrderBy{Field: "call_order"},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetToolCallsResponse{
		RequestId: id,
		ToolCalls: make([]dto.ToolCall, len(calls)),
	}
	for i, c := range calls {
		resp.ToolCalls[i] = dto.ToolCall{
			Tool:      c.Tool,
			Input:     c.Input,
			Output:    c.Output,
			Timestamp: c.InvokedAt,
		}
	}
	return resp, nil
}
