package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/pkg/logger"
	"lab-assistant-be/internal/repository/specification"
	"lab-assistant-be/internal/repository/unitofwork"
	"lab-assistant-be/pkg/agent/planner"
	"lab-assistant-be/pkg/events"
	pktNats "lab-assistant-be/pkg/nats"
)

// errNotSettled marks outcomes the store did not absorb: the request is
// not parked in a terminal state, so the message is nacked and redelivered
// instead of stranding the row as running.
var errNotSettled = errors.New("request state not settled")

// PlanExecutor runs a plan against the tools and synthesizes the result.
type PlanExecutor interface {
	Execute(ctx context.Context, text string, plan *dto.AgentPlan, uow unitofwork.UnitOfWork) (*dto.AgentResult, []dto.ToolCall)
}

type IWorkerService interface {
	Run(ctx context.Context) error
	ProcessRequest(ctx context.Context, id uuid.UUID) error
}

// workerService drives the request lifecycle: it claims queued requests
// off the queue one at a time and moves each to exactly one terminal
// state. A single request's failure never stops the loop.
type workerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	planner        planner.Planner
	executor       PlanExecutor
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewWorkerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	plannerService planner.Planner,
	executor PlanExecutor,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IWorkerService {
	return &workerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		planner:        plannerService,
		executor:       executor,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (ws *workerService) Run(ctx context.Context) error {
	// The in-process queue is empty after a restart; rows still queued in
	// the store lost their message, so put them back on the topic.
	if err := ws.requeuePending(ctx); err != nil {
		ws.log.Warn("worker", "Failed to requeue pending requests", map[string]interface{}{"error": err.Error()})
	}

	messages, err := ws.pubSub.Subscribe(ctx, ws.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ws.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ws *workerService) requeuePending(ctx context.Context) error {
	uow := ws.uowFactory.NewUnitOfWork(ctx)
	pending, err := uow.LabRequestRepository().FindAll(ctx,
		specification.ByStatus{Status: entity.RequestStatusQueued},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return err
	}
	for _, req := range pending {
		payload, err := json.Marshal(dto.PublishRequestMessage{RequestId: req.Id})
		if err != nil {
			continue
		}
		msg := message.NewMessage(req.Id.String(), payload)
		if err := ws.pubSub.Publish(ws.topicName, msg); err != nil {
			return err
		}
		ws.log.Info("worker", "Requeued pending request", map[string]interface{}{"request_id": req.Id})
	}
	return nil
}

func (ws *workerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		// Malformed payloads stay malformed; redelivery cannot help.
		ws.log.Error("worker", "Failed to unmarshal queue message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	err := ws.ProcessRequest(ctx, payload.RequestId)
	if err != nil {
		ws.log.Error("worker", "Request processing failed", map[string]interface{}{
			"request_id": payload.RequestId,
			"error":      err.Error(),
		})
	}
	if errors.Is(err, errNotSettled) {
		// The row never reached a terminal state; redeliver so the
		// write is retried rather than leaving the request running.
		msg.Nack()
		return
	}
	msg.Ack()
}

// ProcessRequest executes one request end to end: claim, plan, execute,
// finalize. The unit of work is scoped to this call on every exit path.
func (ws *workerService) ProcessRequest(ctx context.Context, id uuid.UUID) error {
	uow := ws.uowFactory.NewUnitOfWork(ctx)

	claimed, err := uow.LabRequestRepository().Claim(ctx, id)
	if err != nil {
		return fmt.Errorf("claiming request %s: %v: %w", id, err, errNotSettled)
	}

	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		if !claimed {
			return fmt.Errorf("loading request %s: %v: %w", id, err, errNotSettled)
		}
		return ws.markFailed(ctx, id, fmt.Sprintf("loading request: %v", err))
	}
	if request == nil {
		if claimed {
			return fmt.Errorf("request %s vanished after claim", id)
		}
		ws.log.Info("worker", "Request not found, skipping", map[string]interface{}{"request_id": id})
		return nil
	}
	if !claimed {
		if request.Status != entity.RequestStatusRunning {
			// Terminal row: a redelivered message for finished work.
			ws.log.Info("worker", "Request not claimable, skipping", map[string]interface{}{"request_id": id})
			return nil
		}
		// Running without winning the claim: an earlier delivery of this
		// message claimed the row but could not settle a terminal state.
		// Each request's message reaches one handler at a time, so the
		// row has no live owner; resume it.
		ws.log.Warn("worker", "Resuming request left running by an earlier delivery", map[string]interface{}{"request_id": id})
	}

	ws.log.Info("worker", "Processing request", map[string]interface{}{
		"request_id": id,
		"priority":   string(request.Priority),
	})

	plan, err := ws.planner.BuildPlan(ctx, request.Text)
	if err != nil {
		return ws.markFailed(ctx, id, fmt.Sprintf("planning failed: %v", err))
	}

	result, toolCalls := ws.executor.Execute(ctx, request.Text, plan, uow)

	if err := ws.finalize(ctx, request, result, toolCalls); err != nil {
		return ws.markFailed(ctx, id, fmt.Sprintf("persisting result: %v", err))
	}

	ws.publishEvent(ctx, events.TypeRequestCompleted, map[string]interface{}{
		"request_id": id,
		"tool_calls": len(toolCalls),
	})
	return nil
}

// finalize writes the tool-call audit trail and the terminal done state
// in one transaction, so a half-written trail never accompanies a done
// request.
func (ws *workerService) finalize(ctx context.Context, request *entity.LabRequest, result *dto.AgentResult, toolCalls []dto.ToolCall) error {
	uow := ws.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	callEntities := make([]*entity.ToolCall, len(toolCalls))
	for i, call := range toolCalls {
		callEntities[i] = &entity.ToolCall{
			Id:        uuid.New(),
			RequestId: request.Id,
			Tool:      call.Tool,
			Input:     call.Input,
			Output:    call.Output,
			CallOrder: i + 1,
			InvokedAt: call.Timestamp,
		}
	}
	if err := uow.ToolCallRepository().CreateAll(ctx, callEntities); err != nil {
		return err
	}

	request.Status = entity.RequestStatusDone
	request.Result = result
	request.Error = nil
	if err := uow.LabRequestRepository().Update(ctx, request); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// markFailed parks the request in the failed terminal state. It returns
// the original failure so the caller can log it; the worker loop itself
// never dies over one request.
func (ws *workerService) markFailed(ctx context.Context, id uuid.UUID, reason string) error {
	uow := ws.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return fmt.Errorf("request %s failed (%s), and could not be reloaded: %v: %w", id, reason, err, errNotSettled)
	}
	if request == nil {
		return fmt.Errorf("request %s failed (%s), and no longer exists", id, reason)
	}
	if !request.Status.CanTransitionTo(entity.RequestStatusFailed) {
		return fmt.Errorf("request %s failed (%s), but is already %s", id, reason, request.Status)
	}

	request.Status = entity.RequestStatusFailed
	request.Error = &reason
	request.Result = nil
	if err := uow.LabRequestRepository().Update(ctx, request); err != nil {
		return fmt.Errorf("request %s failed (%s), and the failed state could not be persisted: %v: %w", id, reason, err, errNotSettled)
	}

	ws.publishEvent(ctx, events.TypeRequestFailed, map[string]interface{}{
		"request_id": id,
		"reason":     reason,
	})
	return fmt.Errorf("request %s failed: %s", id, reason)
}

func (ws *workerService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if ws.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := ws.eventPublisher.Publish(ctx, evt); err != nil {
		ws.log.Warn("worker", "Failed to publish lifecycle event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
