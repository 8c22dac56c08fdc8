package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"lab-assistant-be/internal/dto"
	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/memory"
	"lab-assistant-be/internal/repository/specification"
	"lab-assistant-be/internal/repository/unitofwork"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakePlanner struct {
	plan *dto.AgentPlan
	err  error
}

func (f *fakePlanner) BuildPlan(ctx context.Context, text string) (*dto.AgentPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.plan != nil {
		return f.plan, nil
	}
	tool := dto.ToolSearchDocs
	return &dto.AgentPlan{
		Reasoning: "test plan",
		Steps: []dto.PlanStep{
			{StepNumber: 1, Tool: &tool, ToolInput: text},
		},
	}, nil
}

type fakeExecutor struct {
	result    *dto.AgentResult
	toolCalls []dto.ToolCall
}

func (f *fakeExecutor) Execute(ctx context.Context, text string, plan *dto.AgentPlan, uow unitofwork.UnitOfWork) (*dto.AgentResult, []dto.ToolCall) {
	return f.result, f.toolCalls
}

func newWorkerFixture(t *testing.T, factory unitofwork.RepositoryFactory, plannerSvc *fakePlanner, exec *fakeExecutor) *workerService {
	t.Helper()
	return &workerService{
		topicName:  "PROCESS_LAB_REQUEST",
		uowFactory: factory,
		planner:    plannerSvc,
		executor:   exec,
		log:        nopLogger{},
	}
}

func seedQueuedRequest(t *testing.T, factory unitofwork.RepositoryFactory, text string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	request := entity.LabRequest{
		Id:       uuid.New(),
		Text:     text,
		Priority: entity.RequestPriorityNormal,
		Status:   entity.RequestStatusQueued,
	}
	uow := factory.NewUnitOfWork(ctx)
	assert.NoError(t, uow.LabRequestRepository().Create(ctx, &request))
	return request.Id
}

func TestProcessRequestHappyPath(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, factory, "db timeouts")

	exec := &fakeExecutor{
		result: &dto.AgentResult{Summary: "answer", Steps: []string{"step"}, Sources: []string{"db.md"}},
		toolCalls: []dto.ToolCall{
			{Tool: dto.ToolSearchDocs, Input: "db timeouts", Output: []string{"hit"}},
			{Tool: dto.ToolQueryIncidents, Input: "db timeouts", Output: []string{}},
		},
	}
	ws := newWorkerFixture(t, factory, &fakePlanner{}, exec)

	assert.NoError(t, ws.ProcessRequest(ctx, id))

	uow := factory.NewUnitOfWork(ctx)
	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusDone, request.Status)
	assert.Equal(t, "answer", request.Result.Summary)
	assert.Nil(t, request.Error)

	calls, err := uow.ToolCallRepository().FindAll(ctx, specification.ByRequestID{RequestID: id})
	assert.NoError(t, err)
	assert.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0].CallOrder)
	assert.Equal(t, 2, calls[1].CallOrder)
	assert.Equal(t, dto.ToolSearchDocs, calls[0].Tool)
}

func TestProcessRequestClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, factory, "q")

	exec := &fakeExecutor{result: &dto.AgentResult{Summary: "s"}}
	ws := newWorkerFixture(t, factory, &fakePlanner{}, exec)

	assert.NoError(t, ws.ProcessRequest(ctx, id))

	// A second delivery of the same message finds the row terminal and
	// must be a no-op, not a reprocess.
	assert.NoError(t, ws.ProcessRequest(ctx, id))

	uow := factory.NewUnitOfWork(ctx)
	calls, err := uow.ToolCallRepository().FindAll(ctx, specification.ByRequestID{RequestID: id})
	assert.NoError(t, err)
	assert.Len(t, calls, 1, "reprocessing must not duplicate the audit trail")
}

func TestProcessRequestUnknownIdSkips(t *testing.T) {
	factory := memory.NewRepositoryFactory()
	ws := newWorkerFixture(t, factory, &fakePlanner{}, &fakeExecutor{})

	assert.NoError(t, ws.ProcessRequest(context.Background(), uuid.New()))
}

func TestProcessRequestPlannerFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, factory, "q")

	ws := newWorkerFixture(t, factory, &fakePlanner{err: errors.New("planner exploded")}, &fakeExecutor{})

	err := ws.ProcessRequest(ctx, id)
	assert.Error(t, err)

	uow := factory.NewUnitOfWork(ctx)
	request, findErr := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, findErr)
	assert.Equal(t, entity.RequestStatusFailed, request.Status)
	assert.NotNil(t, request.Error)
	assert.Contains(t, *request.Error, "planning failed")
	assert.Nil(t, request.Result)
}

// flakyRequestRepository fails a fixed number of Update calls before
// delegating, standing in for a store that rejects the terminal write.
type flakyRequestRepository struct {
	contract.LabRequestRepository
	updateFailures int
}

func (r *flakyRequestRepository) Update(ctx context.Context, request *entity.LabRequest) error {
	if r.updateFailures > 0 {
		r.updateFailures--
		return errors.New("store unavailable")
	}
	return r.LabRequestRepository.Update(ctx, request)
}

type flakyUnitOfWork struct {
	unitofwork.UnitOfWork
	requests *flakyRequestRepository
}

func (u *flakyUnitOfWork) LabRequestRepository() contract.LabRequestRepository {
	return u.requests
}

type flakyFactory struct {
	inner    unitofwork.RepositoryFactory
	requests *flakyRequestRepository
}

func (f *flakyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &flakyUnitOfWork{UnitOfWork: f.inner.NewUnitOfWork(ctx), requests: f.requests}
}

func newFlakyFactory(ctx context.Context, mem *memory.RepositoryFactory, updateFailures int) *flakyFactory {
	requests := &flakyRequestRepository{
		LabRequestRepository: mem.NewUnitOfWork(ctx).LabRequestRepository(),
		updateFailures:       updateFailures,
	}
	return &flakyFactory{inner: mem, requests: requests}
}

func TestProcessRequestRedeliveryRetriesTerminalWrite(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, mem, "q")

	factory := newFlakyFactory(ctx, mem, 1)
	ws := newWorkerFixture(t, factory, &fakePlanner{err: errors.New("planner exploded")}, &fakeExecutor{})

	// The failed state cannot be written: the caller must learn the row
	// never settled so the message is redelivered.
	err := ws.ProcessRequest(ctx, id)
	assert.ErrorIs(t, err, errNotSettled)

	uow := mem.NewUnitOfWork(ctx)
	request, findErr := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, findErr)
	assert.Equal(t, entity.RequestStatusRunning, request.Status)

	// Redelivery resumes the running row and lands the terminal write.
	err = ws.ProcessRequest(ctx, id)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errNotSettled)

	request, findErr = uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, findErr)
	assert.Equal(t, entity.RequestStatusFailed, request.Status)
	assert.Contains(t, *request.Error, "planning failed")
}

func TestProcessMessageNacksUnsettledRequests(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, mem, "q")

	factory := newFlakyFactory(ctx, mem, 1)
	ws := newWorkerFixture(t, factory, &fakePlanner{err: errors.New("planner exploded")}, &fakeExecutor{})

	payload, err := json.Marshal(dto.PublishRequestMessage{RequestId: id})
	assert.NoError(t, err)
	msg := message.NewMessage(id.String(), payload)

	ws.processMessage(ctx, msg)

	select {
	case <-msg.Nacked():
	case <-msg.Acked():
		t.Fatal("unsettled request must be nacked, not acked")
	case <-time.After(time.Second):
		t.Fatal("message was neither acked nor nacked")
	}
}

func TestProcessRequestResumesRunningRow(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory()

	// A row left running by a delivery that could not settle it.
	id := uuid.New()
	uow := factory.NewUnitOfWork(ctx)
	assert.NoError(t, uow.LabRequestRepository().Create(ctx, &entity.LabRequest{
		Id:       id,
		Text:     "left running",
		Priority: entity.RequestPriorityNormal,
		Status:   entity.RequestStatusRunning,
	}))

	exec := &fakeExecutor{result: &dto.AgentResult{Summary: "recovered"}}
	ws := newWorkerFixture(t, factory, &fakePlanner{}, exec)

	assert.NoError(t, ws.ProcessRequest(ctx, id))

	request, err := factory.NewUnitOfWork(ctx).LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusDone, request.Status)
	assert.Equal(t, "recovered", request.Result.Summary)
}

func TestProcessRequestFailedIsTerminal(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewRepositoryFactory()
	id := seedQueuedRequest(t, factory, "q")

	ws := newWorkerFixture(t, factory, &fakePlanner{err: errors.New("boom")}, &fakeExecutor{})
	assert.Error(t, ws.ProcessRequest(ctx, id))

	// The row is failed now; nothing claims or rewrites it.
	assert.NoError(t, ws.ProcessRequest(ctx, id))

	uow := factory.NewUnitOfWork(ctx)
	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusFailed, request.Status)
}
