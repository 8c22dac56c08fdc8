package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"lab-assistant-be/internal/entity"
	"lab-assistant-be/internal/repository/contract"
	"lab-assistant-be/internal/repository/specification"
)

// LabRequestRepository is an in-memory implementation backed by go-cache.
// Used by tests and local development without a database. The claim mutex
// stands in for the row-level compare-and-set the SQL implementation gets
// from the UPDATE ... WHERE status = 'queued' statement.
type LabRequestRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewLabRequestRepository() *LabRequestRepository {
	return &LabRequestRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *LabRequestRepository) Create(ctx context.Context, request *entity.LabRequest) error {
	if request.Id == uuid.Nil {
		request.Id = uuid.New()
	}
	cp := *request
	r.cache.Set(request.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *LabRequestRepository) Update(ctx context.Context, request *entity.LabRequest) error {
	cp := *request
	r.cache.Set(request.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *LabRequestRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *LabRequestRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error) {
	var out []*entity.LabRequest
	for _, item := range r.cache.Items() {
		req := item.Object.(*entity.LabRequest)
		if matchesRequest(req, specs) {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *LabRequestRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *LabRequestRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id.String())
	if !found {
		return false, nil
	}
	req := x.(*entity.LabRequest)
	if req.Status != entity.RequestStatusQueued {
		return false, nil
	}
	req.Status = entity.RequestStatusRunning
	r.cache.Set(id.String(), req, cache.NoExpiration)
	return true, nil
}

// matchesRequest interprets the subset of specifications the memory
// implementation understands. Unknown specifications are ignored.
func matchesRequest(req *entity.LabRequest, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if req.Id != s.ID {
				return false
			}
		case specification.ByStatus:
			if req.Status != s.Status {
				return false
			}
		}
	}
	return true
}

var _ contract.LabRequestRepository = (*LabRequestRepository)(nil)
