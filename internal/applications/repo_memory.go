package applications

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Application // userId -> applications
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Application),
	}
}

// Create stores an application for a user.
func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.UserID] = append(r.data[app.UserID], app)
	return nil
}

// GetByID returns an application by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, applicationID string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	apps := r.data[userID]
	for i := range apps {
		if apps[i].ID == applicationID {
			return apps[i], nil
		}
	}
	return Application{}, ErrNotFound
}

// ListByUser returns applications for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Same defaults as the Postgres repo so callers see one contract.
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	userApps := r.data[userID]
	r.mu.RUnlock()

	if len(userApps) == 0 || offset >= len(userApps) {
		return []Application{}, nil
	}

	// Copy and sort newest-first by CreatedAt.
	apps := make([]Application, len(userApps))
	copy(apps, userApps)
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	end := len(apps)
	if offset+limit < end {
		end = offset + limit
	}

	return apps[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
