package applications

import "context"

// Repo defines persistence operations for applications.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, userID, applicationID string) (Application, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Application, error)
}
