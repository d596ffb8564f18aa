package repository

import (
	"context"

	"listkeeper/internal/domain/entity"
)

// ListPatch carries a partial update. Nil fields are left untouched by the service.
type ListPatch struct {
	Name         *string
	CreationDate *string
}

type ListRepository interface {
	List(ctx context.Context) ([]*entity.List, error)
	// ListByUser returns the lists owned by userID, in service order.
	ListByUser(ctx context.Context, userID int64) ([]*entity.List, error)
	Get(ctx context.Context, id int64) (*entity.List, error)
	Create(ctx context.Context, list *entity.List) (*entity.List, error)
	Update(ctx context.Context, list *entity.List) (*entity.List, error)
	Patch(ctx context.Context, id int64, patch ListPatch) (*entity.List, error)
	// Delete removes the list. Articles are not deleted; the service drops the
	// membership from every article that referenced it.
	Delete(ctx context.Context, id int64) error
}
