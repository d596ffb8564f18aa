package remote

import (
	"context"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/wire"
	"listkeeper/internal/repository"
)

// Lists implements repository.ListRepository.
type Lists struct {
	res resource[wire.List, entity.List]
}

var _ repository.ListRepository = (*Lists)(nil)

func (l *Lists) List(ctx context.Context) ([]*entity.List, error) {
	return l.res.list(ctx)
}

// ListByUser reads /usuarios/{id}/listas/.
func (l *Lists) ListByUser(ctx context.Context, userID int64) ([]*entity.List, error) {
	return l.res.listByUser(ctx, userID)
}

func (l *Lists) Get(ctx context.Context, id int64) (*entity.List, error) {
	return l.res.get(ctx, id)
}

func (l *Lists) Create(ctx context.Context, list *entity.List) (*entity.List, error) {
	rec := list.Clone()
	rec.ID = 0
	return l.res.create(ctx, rec)
}

func (l *Lists) Update(ctx context.Context, list *entity.List) (*entity.List, error) {
	return l.res.update(ctx, list.ID, list)
}

func (l *Lists) Patch(ctx context.Context, id int64, patch repository.ListPatch) (*entity.List, error) {
	return l.res.patch(ctx, id, wire.ListPatch{Nombre: patch.Name, FechaCreacion: patch.CreationDate})
}

func (l *Lists) Delete(ctx context.Context, id int64) error {
	return l.res.delete(ctx, id)
}
