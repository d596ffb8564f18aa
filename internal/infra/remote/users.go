package remote

import (
	"context"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/wire"
	"listkeeper/internal/repository"
)

// Users implements repository.UserRepository.
type Users struct {
	res resource[wire.User, entity.User]
}

var _ repository.UserRepository = (*Users)(nil)

func (u *Users) List(ctx context.Context) ([]*entity.User, error) {
	return u.res.list(ctx)
}

func (u *Users) Get(ctx context.Context, id int64) (*entity.User, error) {
	return u.res.get(ctx, id)
}

func (u *Users) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	rec := *user
	rec.ID = 0
	return u.res.create(ctx, &rec)
}

func (u *Users) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	return u.res.update(ctx, user.ID, user)
}

func (u *Users) Patch(ctx context.Context, id int64, patch repository.UserPatch) (*entity.User, error) {
	return u.res.patch(ctx, id, wire.UserPatch{Nombre: patch.Name, Password: patch.Password})
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	return u.res.delete(ctx, id)
}
