package repository

import (
	"context"

	"listkeeper/internal/domain/entity"
)

// UserPatch carries a partial update. Nil fields are left untouched by the service.
type UserPatch struct {
	Name     *string
	Password *string
}

type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	Get(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	Patch(ctx context.Context, id int64, patch UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
}
