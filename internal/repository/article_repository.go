// Package repository defines the ports through which the core reaches the remote
// entity service. Each resource family (users, lists, articles) exposes the same
// uniform set of operations; implementations live under internal/infra.
package repository

import (
	"context"

	"listkeeper/internal/domain/entity"
)

// ArticlePatch carries a partial update. Nil fields are left untouched by the service.
type ArticlePatch struct {
	Name    *string
	Content *string
	ListIDs []int64
}

type ArticleRepository interface {
	// List returns every article known to the service.
	List(ctx context.Context) ([]*entity.Article, error)
	// ListByUser returns the articles belonging to userID, in service order.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Article, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// Create sends the record without its id and returns the stored record.
	Create(ctx context.Context, article *entity.Article) (*entity.Article, error)
	// Update replaces the full record.
	Update(ctx context.Context, article *entity.Article) (*entity.Article, error)
	Patch(ctx context.Context, id int64, patch ArticlePatch) (*entity.Article, error)
	Delete(ctx context.Context, id int64) error
}
