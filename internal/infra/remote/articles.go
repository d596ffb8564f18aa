package remote

import (
	"context"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/wire"
	"listkeeper/internal/repository"
)

// Articles implements repository.ArticleRepository.
type Articles struct {
	res resource[wire.Article, entity.Article]
}

var _ repository.ArticleRepository = (*Articles)(nil)

func (a *Articles) List(ctx context.Context) ([]*entity.Article, error) {
	return a.res.list(ctx)
}

// ListByUser reads /usuarios/{id}/articulos/.
func (a *Articles) ListByUser(ctx context.Context, userID int64) ([]*entity.Article, error) {
	return a.res.listByUser(ctx, userID)
}

func (a *Articles) Get(ctx context.Context, id int64) (*entity.Article, error) {
	return a.res.get(ctx, id)
}

func (a *Articles) Create(ctx context.Context, article *entity.Article) (*entity.Article, error) {
	rec := article.Clone()
	rec.ID = 0
	return a.res.create(ctx, rec)
}

func (a *Articles) Update(ctx context.Context, article *entity.Article) (*entity.Article, error) {
	return a.res.update(ctx, article.ID, article)
}

// Patch sends only the fields that are set. A non-nil empty ListIDs clears membership.
func (a *Articles) Patch(ctx context.Context, id int64, patch repository.ArticlePatch) (*entity.Article, error) {
	body := wire.ArticlePatch{Nombre: patch.Name, Contenido: patch.Content}
	if patch.ListIDs != nil {
		ids := entity.NormalizeListIDs(patch.ListIDs)
		body.Listas = &ids
	}
	return a.res.patch(ctx, id, body)
}

func (a *Articles) Delete(ctx context.Context, id int64) error {
	return a.res.delete(ctx, id)
}
