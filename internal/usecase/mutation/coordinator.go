// Package mutation applies list and article changes to the remote service.
//
// Every successful change is followed by a full snapshot reload; nothing is
// patched locally. Edits and deletes mark their entity busy for the whole
// operation, and a second edit or delete of the same entity is rejected with
// entity.ErrAlreadyInFlight rather than queued.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/observability/metrics"
	"listkeeper/internal/observability/tracing"
	"listkeeper/internal/repository"
	"listkeeper/internal/usecase/snapshot"
)

// Reloader refreshes the snapshot after a change and serves the current one.
type Reloader interface {
	Load(ctx context.Context, session entity.Session) (*snapshot.Snapshot, error)
	Snapshot() *snapshot.Snapshot
}

// ArticleDraft is the input for CreateArticle. ListIDs[0] is the list the
// article was created from.
type ArticleDraft struct {
	Name    string
	Content string
	ListIDs []int64
}

// Coordinator runs mutations one remote call at a time, in the caller's goroutine.
// It performs no retries and sets no timeouts of its own; ctx governs both.
type Coordinator struct {
	lists     repository.ListRepository
	articles  repository.ArticleRepository
	snapshots Reloader
	tracker   *Tracker
	logger    *slog.Logger
}

func NewCoordinator(lists repository.ListRepository, articles repository.ArticleRepository, snapshots Reloader, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		lists:     lists,
		articles:  articles,
		snapshots: snapshots,
		tracker:   NewTracker(),
		logger:    logger,
	}
}

// CreateList creates a list owned by the session user, dated today.
func (c *Coordinator) CreateList(ctx context.Context, s entity.Session, name string, today time.Time) (_ *entity.List, err error) {
	ctx, finish := c.begin(ctx, "create_list", s)
	defer func() { finish(err) }()

	if !s.Authorized() {
		return nil, entity.ErrUnauthorized
	}
	name, err = entity.NormalizeName("name", name, entity.MaxListNameLength)
	if err != nil {
		return nil, err
	}

	created, err := c.lists.Create(ctx, &entity.List{
		Name:         name,
		CreationDate: entity.FormatDate(today),
		OwnerUserID:  s.UserID,
	})
	if err != nil {
		return nil, remoteFailure("create list", err)
	}
	return created, c.reload(ctx, s)
}

// RenameList fetches the list fresh, changes its name and sends the full record back.
func (c *Coordinator) RenameList(ctx context.Context, s entity.Session, listID int64, newName string) (_ *entity.List, err error) {
	ctx, finish := c.begin(ctx, "rename_list", s, attribute.Int64("list.id", listID))
	defer func() { finish(err) }()

	if !s.Authorized() {
		return nil, entity.ErrUnauthorized
	}
	if err = entity.ValidateID("listId", listID); err != nil {
		return nil, err
	}
	newName, err = entity.NormalizeName("name", newName, entity.MaxListNameLength)
	if err != nil {
		return nil, err
	}

	release, err := c.tracker.Acquire(Key{Kind: KindList, ID: listID})
	if err != nil {
		return nil, err
	}
	defer release()

	base, err := c.lists.Get(ctx, listID)
	if err != nil {
		return nil, remoteFailure("fetch list", err)
	}
	if base.OwnerUserID != s.UserID {
		return nil, fmt.Errorf("list %d: %w", listID, entity.ErrNotFound)
	}
	next := base.Clone()
	next.Name = newName

	updated, err := c.lists.Update(ctx, next)
	if err != nil {
		return nil, remoteFailure("rename list", err)
	}
	return updated, c.reload(ctx, s)
}

// DeleteList deletes a list. The caller is responsible for confirmation.
// Member articles are not deleted; the service drops the membership and the
// reload reflects it.
func (c *Coordinator) DeleteList(ctx context.Context, s entity.Session, listID int64) (err error) {
	ctx, finish := c.begin(ctx, "delete_list", s, attribute.Int64("list.id", listID))
	defer func() { finish(err) }()

	if !s.Authorized() {
		return entity.ErrUnauthorized
	}
	if err = entity.ValidateID("listId", listID); err != nil {
		return err
	}

	release, err := c.tracker.Acquire(Key{Kind: KindList, ID: listID})
	if err != nil {
		return err
	}
	defer release()

	if err = c.lists.Delete(ctx, listID); err != nil {
		return remoteFailure("delete list", err)
	}
	return c.reload(ctx, s)
}

// CreateArticle creates an article in every list of the draft.
// List ids are not checked against the snapshot; the service is the arbiter.
func (c *Coordinator) CreateArticle(ctx context.Context, s entity.Session, draft ArticleDraft) (_ *entity.Article, err error) {
	ctx, finish := c.begin(ctx, "create_article", s)
	defer func() { finish(err) }()

	if !s.Authorized() {
		return nil, entity.ErrUnauthorized
	}
	name, err := entity.NormalizeName("name", draft.Name, entity.MaxArticleNameLength)
	if err != nil {
		return nil, err
	}
	content, err := entity.NormalizeContent("content", draft.Content, entity.MaxArticleContentLength)
	if err != nil {
		return nil, err
	}
	listIDs, err := entity.ValidateMembership(draft.ListIDs)
	if err != nil {
		return nil, err
	}

	created, err := c.articles.Create(ctx, &entity.Article{Name: name, Content: content, ListIDs: listIDs})
	if err != nil {
		return nil, remoteFailure("create article", err)
	}
	return created, c.reload(ctx, s)
}

// RenameArticle replaces an article's name and content, keeping its membership.
// The base record is fetched fresh so membership changes made elsewhere are not overwritten.
// Only articles in the session user's current snapshot can be renamed; any other
// id is reported as not found without contacting the service.
func (c *Coordinator) RenameArticle(ctx context.Context, s entity.Session, articleID int64, newName, newContent string) (_ *entity.Article, err error) {
	ctx, finish := c.begin(ctx, "rename_article", s, attribute.Int64("article.id", articleID))
	defer func() { finish(err) }()

	if !s.Authorized() {
		return nil, entity.ErrUnauthorized
	}
	if err = entity.ValidateID("articleId", articleID); err != nil {
		return nil, err
	}
	newName, err = entity.NormalizeName("name", newName, entity.MaxArticleNameLength)
	if err != nil {
		return nil, err
	}
	newContent, err = entity.NormalizeContent("content", newContent, entity.MaxArticleContentLength)
	if err != nil {
		return nil, err
	}
	snap := c.snapshots.Snapshot()
	if _, ok := snap.Article(articleID); !ok || snap.UserID != s.UserID {
		return nil, fmt.Errorf("article %d: %w", articleID, entity.ErrNotFound)
	}

	release, err := c.tracker.Acquire(Key{Kind: KindArticle, ID: articleID})
	if err != nil {
		return nil, err
	}
	defer release()

	base, err := c.articles.Get(ctx, articleID)
	if err != nil {
		return nil, remoteFailure("fetch article", err)
	}
	next := base.Clone()
	next.Name = newName
	next.Content = newContent

	updated, err := c.articles.Update(ctx, next)
	if err != nil {
		return nil, remoteFailure("rename article", err)
	}
	return updated, c.reload(ctx, s)
}

// DeleteArticle deletes an article, which removes it from every list.
func (c *Coordinator) DeleteArticle(ctx context.Context, s entity.Session, articleID int64) (err error) {
	ctx, finish := c.begin(ctx, "delete_article", s, attribute.Int64("article.id", articleID))
	defer func() { finish(err) }()

	if !s.Authorized() {
		return entity.ErrUnauthorized
	}
	if err = entity.ValidateID("articleId", articleID); err != nil {
		return err
	}

	release, err := c.tracker.Acquire(Key{Kind: KindArticle, ID: articleID})
	if err != nil {
		return err
	}
	defer release()

	if err = c.articles.Delete(ctx, articleID); err != nil {
		return remoteFailure("delete article", err)
	}
	return c.reload(ctx, s)
}

// reload runs strictly after the remote change has completed.
func (c *Coordinator) reload(ctx context.Context, s entity.Session) error {
	if _, err := c.snapshots.Load(ctx, s); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrStaleSnapshot, err)
	}
	return nil
}

func remoteFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, entity.ErrRemoteOperationFailed, err)
}

// begin opens the operation span; finish records outcome metrics and logs.
func (c *Coordinator) begin(ctx context.Context, op string, s entity.Session, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracing.Tracer().Start(ctx, "mutation."+op)
	span.SetAttributes(append(attrs, attribute.Int64("user.id", s.UserID))...)
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		outcome := Classify(err)
		metrics.RecordMutation(op, string(outcome))
		span.SetAttributes(attribute.String("mutation.outcome", string(outcome)))

		logAttrs := []any{
			slog.String("operation", op),
			slog.String("outcome", string(outcome)),
			slog.Int64("user_id", s.UserID),
			slog.Duration("duration", time.Since(start)),
		}
		switch outcome {
		case OutcomeOK:
			c.logger.Info("mutation applied", logAttrs...)
		case OutcomeValidationFailed, OutcomeAlreadyInFlight:
			c.logger.Debug("mutation refused", append(logAttrs, slog.Any("error", err))...)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Warn("mutation failed", append(logAttrs, slog.Any("error", err))...)
		}
	}
}
