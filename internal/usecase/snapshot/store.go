package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/observability/metrics"
	"listkeeper/internal/observability/tracing"
	"listkeeper/internal/repository"
)

// Store loads snapshots from the remote service and serves the current one.
// It is safe for concurrent use.
type Store struct {
	lists    repository.ListRepository
	articles repository.ArticleRepository
	logger   *slog.Logger
	now      func() time.Time

	current atomic.Pointer[Snapshot]

	flightMu sync.Mutex
	queues   map[int64]*queue

	// installMu orders installs against Clear; epoch changes on every Clear so a
	// load that started before a logout cannot bring the old user's data back.
	// seq numbers fetches as they start; only a newer fetch may replace the
	// installed snapshot.
	installMu sync.Mutex
	epoch     uint64
	seq       uint64
	installed uint64
}

// flight is one fetch and the callers waiting on it.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
	done    chan struct{}
	snap    *Snapshot
	err     error
}

// queue serializes the fetches of one user. A caller never joins the running
// fetch, since it may have started before the caller's last write landed;
// it joins the one queued behind it instead.
type queue struct {
	running *flight
	next    *flight
}

// NewStore creates a store with an empty snapshot.
func NewStore(lists repository.ListRepository, articles repository.ArticleRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		lists:    lists,
		articles: articles,
		logger:   logger,
		now:      time.Now,
		queues:   make(map[int64]*queue),
	}
	s.current.Store(empty)
	return s
}

// Load fetches the session user's lists and articles and replaces the snapshot
// when both succeed. The fetch always starts after Load was called, so a load
// issued after a write observes that write. Loads requested while a fetch for
// the same user is running share the single fetch queued behind it.
//
// On failure the previous snapshot is kept and the error wraps
// entity.ErrServiceUnavailable together with the remote error. If the store is
// cleared while the fetch runs, nothing is installed and the error wraps
// entity.ErrUnauthorized. Cancelling ctx abandons the wait; the fetch itself is
// cancelled once no caller is left waiting on it.
func (s *Store) Load(ctx context.Context, session entity.Session) (*Snapshot, error) {
	if !session.Authorized() {
		return nil, entity.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	f, shared := s.join(ctx, session.UserID)
	if shared {
		s.logger.Debug("snapshot load shared", slog.Int64("user_id", session.UserID))
	}

	select {
	case <-f.done:
		return f.snap, f.err
	case <-ctx.Done():
		s.leave(f)
		return nil, fmt.Errorf("load snapshot: %w", ctx.Err())
	}
}

func (s *Store) newFlight(ctx context.Context) *flight {
	// keep request-scoped values but not the caller's cancellation
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &flight{ctx: fctx, cancel: cancel, done: make(chan struct{})}
}

func (s *Store) join(ctx context.Context, userID int64) (*flight, bool) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()

	q := s.queues[userID]
	if q == nil {
		q = &queue{}
		s.queues[userID] = q
	}
	if q.running == nil {
		f := s.newFlight(ctx)
		f.waiters = 1
		q.running = f
		go s.run(userID, q, f)
		return f, false
	}
	// a queued fetch abandoned by all its callers is not reused
	if q.next == nil || q.next.ctx.Err() != nil {
		q.next = s.newFlight(ctx)
	}
	q.next.waiters++
	return q.next, q.next.waiters > 1
}

func (s *Store) leave(f *flight) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	f.waiters--
	if f.waiters == 0 {
		f.cancel()
	}
}

// run performs f and then whatever was queued behind it.
func (s *Store) run(userID int64, q *queue, f *flight) {
	for f != nil {
		if err := f.ctx.Err(); err != nil {
			f.err = fmt.Errorf("load snapshot: %w", err)
		} else {
			f.snap, f.err = s.load(f.ctx, userID)
		}
		f.cancel()
		close(f.done)

		s.flightMu.Lock()
		f, q.next = q.next, nil
		q.running = f
		if f == nil {
			delete(s.queues, userID)
		}
		s.flightMu.Unlock()
	}
}

func (s *Store) load(ctx context.Context, userID int64) (*Snapshot, error) {
	ctx, span := tracing.Tracer().Start(ctx, "snapshot.Load")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	s.installMu.Lock()
	epoch := s.epoch
	s.seq++
	seq := s.seq
	s.installMu.Unlock()

	start := time.Now()
	var (
		lists    []*entity.List
		articles []*entity.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lists, err = s.lists.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch lists: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		articles, err = s.articles.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch articles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordSnapshotLoad(false, time.Since(start), 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("snapshot load failed, keeping previous snapshot",
			slog.Int64("user_id", userID),
			slog.Any("error", err))
		return nil, fmt.Errorf("load snapshot: %w: %w", entity.ErrServiceUnavailable, err)
	}

	snap := &Snapshot{
		UserID:   userID,
		Lists:    s.ownLists(userID, lists),
		Articles: normalizeArticles(articles),
		LoadedAt: s.now(),
	}

	s.installMu.Lock()
	cleared := s.epoch != epoch
	superseded := !cleared && seq < s.installed
	if !cleared && !superseded {
		s.installed = seq
		s.current.Store(snap)
	}
	newer := s.current.Load()
	s.installMu.Unlock()

	if cleared {
		s.logger.Info("snapshot discarded, store was cleared during load", slog.Int64("user_id", userID))
		return nil, fmt.Errorf("load snapshot: session changed during load: %w", entity.ErrUnauthorized)
	}
	if superseded {
		s.logger.Debug("snapshot superseded by a newer load", slog.Int64("user_id", userID))
		return newer, nil
	}

	metrics.RecordSnapshotLoad(true, time.Since(start), len(snap.Lists), len(snap.Articles))
	span.SetAttributes(
		attribute.Int("snapshot.lists", len(snap.Lists)),
		attribute.Int("snapshot.articles", len(snap.Articles)),
	)
	s.logger.Debug("snapshot loaded",
		slog.Int64("user_id", userID),
		slog.Int("lists", len(snap.Lists)),
		slog.Int("articles", len(snap.Articles)),
		slog.Duration("duration", time.Since(start)))
	return snap, nil
}

// ownLists drops lists that belong to someone else. The service should never
// return them, but the cache must not mix users.
func (s *Store) ownLists(userID int64, lists []*entity.List) []*entity.List {
	out := make([]*entity.List, 0, len(lists))
	for _, l := range lists {
		if l == nil {
			continue
		}
		if l.OwnerUserID != userID {
			s.logger.Warn("dropping list owned by another user",
				slog.Int64("list_id", l.ID),
				slog.Int64("owner_user_id", l.OwnerUserID),
				slog.Int64("user_id", userID))
			continue
		}
		out = append(out, l)
	}
	return out
}

func normalizeArticles(articles []*entity.Article) []*entity.Article {
	out := make([]*entity.Article, 0, len(articles))
	for _, a := range articles {
		if a == nil {
			continue
		}
		a.ListIDs = entity.NormalizeListIDs(a.ListIDs)
		out = append(out, a)
	}
	return out
}

// Snapshot returns the current snapshot. It is never nil.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// List looks up a list in the current snapshot.
func (s *Store) List(id int64) (*entity.List, error) {
	l, ok := s.Snapshot().List(id)
	if !ok {
		return nil, fmt.Errorf("list %d: %w", id, entity.ErrNotFound)
	}
	return l, nil
}

// Article looks up an article in the current snapshot.
func (s *Store) Article(id int64) (*entity.Article, error) {
	a, ok := s.Snapshot().Article(id)
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, entity.ErrNotFound)
	}
	return a, nil
}

// MembersOf returns the current snapshot's articles in listID.
func (s *Store) MembersOf(listID int64) []*entity.Article {
	return s.Snapshot().MembersOf(listID)
}

// Clear discards the snapshot. Loads already in flight will not install theirs.
func (s *Store) Clear() {
	s.installMu.Lock()
	s.epoch++
	s.current.Store(empty)
	s.installMu.Unlock()
	metrics.ResetSnapshotSize()
}
