package mutation_test

import (
	"context"
	"slices"
	"sync"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/repository"
)

// memService is a minimal in-memory remote: lists and articles share state so
// deleting a list can drop membership the way the real service does.
type memService struct {
	mu       sync.Mutex
	lists    map[int64]*entity.List
	articles map[int64]*entity.Article
	nextList int64
	nextArt  int64

	calls int
	// errs forces an error for a given operation name, e.g. "lists.Delete".
	errs map[string]error
	// block makes the named operation wait until the channel is closed.
	block   map[string]chan struct{}
	entered chan string
	// mutated records the order of completed mutations and loads.
	log []string
}

func newMemService() *memService {
	return &memService{
		lists:    map[int64]*entity.List{},
		articles: map[int64]*entity.Article{},
		nextList: 10,
		nextArt:  7,
		errs:     map[string]error{},
		block:    map[string]chan struct{}{},
		entered:  make(chan string, 8),
	}
}

func (m *memService) enter(op string) error {
	m.mu.Lock()
	m.calls++
	ch := m.block[op]
	err := m.errs[op]
	m.mu.Unlock()

	select {
	case m.entered <- op:
	default:
	}
	if ch != nil {
		<-ch
	}
	return err
}

// drain discards the operations already reported on entered.
func (m *memService) drain() {
	for {
		select {
		case <-m.entered:
		default:
			return
		}
	}
}

func (m *memService) record(entry string) {
	m.mu.Lock()
	m.log = append(m.log, entry)
	m.mu.Unlock()
}

func (m *memService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memService) history() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.log...)
}

func (m *memService) setErr(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op] = err
}

func (m *memService) setBlock(op string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.block[op] = ch
	return ch
}

func sortedIDs[T any](in map[int64]*T) []int64 {
	ids := make([]int64, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

type memLists struct{ *memService }

func (l memLists) List(ctx context.Context) ([]*entity.List, error) {
	return l.ListByUser(ctx, 0)
}

func (l memLists) ListByUser(_ context.Context, userID int64) ([]*entity.List, error) {
	if err := l.enter("lists.ListByUser"); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []*entity.List{}
	for _, id := range sortedIDs(l.lists) {
		if userID == 0 || l.lists[id].OwnerUserID == userID {
			out = append(out, l.lists[id].Clone())
		}
	}
	return out, nil
}

func (l memLists) Get(_ context.Context, id int64) (*entity.List, error) {
	if err := l.enter("lists.Get"); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	got, ok := l.lists[id]
	if !ok {
		return nil, &entity.RemoteError{Method: "GET", StatusCode: 404, Body: `{"detail":"Not found."}`}
	}
	return got.Clone(), nil
}

func (l memLists) Create(_ context.Context, list *entity.List) (*entity.List, error) {
	if err := l.enter("lists.Create"); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := list.Clone()
	c.ID = l.nextList
	l.nextList++
	l.lists[c.ID] = c
	l.log = append(l.log, "lists.Create")
	return c.Clone(), nil
}

func (l memLists) Update(_ context.Context, list *entity.List) (*entity.List, error) {
	if err := l.enter("lists.Update"); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists[list.ID] = list.Clone()
	l.log = append(l.log, "lists.Update")
	return list.Clone(), nil
}

func (l memLists) Patch(context.Context, int64, repository.ListPatch) (*entity.List, error) {
	panic("not used")
}

func (l memLists) Delete(_ context.Context, id int64) error {
	if err := l.enter("lists.Delete"); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lists, id)
	for _, a := range l.articles {
		a.ListIDs = slices.DeleteFunc(a.ListIDs, func(v int64) bool { return v == id })
	}
	l.log = append(l.log, "lists.Delete")
	return nil
}

type memArticles struct{ *memService }

func (a memArticles) List(ctx context.Context) ([]*entity.Article, error) {
	return a.ListByUser(ctx, 0)
}

func (a memArticles) ListByUser(context.Context, int64) ([]*entity.Article, error) {
	if err := a.enter("articles.ListByUser"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []*entity.Article{}
	for _, id := range sortedIDs(a.articles) {
		out = append(out, a.articles[id].Clone())
	}
	return out, nil
}

func (a memArticles) Get(_ context.Context, id int64) (*entity.Article, error) {
	if err := a.enter("articles.Get"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	got, ok := a.articles[id]
	if !ok {
		return nil, &entity.RemoteError{Method: "GET", StatusCode: 404, Body: `{"detail":"Not found."}`}
	}
	return got.Clone(), nil
}

func (a memArticles) Create(_ context.Context, art *entity.Article) (*entity.Article, error) {
	if err := a.enter("articles.Create"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	c := art.Clone()
	c.ID = a.nextArt
	a.nextArt++
	a.articles[c.ID] = c
	a.log = append(a.log, "articles.Create")
	return c.Clone(), nil
}

func (a memArticles) Update(_ context.Context, art *entity.Article) (*entity.Article, error) {
	if err := a.enter("articles.Update"); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.articles[art.ID] = art.Clone()
	a.log = append(a.log, "articles.Update")
	return art.Clone(), nil
}

func (a memArticles) Patch(context.Context, int64, repository.ArticlePatch) (*entity.Article, error) {
	panic("not used")
}

func (a memArticles) Delete(_ context.Context, id int64) error {
	if err := a.enter("articles.Delete"); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.articles[id]; !ok {
		return &entity.RemoteError{Method: "DELETE", StatusCode: 404, Body: `{"detail":"Not found."}`}
	}
	delete(a.articles, id)
	a.log = append(a.log, "articles.Delete")
	return nil
}
