// Package fakeapi is an in-memory implementation of the REST entity service.
// It backs local development and integration tests and enforces the same
// relationship rules the real service does: deleting a list drops it from
// every article's membership, and articles are never deleted with a list.
package fakeapi

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"listkeeper/internal/domain/entity"
)

// ErrInvalidReference is returned when a record points at a user or list that does not exist.
var ErrInvalidReference = errors.New("invalid reference")

// Store holds every collection behind one mutex. Ids are assigned in arrival order.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*entity.User
	lists    map[int64]*entity.List
	articles map[int64]*entity.Article
	// articleOwner records the user an article belongs to, taken from the owner of
	// its first list at creation. It survives membership changes so orphans stay visible.
	articleOwner map[int64]int64

	nextUser    int64
	nextList    int64
	nextArticle int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*entity.User),
		lists:        make(map[int64]*entity.List),
		articles:     make(map[int64]*entity.Article),
		articleOwner: make(map[int64]int64),
		nextUser:     1,
		nextList:     1,
		nextArticle:  1,
	}
}

func sortedValues[T any](m map[int64]*T, clone func(*T) *T, keep func(id int64, v *T) bool) []*T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(id, v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m[id]))
	}
	return out
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

// ---------- users ----------

func (s *Store) Users() []*entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.users, cloneUser, nil)
}

func (s *Store) User(id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) CreateUser(u entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUser
	s.nextUser++
	s.users[u.ID] = &u
	return cloneUser(&u)
}

func (s *Store) ReplaceUser(u entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return nil, entity.ErrNotFound
	}
	s.users[u.ID] = &u
	return cloneUser(&u), nil
}

// DeleteUser removes the user and the lists they own, as a relational
// cascade would. Their articles lose those memberships but remain.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.users, id)
	for listID, l := range s.lists {
		if l.OwnerUserID == id {
			s.deleteListLocked(listID)
		}
	}
	return nil
}

// ---------- lists ----------

func (s *Store) Lists() []*entity.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.lists, (*entity.List).Clone, nil)
}

func (s *Store) ListsByUser(userID int64) ([]*entity.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[userID]; !ok {
		return nil, entity.ErrNotFound
	}
	return sortedValues(s.lists, (*entity.List).Clone, func(_ int64, l *entity.List) bool {
		return l.OwnerUserID == userID
	}), nil
}

func (s *Store) List(id int64) (*entity.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return l.Clone(), nil
}

func (s *Store) CreateList(l entity.List) (*entity.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[l.OwnerUserID]; !ok {
		return nil, fmt.Errorf("usuario %d: %w", l.OwnerUserID, ErrInvalidReference)
	}
	l.ID = s.nextList
	s.nextList++
	s.lists[l.ID] = &l
	return l.Clone(), nil
}

func (s *Store) ReplaceList(l entity.List) (*entity.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[l.ID]; !ok {
		return nil, entity.ErrNotFound
	}
	if _, ok := s.users[l.OwnerUserID]; !ok {
		return nil, fmt.Errorf("usuario %d: %w", l.OwnerUserID, ErrInvalidReference)
	}
	s.lists[l.ID] = &l
	return l.Clone(), nil
}

// DeleteList removes the list and drops its id from every article.
func (s *Store) DeleteList(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[id]; !ok {
		return entity.ErrNotFound
	}
	s.deleteListLocked(id)
	return nil
}

func (s *Store) deleteListLocked(id int64) {
	delete(s.lists, id)
	for _, a := range s.articles {
		a.ListIDs = slices.DeleteFunc(a.ListIDs, func(listID int64) bool { return listID == id })
	}
}

// ---------- articles ----------

func (s *Store) Articles() []*entity.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.articles, (*entity.Article).Clone, nil)
}

// ArticlesByUser returns the user's articles, orphans included.
func (s *Store) ArticlesByUser(userID int64) ([]*entity.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.users[userID]; !ok {
		return nil, entity.ErrNotFound
	}
	return sortedValues(s.articles, (*entity.Article).Clone, func(id int64, _ *entity.Article) bool {
		return s.articleOwner[id] == userID
	}), nil
}

func (s *Store) Article(id int64) (*entity.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *Store) CreateArticle(a entity.Article) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ListIDs = entity.NormalizeListIDs(a.ListIDs)
	if err := s.checkListsLocked(a.ListIDs); err != nil {
		return nil, err
	}
	a.ID = s.nextArticle
	s.nextArticle++
	s.articles[a.ID] = &a
	if len(a.ListIDs) > 0 {
		s.articleOwner[a.ID] = s.lists[a.ListIDs[0]].OwnerUserID
	}
	return a.Clone(), nil
}

func (s *Store) ReplaceArticle(a entity.Article) (*entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[a.ID]; !ok {
		return nil, entity.ErrNotFound
	}
	a.ListIDs = entity.NormalizeListIDs(a.ListIDs)
	if err := s.checkListsLocked(a.ListIDs); err != nil {
		return nil, err
	}
	s.articles[a.ID] = &a
	if _, owned := s.articleOwner[a.ID]; !owned && len(a.ListIDs) > 0 {
		s.articleOwner[a.ID] = s.lists[a.ListIDs[0]].OwnerUserID
	}
	return a.Clone(), nil
}

func (s *Store) DeleteArticle(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.articles, id)
	delete(s.articleOwner, id)
	return nil
}

func (s *Store) checkListsLocked(ids []int64) error {
	for _, id := range ids {
		if _, ok := s.lists[id]; !ok {
			return fmt.Errorf("lista %d: %w", id, ErrInvalidReference)
		}
	}
	return nil
}
