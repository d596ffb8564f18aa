// Package snapshot holds the client-side cache of one user's lists and articles.
//
// The cache is a read-only Snapshot replaced wholesale on every successful
// load. Readers see either the previous snapshot or the new one, never a mix,
// and a failed load leaves the previous snapshot in place.
package snapshot

import (
	"time"

	"listkeeper/internal/domain/entity"
)

// Snapshot is an immutable view of the remote service for one user.
// Callers must not modify the records it returns; Clone them first.
type Snapshot struct {
	UserID   int64
	Lists    []*entity.List
	Articles []*entity.Article
	LoadedAt time.Time
}

var empty = &Snapshot{Lists: []*entity.List{}, Articles: []*entity.Article{}}

// Empty reports whether the snapshot was never loaded or has been cleared.
func (s *Snapshot) Empty() bool {
	return s.LoadedAt.IsZero()
}

// List returns the list with the given id.
func (s *Snapshot) List(id int64) (*entity.List, bool) {
	for _, l := range s.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Article returns the article with the given id.
func (s *Snapshot) Article(id int64) (*entity.Article, bool) {
	for _, a := range s.Articles {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// MembersOf returns the articles whose membership contains listID, in service order.
// Membership lives only on articles, so this is a linear filter. If it ever
// shows up in profiles, build a list-to-articles index here at load time.
func (s *Snapshot) MembersOf(listID int64) []*entity.Article {
	out := make([]*entity.Article, 0)
	for _, a := range s.Articles {
		if a.InList(listID) {
			out = append(out, a)
		}
	}
	return out
}

// Orphans returns the articles that belong to no list.
func (s *Snapshot) Orphans() []*entity.Article {
	out := make([]*entity.Article, 0)
	for _, a := range s.Articles {
		if a.Orphaned() {
			out = append(out, a)
		}
	}
	return out
}
