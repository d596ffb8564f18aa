// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as List, Article and User, along with
// their validation rules and domain-specific errors.
package entity

// Article represents an item that belongs to zero or more lists.
// Membership is expressed only through ListIDs; lists never store article ids.
type Article struct {
	ID      int64
	Name    string
	Content string
	// ListIDs has set semantics: no duplicates, kept in the order the service returned them.
	ListIDs []int64
}

// InList reports whether the article is a member of the given list.
func (a *Article) InList(listID int64) bool {
	for _, id := range a.ListIDs {
		if id == listID {
			return true
		}
	}
	return false
}

// Orphaned reports whether the article belongs to no list at all.
// Orphans are legal; they are simply visible in no list.
func (a *Article) Orphaned() bool {
	return len(a.ListIDs) == 0
}

// Clone returns a deep copy so callers can merge edits without touching a snapshot.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	out := *a
	out.ListIDs = append([]int64(nil), a.ListIDs...)
	return &out
}

// NormalizeListIDs removes duplicates while preserving first-seen order.
func NormalizeListIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
