package mutation

import (
	"fmt"
	"sync"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/observability/metrics"
)

// Kind names an entity family for in-flight tracking.
type Kind string

const (
	KindList    Kind = "list"
	KindArticle Kind = "article"
)

// Key identifies one entity.
type Key struct {
	Kind Kind
	ID   int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Tracker is the set of entities with an outstanding edit or delete.
// It is advisory and local to this process: a second client can still race the service.
type Tracker struct {
	mu   sync.Mutex
	busy map[Key]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{busy: make(map[Key]struct{})}
}

// Acquire marks k busy. It fails with entity.ErrAlreadyInFlight instead of waiting.
// The returned release func is idempotent.
func (t *Tracker) Acquire(k Key) (release func(), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, held := t.busy[k]; held {
		metrics.RecordInflightRejection(string(k.Kind))
		return nil, fmt.Errorf("%s: %w", k, entity.ErrAlreadyInFlight)
	}
	t.busy[k] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.busy, k)
			t.mu.Unlock()
		})
	}, nil
}
