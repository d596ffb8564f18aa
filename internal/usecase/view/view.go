// Package view derives what the front end shows from a snapshot.
// Projections are pure functions and are recomputed after every load.
package view

import (
	"fmt"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/usecase/snapshot"
)

// DefaultPreviewSize is how many articles a grid card shows.
const DefaultPreviewSize = 3

// ListCard is one list in the grid, with a preview of its first articles.
type ListCard struct {
	List         *entity.List
	ArticleCount int
	Preview      []*entity.Article
	// Remaining is how many member articles the preview leaves out.
	Remaining int
}

// ListDetail is a single list with all of its articles.
type ListDetail struct {
	List     *entity.List
	Articles []*entity.Article
}

// Grid returns one card per list in snapshot order.
// A non-positive previewSize selects DefaultPreviewSize.
func Grid(snap *snapshot.Snapshot, previewSize int) []ListCard {
	if previewSize <= 0 {
		previewSize = DefaultPreviewSize
	}
	cards := make([]ListCard, 0, len(snap.Lists))
	for _, l := range snap.Lists {
		members := snap.MembersOf(l.ID)
		n := min(previewSize, len(members))
		cards = append(cards, ListCard{
			List:         l,
			ArticleCount: len(members),
			Preview:      members[:n:n],
			Remaining:    len(members) - n,
		})
	}
	return cards
}

// Detail returns the list and its member articles.
// A list that is not in the snapshot, e.g. one just deleted, is entity.ErrNotFound.
func Detail(snap *snapshot.Snapshot, listID int64) (ListDetail, error) {
	l, ok := snap.List(listID)
	if !ok {
		return ListDetail{}, fmt.Errorf("list %d: %w", listID, entity.ErrNotFound)
	}
	return ListDetail{List: l, Articles: snap.MembersOf(listID)}, nil
}
