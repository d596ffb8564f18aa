package main

import (
	"listkeeper/internal/domain/entity"
	"listkeeper/internal/usecase/view"
)

// ListOutput represents a list in JSON output.
type ListOutput struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CreationDate string          `json:"creation_date"`
	ArticleCount int             `json:"article_count"`
	Preview      []ArticleOutput `json:"preview,omitempty"`
	Remaining    int             `json:"remaining,omitempty"`
	Articles     []ArticleOutput `json:"articles,omitempty"`
}

// ArticleOutput represents an article in JSON output.
type ArticleOutput struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Content string  `json:"content,omitempty"`
	ListIDs []int64 `json:"list_ids"`
}

func articlesJSON(in []*entity.Article) []ArticleOutput {
	out := make([]ArticleOutput, 0, len(in))
	for _, a := range in {
		out = append(out, ArticleOutput{ID: a.ID, Name: a.Name, Content: a.Content, ListIDs: a.ListIDs})
	}
	return out
}

func gridJSON(cards []view.ListCard) []ListOutput {
	out := make([]ListOutput, 0, len(cards))
	for _, c := range cards {
		out = append(out, ListOutput{
			ID:           c.List.ID,
			Name:         c.List.Name,
			CreationDate: c.List.CreationDate,
			ArticleCount: c.ArticleCount,
			Preview:      articlesJSON(c.Preview),
			Remaining:    c.Remaining,
		})
	}
	return out
}

func detailJSON(d view.ListDetail) ListOutput {
	return ListOutput{
		ID:           d.List.ID,
		Name:         d.List.Name,
		CreationDate: d.List.CreationDate,
		ArticleCount: len(d.Articles),
		Articles:     articlesJSON(d.Articles),
	}
}
