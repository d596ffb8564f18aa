// Package wire defines the JSON shapes exchanged with the entity service.
// Field names follow the service; ID is omitted when zero so creates never send one.
package wire

import "listkeeper/internal/domain/entity"

type User struct {
	ID       int64  `json:"id,omitempty"`
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

type List struct {
	ID            int64  `json:"id,omitempty"`
	Nombre        string `json:"nombre"`
	FechaCreacion string `json:"fechacreacion"`
	Usuario       int64  `json:"usuario"`
}

type Article struct {
	ID        int64   `json:"id,omitempty"`
	Nombre    string  `json:"nombre"`
	Contenido string  `json:"contenido"`
	Listas    []int64 `json:"listas"`
}

// Patch shapes: nil means "leave untouched". They double as the decoding target
// on the service side, where a full update must set every field.

type UserPatch struct {
	Nombre   *string `json:"nombre,omitempty"`
	Password *string `json:"password,omitempty"`
}

type ListPatch struct {
	Nombre        *string `json:"nombre,omitempty"`
	FechaCreacion *string `json:"fechacreacion,omitempty"`
	Usuario       *int64  `json:"usuario,omitempty"`
}

type ArticlePatch struct {
	Nombre    *string  `json:"nombre,omitempty"`
	Contenido *string  `json:"contenido,omitempty"`
	Listas    *[]int64 `json:"listas,omitempty"`
}

func (u User) Entity() *entity.User {
	return &entity.User{ID: u.ID, Name: u.Nombre, Password: u.Password}
}

func FromUser(u *entity.User) User {
	return User{ID: u.ID, Nombre: u.Name, Password: u.Password}
}

func (l List) Entity() *entity.List {
	return &entity.List{ID: l.ID, Name: l.Nombre, CreationDate: l.FechaCreacion, OwnerUserID: l.Usuario}
}

func FromList(l *entity.List) List {
	return List{ID: l.ID, Nombre: l.Name, FechaCreacion: l.CreationDate, Usuario: l.OwnerUserID}
}

// Entity normalizes membership: null becomes empty, duplicates collapse.
func (a Article) Entity() *entity.Article {
	return &entity.Article{
		ID:      a.ID,
		Name:    a.Nombre,
		Content: a.Contenido,
		ListIDs: entity.NormalizeListIDs(a.Listas),
	}
}

// FromArticle never encodes membership as null.
func FromArticle(a *entity.Article) Article {
	return Article{
		ID:        a.ID,
		Nombre:    a.Name,
		Contenido: a.Content,
		Listas:    entity.NormalizeListIDs(a.ListIDs),
	}
}
