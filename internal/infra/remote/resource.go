package remote

import (
	"context"
	"fmt"
	"net/http"

	"listkeeper/internal/domain/entity"
)

// resource implements the uniform operation set shared by every collection.
// D is the wire shape, E the entity.
type resource[D any, E any] struct {
	c    *Client
	name string
	from func(D) *E
	to   func(*E) D
}

func newResource[D any, E any](c *Client, name string, from func(D) *E, to func(*E) D) resource[D, E] {
	return resource[D, E]{c: c, name: name, from: from, to: to}
}

func (r resource[D, E]) collectionPath() string {
	return "/" + r.name + "/"
}

func (r resource[D, E]) itemPath(id int64) string {
	return fmt.Sprintf("/%s/%d/", r.name, id)
}

func (r resource[D, E]) listAt(ctx context.Context, path string) ([]*E, error) {
	var dtos []D
	if _, err := r.c.do(ctx, r.name, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]*E, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, r.from(d))
	}
	return out, nil
}

func (r resource[D, E]) list(ctx context.Context) ([]*E, error) {
	return r.listAt(ctx, r.collectionPath())
}

// listByUser reads /usuarios/{id}/<name>/.
func (r resource[D, E]) listByUser(ctx context.Context, userID int64) ([]*E, error) {
	if err := entity.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	return r.listAt(ctx, fmt.Sprintf("/usuarios/%d/%s/", userID, r.name))
}

func (r resource[D, E]) get(ctx context.Context, id int64) (*E, error) {
	if err := entity.ValidateID("id", id); err != nil {
		return nil, err
	}
	var d D
	decoded, err := r.c.do(ctx, r.name, http.MethodGet, r.itemPath(id), nil, &d)
	if err != nil {
		return nil, err
	}
	if !decoded {
		return nil, fmt.Errorf("get %s %d: empty response body", r.name, id)
	}
	return r.from(d), nil
}

// create POSTs the record; the caller has already zeroed the id.
// A service that answers without a body gets the submitted record back.
func (r resource[D, E]) create(ctx context.Context, e *E) (*E, error) {
	var d D
	decoded, err := r.c.do(ctx, r.name, http.MethodPost, r.collectionPath(), r.to(e), &d)
	if err != nil {
		return nil, err
	}
	if !decoded {
		return r.from(r.to(e)), nil
	}
	return r.from(d), nil
}

func (r resource[D, E]) update(ctx context.Context, id int64, e *E) (*E, error) {
	if err := entity.ValidateID("id", id); err != nil {
		return nil, err
	}
	var d D
	decoded, err := r.c.do(ctx, r.name, http.MethodPut, r.itemPath(id), r.to(e), &d)
	if err != nil {
		return nil, err
	}
	if !decoded {
		return r.from(r.to(e)), nil
	}
	return r.from(d), nil
}

func (r resource[D, E]) patch(ctx context.Context, id int64, body any) (*E, error) {
	if err := entity.ValidateID("id", id); err != nil {
		return nil, err
	}
	var d D
	decoded, err := r.c.do(ctx, r.name, http.MethodPatch, r.itemPath(id), body, &d)
	if err != nil {
		return nil, err
	}
	if !decoded {
		return nil, fmt.Errorf("patch %s %d: empty response body", r.name, id)
	}
	return r.from(d), nil
}

// delete treats both 204 and 200 as success.
func (r resource[D, E]) delete(ctx context.Context, id int64) error {
	if err := entity.ValidateID("id", id); err != nil {
		return err
	}
	_, err := r.c.do(ctx, r.name, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}
