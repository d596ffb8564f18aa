package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/sync/singleflight"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/repository"
)

// DirectoryVerifier checks credentials against the service's user collection.
// The service exposes passwords through that collection, so this is only as
// safe as the transport; prefer a server-side verifier when one exists.
type DirectoryVerifier struct {
	users repository.UserRepository
	group singleflight.Group
}

var _ CredentialVerifier = (*DirectoryVerifier)(nil)

func NewDirectoryVerifier(users repository.UserRepository) *DirectoryVerifier {
	return &DirectoryVerifier{users: users}
}

// Verify fetches the users, indexes them by name and compares the password in
// constant time. Names are matched exactly; several users may share one.
// Concurrent checks share one directory fetch.
func (v *DirectoryVerifier) Verify(ctx context.Context, creds Credentials) (*entity.User, error) {
	users, err := v.directory(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]*entity.User, len(users))
	for _, u := range users {
		if u != nil {
			byName[u.Name] = append(byName[u.Name], u)
		}
	}

	for _, u := range byName[creds.Name] {
		if subtle.ConstantTimeCompare([]byte(creds.Password), []byte(u.Password)) == 1 {
			// callers never need the password back
			return &entity.User{ID: u.ID, Name: u.Name}, nil
		}
	}
	return nil, nil
}

// directory runs the shared fetch detached from ctx so one caller giving up
// does not fail the others.
func (v *DirectoryVerifier) directory(ctx context.Context) ([]*entity.User, error) {
	ch := v.group.DoChan("users", func() (any, error) {
		return v.users.List(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("fetch users: %w: %w", entity.ErrServiceUnavailable, res.Err)
		}
		return res.Val.([]*entity.User), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch users: %w", ctx.Err())
	}
}

func (v *DirectoryVerifier) Name() string {
	return "directory"
}
