// Package auth decides whether a name/password pair identifies a user of the
// remote service. Credential checking sits behind CredentialVerifier so the
// directory scan can be swapped for a dedicated verification endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"listkeeper/internal/domain/entity"
)

// Credentials represents authentication credentials.
type Credentials struct {
	Name     string
	Password string
}

// CredentialVerifier checks credentials.
// A mismatch is reported as (nil, nil); an error means the check could not be made.
type CredentialVerifier interface {
	Verify(ctx context.Context, creds Credentials) (*entity.User, error)

	// Name returns the name of this verifier.
	Name() string
}

// Result is the outcome of Authenticate.
type Result struct {
	Authorized bool
	User       *entity.User
}

// Session converts an authorized result into a session value.
func (r Result) Session() entity.Session {
	if !r.Authorized || r.User == nil {
		return entity.Session{}
	}
	return entity.Session{Authenticated: true, UserID: r.User.ID, UserName: r.User.Name}
}

// Gate handles authentication for the client.
type Gate struct {
	verifier CredentialVerifier
	logger   *slog.Logger
}

// NewGate creates a gate backed by verifier.
func NewGate(verifier CredentialVerifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{verifier: verifier, logger: logger}
}

// Authenticate checks name and password. Wrong credentials are not an error:
// they yield Result{Authorized: false}. A failure to reach the verifier wraps
// entity.ErrServiceUnavailable.
func (g *Gate) Authenticate(ctx context.Context, name, password string) (Result, error) {
	if name == "" || password == "" {
		return Result{}, nil
	}

	user, err := g.verifier.Verify(ctx, Credentials{Name: name, Password: password})
	if err != nil {
		g.logger.Warn("credential check failed",
			slog.String("verifier", g.verifier.Name()),
			slog.Any("error", err))
		if errors.Is(err, entity.ErrServiceUnavailable) {
			return Result{}, fmt.Errorf("authenticate: %w", err)
		}
		return Result{}, fmt.Errorf("authenticate: %w: %w", entity.ErrServiceUnavailable, err)
	}
	if user == nil {
		g.logger.Info("authentication rejected", slog.String("user_name", name))
		return Result{}, nil
	}

	g.logger.Info("authentication succeeded",
		slog.Int64("user_id", user.ID),
		slog.String("user_name", user.Name))
	return Result{Authorized: true, User: user}, nil
}

// Verifier returns the current credential verifier.
func (g *Gate) Verifier() CredentialVerifier {
	return g.verifier
}
