package auth

import (
	"context"
	"net/http"
	"strings"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

type Authenticator interface {
	Authenticate(r *http.Request) (domain.Actor, error)
}

// HeaderAuthenticator trusts the identity headers set by the gateway after it
// has verified the caller's token.
type HeaderAuthenticator struct{}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) (domain.Actor, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderActorID))
	role := domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole))))

	if id == "" || role == "" {
		return domain.Actor{}, apperrors.NewUnauthorizedError("missing actor identity")
	}
	if !role.Valid() {
		return domain.Actor{}, apperrors.NewUnauthorizedError("unknown actor role")
	}

	return domain.Actor{ID: id, Role: role}, nil
}

type actorKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
