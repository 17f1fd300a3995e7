package auth

import (
	"net/http"

	"go.uber.org/zap"

	"supplyhub/internal/commons"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/logger"
)

// Authenticate resolves the actor once per request and stores it in the context.
func Authenticate(authn Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authn.Authenticate(r)
			if err != nil {
				commons.WriteError(w, r, err, log)
				return
			}

			ctx := WithActor(r.Context(), actor)
			reqLog := logger.FromContext(ctx, log).With(zap.String("actorId", actor.ID), zap.String("role", string(actor.Role)))
			ctx = logger.WithContext(ctx, reqLog)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require rejects requests whose actor lacks the capability.
func Require(c Capability, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				commons.WriteError(w, r, apperrors.NewUnauthorizedError("missing actor identity"), log)
				return
			}
			if err := Authorize(actor, c); err != nil {
				commons.WriteError(w, r, err, log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
