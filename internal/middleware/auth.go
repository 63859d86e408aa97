package middleware

import (
	"errors"
	"net/http"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/telemetry/metrics"
	"github.com/2beens/liftbook/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthCheck guards a route with a bearer token. The verified claims are put
// into the request context for the wrapped handler.
func AuthCheck(verifier tokenVerifier, metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, reason, message string, status int) {
		if metricsManager != nil {
			metricsManager.CounterAuthFailures.WithLabelValues(reason).Inc()
		}
		http.Error(w, message, status)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			token, ok := auth.BearerToken(r)
			if !ok {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-auth-token")
				reject(w, "missing", "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				span.RecordError(err)
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					span.SetStatus(codes.Error, "token-expired")
					reject(w, "expired", "Token expired", http.StatusUnauthorized)
				case errors.Is(err, auth.ErrTokenInvalid):
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "token-invalid")
					reject(w, "invalid", "Token invalid", http.StatusUnauthorized)
				default:
					log.Errorf("[failed token check] => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "token-check-err")
					reject(w, "error", "internal error", http.StatusInternalServerError)
				}
				return
			}

			if claims.Type == auth.TokenTypeRefresh {
				log.Tracef("[refresh token as bearer] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "refresh-token-as-bearer")
				reject(w, "wrong_type", "Token invalid", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(attribute.Int64("user.id", claims.UserID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(ctx, claims)))
		})
	}
}
