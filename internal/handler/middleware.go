package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/tomasen/realip"

	"tuitionbook/internal/ctxstore"
	"tuitionbook/internal/token"
)

const (
	_identityKey = ctxstore.Key("identity")
	_traceIDKey  = ctxstore.Key("traceId")
)

// IdentityFrom returns the authenticated caller stored by RequireAuth.
func IdentityFrom(r *http.Request) (token.Identity, bool) {
	return ctxstore.From[token.Identity](r.Context(), _identityKey)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func RequireAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authz, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := ctxstore.With(r.Context(), _identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceID attaches a fresh trace id to every request.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := uuid.New().String()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccessLog writes one structured log line per request.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			tid := ctxstore.MustFrom[string](r.Context(), _traceIDKey)
			logger.Info("access",
				slog.Group("request",
					"method", r.Method,
					"url", r.URL.String(),
					"ip", realip.FromRequest(r),
					_traceIDKey.String(), tid,
				),
				slog.Group("response", "status", sw.status, "size", sw.bytes),
			)
		})
	}
}

// CORS allows all origins; the API is bearer-token gated, not cookie gated.
func CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
