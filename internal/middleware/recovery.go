package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"inkwell/internal/httputil"
)

// Recovery converts panics in downstream handlers into plain 500 responses
// so one bad request cannot take the process down. The panic value and
// stack are logged server-side only.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("request panicked",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
