package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/respond"
)

// Middleware intercepts panics from downstream handlers, logs details, and
// returns HTTP 500. The stack trace is included in the response body only
// when exposeStack is true (non-production).
func Middleware(exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					log.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("remote", r.RemoteAddr).
						Bytes("stack", stack).
						Msg("panic recovered")

					body := respond.ErrorBody{
						Message: fmt.Sprintf("%v", rec),
						Status:  http.StatusInternalServerError,
					}
					if exposeStack {
						body.Stack = string(stack)
					}
					respond.WriteJSON(w, http.StatusInternalServerError, respond.ErrorResponse{Error: body})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
