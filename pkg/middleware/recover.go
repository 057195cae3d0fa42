package middleware

import (
	"net/http"

	"venue-bot/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 response. http.ErrAbortHandler
// is re-raised so the server can drop the connection.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "recover"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				traceID, _ := utils.GetTraceID(r.Context())
				logger.Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("trace_id", traceID),
					zap.String("route", routePattern(r)),
					zap.Stack("stack"),
				)
				utils.ResponseInternalError(w, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
