package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
)

// AppHandler is an http handler that reports failures by returning an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc. A returned *HTTPError
// is answered with its code and message; any other error becomes a 500 with a
// generic message. The underlying cause is logged, not sent.
func MakeHandler(logger logging.Logger, handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		ctx := r.Context()
		var httpErr *HTTPError
		var statusCode int
		var publicMessage string

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message

			args := []any{"code", statusCode, "msg", publicMessage, "path", r.URL.Path, "method", r.Method}
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				args = append(args, "cause", cause)
			}
			if statusCode >= http.StatusInternalServerError {
				logger.Error(ctx, "Server error response", args...)
			} else {
				logger.Warn(ctx, "Client error response", args...)
			}

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			logger.Error(ctx, "Unhandled internal error", "path", r.URL.Path, "method", r.Method, "error", err)
		}

		RespondWithMessage(w, statusCode, publicMessage)
	}
}
