package handlers

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"
)

// LoggingMiddleware logs uri, method, status, size and duration of every request.
func (con *Controller) LoggingMiddleware(h http.Handler) http.Handler {
	logFn := func(res http.ResponseWriter, req *http.Request) {
		start := time.Now()

		responseData := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{
			ResponseWriter: res,
			responseData:   responseData,
		}
		h.ServeHTTP(&lw, req)

		con.sugar.Infoln(
			"uri", req.RequestURI,
			"method", req.Method,
			"status", responseData.status,
			"size", responseData.size,
			"duration", time.Since(start),
		)
	}

	return http.HandlerFunc(logFn)
}

// PanicRecoveryMiddleware turns a panicking handler into a 500 response.
func (con *Controller) PanicRecoveryMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				con.sugar.Errorf("panic serving %s %s: %v\n%s", req.Method, req.RequestURI, rec, debug.Stack())
				http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		h.ServeHTTP(res, req)
	})
}

// Session attaches the caller's workspace to the request context, starting
// a new session when the request carries none.
func (con *Controller) Session(h http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		ws, err := con.workspaces.FromRequest(res, req)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, http.ErrServerClosed) {
				status = http.StatusServiceUnavailable
			}
			con.sugar.Errorf("(Session) %v", err)
			http.Error(res, http.StatusText(status), status)
			return
		}

		h.ServeHTTP(res, req.WithContext(withWorkspace(req.Context(), ws)))
	})
}
