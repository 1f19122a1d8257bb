package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/metrics"
)

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// Hijack is required by the websocket upgrade.
func (sw *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sw.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// routeName labels requests by mux path template so ids don't explode the
// metric cardinality.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Instrument records request metrics and logs one line per request.
func Instrument(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			route := routeName(r)
			metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(sw.status), elapsed.Seconds())

			kv := []interface{}{"method", r.Method, "path", r.URL.Path, "status", sw.status, "duration", elapsed}
			switch {
			case sw.status >= http.StatusInternalServerError:
				log.Error("request", kv...)
			case sw.status >= http.StatusBadRequest:
				log.Info("request", kv...)
			default:
				log.Debug("request", kv...)
			}
		})
	}
}
