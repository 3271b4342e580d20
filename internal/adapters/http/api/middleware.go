package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/feeshock/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for
// endpoint. Latency is observed in milliseconds with sub-millisecond
// precision since handlers only read the in-memory snapshot.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		elapsedMs := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(sw.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, elapsedMs)

		if sw.status < http.StatusBadRequest {
			return
		}
		errType, severity := classifyStatus(sw.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, errType)
		metrics.RecordErrorByType(errType, severity)
	}
}

// classifyStatus maps an error status to its metric error type and severity.
// 503 means no run has completed yet and is expected right after startup.
func classifyStatus(status int) (errType, severity string) {
	switch {
	case status == http.StatusServiceUnavailable:
		return "not_ready", "low"
	case status >= http.StatusInternalServerError:
		return "server_error", "high"
	case status == http.StatusNotFound:
		return "not_found", "medium"
	case status >= http.StatusBadRequest:
		return "client_error", "medium"
	default:
		return "unknown", "low"
	}
}

// statusWriter remembers the first status code written.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
