package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cascadelab/contagion/pkg/logging"
)

// loggingMiddleware logs each request with its status and latency
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &statusResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.Path(r.URL.Path),
			logging.Int("status", wrapper.statusCode),
			logging.Latency(time.Since(start)),
		)
	})
}

// metricsMiddleware tracks HTTP request metrics
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		s.metricsRegistry.HTTPRequestsInFlight.Inc()
		defer s.metricsRegistry.HTTPRequestsInFlight.Dec()

		wrapper := &statusResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		statusStr := strconv.Itoa(wrapper.statusCode)

		s.metricsRegistry.RecordHTTPRequest(r.Method, r.URL.Path, statusStr, duration)
		s.metricsRegistry.HTTPResponseSizeBytes.WithLabelValues(r.Method, r.URL.Path).Observe(float64(wrapper.bytesWritten))
	})
}

// statusResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// StartMetricsUpdater refreshes system metrics every 10 seconds until the
// process exits. It runs in its own goroutine.
func (s *Server) StartMetricsUpdater() {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		}
	}()
}
