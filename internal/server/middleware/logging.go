package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// requestInfo заполняется внутренними middleware и читается после обработки запроса
type requestInfo struct {
	device string
}

const requestInfoKey contextKey = "request_info"

// noteDevice сохраняет устройство для лога запроса
func noteDevice(ctx context.Context, device string) {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.device = device
	}
}

// LoggingMiddleware создает middleware для логирования HTTP запросов
// и учета их в метриках. Логирует метод, путь, шаблон маршрута, устройство,
// статус, время выполнения и размер ответа.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			info := &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey, info))

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeOf(r)

			httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())

			logLevel := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"bytes_written", wrapped.written,
			}
			if info.device != "" {
				attrs = append(attrs, "device", info.device)
			}

			logger.Log(r.Context(), logLevel, "HTTP request", attrs...)
		})
	}
}

// routeOf возвращает шаблон маршрута ServeMux, чтобы ID записей
// не размножали метки метрик. ServeMux заполняет r.Pattern при маршрутизации,
// поэтому middleware должен оборачивать mux напрямую.
func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

// LoggingWithSkip создает middleware с возможностью пропуска определенных путей
// Полезно для health checks, которые клиенты опрашивают постоянно
func LoggingWithSkip(logger *slog.Logger, skipPaths []string) func(http.Handler) http.Handler {
	skipMap := make(map[string]bool)
	for _, path := range skipPaths {
		skipMap[path] = true
	}

	return func(next http.Handler) http.Handler {
		logged := LoggingMiddleware(logger)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			logged.ServeHTTP(w, r)
		})
	}
}
