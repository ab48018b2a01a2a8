package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/dashsync/internal/server/jwt"
)

// contextKey тип для ключей контекста
type contextKey string

// DeviceKey ключ для хранения имени устройства в контексте
const DeviceKey contextKey = "device"

// TokenValidator проверяет bearer токен устройства
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// WithDevice сохраняет имя устройства в контексте
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, DeviceKey, device)
}

// DeviceFromContext извлекает имя устройства из контекста запроса
func DeviceFromContext(ctx context.Context) (string, bool) {
	device, ok := ctx.Value(DeviceKey).(string)
	return device, ok
}

// AuthMiddleware создает middleware для проверки JWT токена устройства.
// Пути из skipPaths (например, health check) проходят без токена.
func AuthMiddleware(logger *slog.Logger, validator TokenValidator, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "unauthorized: missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				writeError(w, http.StatusUnauthorized, "unauthorized: invalid token format")
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				logger.Warn("Invalid device token", "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized: invalid token")
				return
			}

			logger.Debug("Device authenticated", "device", claims.Device)
			noteDevice(r.Context(), claims.Device)

			next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), claims.Device)))
		})
	}
}
