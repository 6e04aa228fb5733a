package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"slots_backend/internal/config"
	"slots_backend/pkg/token"
)

type ctxKey string

const playerIDKey ctxKey = "playerID"

// Auth проверяет access токен внешней системы аутентификации и
// кладёт ID игрока в контекст. Само ядро никого не аутентифицирует -
// только потребляет уже выпущенный токен
func Auth(jwtCfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := token.VerifyToken(tokenStr, jwtCfg.AccessTokenSecretKey())
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			playerID, err := strconv.Atoi(claims.ID)
			if err != nil {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), playerID)))
		})
	}
}

// WithPlayerID кладёт ID игрока в контекст (используется middleware
// и тестами сервисов)
func WithPlayerID(ctx context.Context, playerID int) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// PlayerIDFromContext достаёт ID игрока из контекста
func PlayerIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(playerIDKey).(int)
	return id, ok
}
