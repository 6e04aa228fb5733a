package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"slots_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken выпускает access токен с ID игрока в клеймах.
// В продакшене токены выпускает внешний сервис аутентификации,
// здесь генерация нужна для тестов и локальной отладки
func GenerateAccessToken(playerID int, secretKey []byte, ttl time.Duration) (string, error) {
	claims := model.PlayerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strconv.Itoa(playerID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return t.SignedString(secretKey)
}

// VerifyToken проверяет подпись и срок токена, возвращает клеймы
func VerifyToken(tokenStr string, secretKey []byte) (*model.PlayerClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &model.PlayerClaims{}, func(t *jwt.Token) (interface{}, error) {
		_, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := t.Claims.(*model.PlayerClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
