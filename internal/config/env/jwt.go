package env

import (
	"fmt"
	"os"

	"slots_backend/internal/config"
)

const (
	accessTokenKeyEnvName = "ACCESS_TOKEN"
)

type jwtConfig struct {
	accessTokenSecretKey string
}

// NewJWTConfig - секрет для проверки access токенов внешней системы
// аутентификации. Выпуск токенов - не наша забота
func NewJWTConfig() (config.JWTConfig, error) {
	accessToken := os.Getenv(accessTokenKeyEnvName)
	if len(accessToken) == 0 {
		return nil, fmt.Errorf("access token secret key not found")
	}

	return &jwtConfig{
		accessTokenSecretKey: accessToken,
	}, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.accessTokenSecretKey)
}
