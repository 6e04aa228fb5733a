package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// Player - игрок. Регистрация и аутентификация живут во внешнем
// сервисе, ядро получает уже проверенный идентификатор
type Player struct {
	ID      int
	Name    string
	Balance decimal.Decimal
}

// PlayerClaims - клеймы access токена внешней системы аутентификации.
// ID клейма содержит идентификатор игрока
type PlayerClaims struct {
	jwt.RegisteredClaims
}
