package model

import "github.com/shopspring/decimal"

// SpinRequest - запрос одного спина от клиента
type SpinRequest struct {
	Bet decimal.Decimal
	// Индексы активных линий. Пустой список трактуется как [0]
	ActivePaylines []int
	UseFreeSpins   bool
}

// Position - координата символа на поле (барабан, ряд)
type Position struct {
	Reel int
	Row  int
}

// WinningLine - выигрыш по одной линии
type WinningLine struct {
	Payline int
	Symbol  string
	Count   int
	Symbols []string
	Payout  decimal.Decimal
}

// ScatterResult - результат проверки скаттеров по всему полю
type ScatterResult struct {
	Count     int
	Positions []Position
	Payout    decimal.Decimal
	FreeSpins int
}

// Outcome - чистый результат оценки поля.
// Детерминированно выводится из (конфигурация, поле, ставка, линии)
type Outcome struct {
	TotalPayout      decimal.Decimal
	WinningLines     []WinningLine
	IsJackpot        bool
	Multiplier       float64
	FreeSpinsAwarded int
	Scatter          ScatterResult
	WildPositions    []Position
}

// SpinResult - итог спина, возвращаемый вызывающей стороне
type SpinResult struct {
	BetAmount     decimal.Decimal
	WinAmount     decimal.Decimal
	Balance       decimal.Decimal
	FreeSpinsLeft int

	Positions []int
	Board     [][]string
	Outcome   Outcome

	RoundReference string
}

// PlayerData - текущее состояние игрока для клиента
type PlayerData struct {
	Balance       decimal.Decimal
	FreeSpinsLeft int
}
