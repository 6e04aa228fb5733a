package game

import "github.com/shopspring/decimal"

type SpinRequest struct {
	Bet            decimal.Decimal `json:"bet"`             // Размер ставки
	ActivePaylines []int           `json:"active_paylines"` // Индексы активных линий (пусто = [0])
	UseFreeSpins   bool            `json:"use_free_spins"`  // Списать фриспин вместо ставки
}

type SpinResponse struct {
	Board            [][]string      `json:"board"`              // Символы видимого окна [барабан][ряд]
	Positions        []int           `json:"positions"`          // Позиции остановки барабанов
	WinningLines     []WinningLine   `json:"winning_lines"`      // Выигрышные линии
	ScatterCount     int             `json:"scatter_count"`      // Кол-во скаттеров
	ScatterPayout    decimal.Decimal `json:"scatter_payout"`     // Выплата по скаттерам
	AwardedFreeSpins int             `json:"awarded_free_spins"` // Начислено фриспинов в этом спине
	IsJackpot        bool            `json:"is_jackpot"`         // Сорван джекпот
	BetAmount        decimal.Decimal `json:"bet_amount"`         // Списанная ставка (0 для фриспина)
	TotalPayout      decimal.Decimal `json:"total_payout"`       // Общая выплата
	Balance          decimal.Decimal `json:"balance"`            // Баланс после
	FreeSpinCount    int             `json:"free_spin_count"`    // Остаток фриспинов
	RoundReference   string          `json:"round_reference"`    // Ссылка на запись раунда
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"` // Сумма депозита
}

type DepositResponse struct {
	Balance decimal.Decimal `json:"balance"` // Баланс после депозита
}

type DataResponse struct {
	Balance       decimal.Decimal `json:"balance"`         // Баланс игрока
	FreeSpinCount int             `json:"free_spin_count"` // Остаток фриспинов
}

type WinningLine struct {
	Payline int             `json:"payline"` // Индекс линии
	Symbol  string          `json:"symbol"`  // ID символа (после подстановки wild)
	Count   int             `json:"count"`   // Длина серии
	Payout  decimal.Decimal `json:"payout"`  // Выплата по линии
}
