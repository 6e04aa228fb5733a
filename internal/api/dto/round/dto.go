package round

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoundResponse struct {
	ID             int64           `json:"id"`
	GameSlug       string          `json:"game_slug"`
	BetAmount      decimal.Decimal `json:"bet_amount"`
	WinAmount      decimal.Decimal `json:"win_amount"`
	NetResult      decimal.Decimal `json:"net_result"`
	IsFreeSpin     bool            `json:"is_free_spin"`
	IsJackpot      bool            `json:"is_jackpot"`
	ReferenceID    string          `json:"reference_id"`
	Status         string          `json:"status"`
	CompletedAt    time.Time       `json:"completed_at"`
	CompletionHash string          `json:"completion_hash"`
}

type ListResponse struct {
	Rounds []RoundResponse `json:"rounds"`
}

type CancelRequest struct {
	Reason string `json:"reason"` // Причина отмены (попадает в extra_data раунда)
}

type VerifyResponse struct {
	RoundID int64    `json:"round_id"`
	Valid   bool     `json:"valid"`
	Issues  []string `json:"issues"` // Пусто, если запись цела
}
