package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TxTypeBet        = "bet"
	TxTypeWin        = "win"
	TxTypeDeposit    = "deposit"
	TxTypeRefund     = "refund"
	TxTypeAdjustment = "adjustment"
)

// Статусы транзакций
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

// Transaction - неизменяемая запись движения средств.
// Инвариант: BalanceAfter = BalanceBefore + Amount для начислений
// и BalanceBefore - Amount для списаний. Записи никогда не
// редактируются задним числом - коррекция всегда новая транзакция
type Transaction struct {
	ID            int64
	PlayerID      int
	SessionID     *int64
	Type          string
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReferenceID   string
	Description   string
	Metadata      map[string]any
	Status        string
	CreatedAt     time.Time
}
