package converter

import (
	"slots_backend/internal/api/dto/round"
	"slots_backend/internal/model"
)

func ToRoundResponse(r model.Round) round.RoundResponse {
	return round.RoundResponse{
		ID:             r.ID,
		GameSlug:       r.GameSlug,
		BetAmount:      r.BetAmount,
		WinAmount:      r.WinAmount,
		NetResult:      r.NetResult,
		IsFreeSpin:     r.IsFreeSpin,
		IsJackpot:      r.IsJackpot,
		ReferenceID:    r.ReferenceID,
		Status:         r.Status,
		CompletedAt:    r.CompletedAt,
		CompletionHash: r.CompletionHash,
	}
}

func ToRoundListResponse(rounds []model.Round) round.ListResponse {
	result := make([]round.RoundResponse, len(rounds))
	for i, r := range rounds {
		result[i] = ToRoundResponse(r)
	}
	return round.ListResponse{Rounds: result}
}
