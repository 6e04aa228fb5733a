package converter

import (
	"slots_backend/internal/api/dto/game"
	"slots_backend/internal/model"
)

func ToSpinRequest(req game.SpinRequest) model.SpinRequest {
	return model.SpinRequest{
		Bet:            req.Bet,
		ActivePaylines: req.ActivePaylines,
		UseFreeSpins:   req.UseFreeSpins,
	}
}

func ToSpinResponse(result model.SpinResult) game.SpinResponse {
	return game.SpinResponse{
		Board:            result.Board,
		Positions:        result.Positions,
		WinningLines:     toWinningLines(result.Outcome.WinningLines),
		ScatterCount:     result.Outcome.Scatter.Count,
		ScatterPayout:    result.Outcome.Scatter.Payout,
		AwardedFreeSpins: result.Outcome.FreeSpinsAwarded,
		IsJackpot:        result.Outcome.IsJackpot,
		BetAmount:        result.BetAmount,
		TotalPayout:      result.WinAmount,
		Balance:          result.Balance,
		FreeSpinCount:    result.FreeSpinsLeft,
		RoundReference:   result.RoundReference,
	}
}

func ToDataResponse(data model.PlayerData) game.DataResponse {
	return game.DataResponse{
		Balance:       data.Balance,
		FreeSpinCount: data.FreeSpinsLeft,
	}
}

func toWinningLines(lines []model.WinningLine) []game.WinningLine {
	result := make([]game.WinningLine, len(lines))
	for i, l := range lines {
		result[i] = game.WinningLine{
			Payline: l.Payline,
			Symbol:  l.Symbol,
			Count:   l.Count,
			Payout:  l.Payout,
		}
	}
	return result
}
