package game

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "slots_backend/internal/api/dto/game"
	"slots_backend/internal/converter"
	"slots_backend/internal/model"
	"slots_backend/internal/service"
	"slots_backend/pkg/req"
	"slots_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.GameService
}

type Handler struct {
	serv service.GameService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slug := chi.URLParam(r, "slug")

	result, err := h.serv.Spin(r.Context(), slug, converter.ToSpinRequest(payload))
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

func (h *Handler) CheckData(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	data, err := h.serv.CheckData(r.Context(), slug)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToDataResponse(*data))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.DepositRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !payload.Amount.IsPositive() {
		http.Error(w, "deposit amount must be positive", http.StatusBadRequest)
		return
	}

	balance, err := h.serv.Deposit(r.Context(), payload.Amount)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.DepositResponse{Balance: balance})
}

// statusForError переводит ошибки доменного слоя в HTTP статусы
func statusForError(err error) int {
	var invalidBet *model.InvalidBetError

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidBet):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNoStrategy):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, model.ErrInsufficientFreeSpins):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
