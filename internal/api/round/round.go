package round

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	dto "slots_backend/internal/api/dto/round"
	"slots_backend/internal/converter"
	"slots_backend/internal/middleware"
	"slots_backend/internal/model"
	"slots_backend/internal/service"
	"slots_backend/pkg/req"
	"slots_backend/pkg/resp"
)

const defaultListLimit = 50

type HandlerDeps struct {
	Serv service.RoundService
}

type Handler struct {
	serv service.RoundService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	rounds, err := h.serv.ListByPlayer(r.Context(), playerID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToRoundListResponse(rounds))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid round id", http.StatusBadRequest)
		return
	}

	issues, err := h.serv.VerifyIntegrity(r.Context(), roundID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.VerifyResponse{
		RoundID: roundID,
		Valid:   len(issues) == 0,
		Issues:  issues,
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid round id", http.StatusBadRequest)
		return
	}

	payload, err := req.Decode[dto.CancelRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.serv.Cancel(r.Context(), roundID, payload.Reason); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func statusForError(err error) int {
	var integrity *model.IntegrityViolationError

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, model.ErrRoundNotCompleted):
		return http.StatusConflict
	case errors.As(err, &integrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
