package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"crowdchess/internal/chess"
	"crowdchess/internal/server/game"
	_ "crowdchess/internal/server/http/docs"
)

const logModule = "internal/server/http"

// Handler serves the /api/games routes and the swagger UI.
type Handler struct {
	games  *game.Manager
	logger *slog.Logger
	mux    *http.ServeMux
}

func NewHandler(games *game.Manager, logger *slog.Logger) *Handler {
	h := &Handler{
		games:  games,
		logger: game.ResolveLogger(logger),
		mux:    http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	h.mux.HandleFunc("POST /api/games", h.handleNewGame)
	h.mux.HandleFunc("GET /api/games/{id}", h.handleGetGame)
	h.mux.HandleFunc("GET /api/games/{id}/moves", h.handleListMoves)
	h.mux.HandleFunc("POST /api/games/{id}/moves", h.handlePlayMove)
	h.mux.HandleFunc("GET /api/games/{id}/votes", h.handleListVotes)
	h.mux.HandleFunc("POST /api/games/{id}/votes", h.handleSubmitVote)
	h.mux.HandleFunc("POST /api/games/{id}/rounds", h.handleResolveRound)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.NewGame(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.games.Snapshot(r.Context(), g.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotToResponse(snap))
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.games.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(snap))
}

func (h *Handler) handleListMoves(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	history, err := h.games.History(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{GameID: id, Moves: recordedToDTO(history)})
}

func (h *Handler) handlePlayMove(w http.ResponseWriter, r *http.Request) {
	move, ok := h.decodeMove(w, r)
	if !ok {
		return
	}
	res, err := h.games.PlayMove(r.Context(), r.PathValue("id"), move)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roundToResponse(res))
}

func (h *Handler) handleListVotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	records, err := h.games.Votes(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TallyResponse{GameID: id, Votes: recordsToDTO(records)})
}

func (h *Handler) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	move, ok := h.decodeMove(w, r)
	if !ok {
		return
	}
	v, err := h.games.SubmitVote(r.Context(), r.PathValue("id"), move)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, VoteResponse{VoteID: v.ID, GameID: v.GameID, Move: moveToDTO(v.Move)})
}

func (h *Handler) handleResolveRound(w http.ResponseWriter, r *http.Request) {
	res, err := h.games.ResolveRound(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roundToResponse(res))
}

func (h *Handler) decodeMove(w http.ResponseWriter, r *http.Request) (chess.Move, bool) {
	var req MoveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_input", Message: "bad json"})
		return chess.Move{}, false
	}
	return dtoToMove(req), true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case chess.IsRejection(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: chess.RejectionCode(err), Message: err.Error()})
	case errors.Is(err, game.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_input", Message: err.Error()})
	case errors.Is(err, game.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Code: "game_not_found", Message: err.Error()})
	case errors.Is(err, game.ErrGameOver):
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: "game_over", Message: err.Error()})
	case errors.Is(err, game.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Code: "conflict", Message: err.Error()})
	default:
		h.logger.Error("request failed",
			"event", "http_request_failed",
			"module", logModule,
			"layer", "transport",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
