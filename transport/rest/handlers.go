package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const maxBodyBytes = 1 << 12

var errInvalidBody = errors.New("invalid request body")

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type startRequest struct {
	StartingPlayer string `json:"starting_player"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	startingPlayer, err := decodeStartingPlayer(w, r)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	game, err := that.games.CreateGame(r.Context(), startingPlayer)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", errInvalidBody, err), nil)
		return
	}

	if request.Row == nil || request.Col == nil {
		that.writeError(w, fmt.Errorf("%w: row and col are required", errInvalidBody), nil)
		return
	}

	game, err := that.games.MakeMove(r.Context(), mux.Vars(r)["id"], *request.Row, *request.Col)
	if err != nil {
		that.writeError(w, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	startingPlayer, err := decodeStartingPlayer(w, r)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	game, err := that.games.ResetGame(r.Context(), mux.Vars(r)["id"], startingPlayer)
	if err != nil {
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeStartingPlayer - reads an optional {"starting_player": "X"} body.
func decodeStartingPlayer(w http.ResponseWriter, r *http.Request) (entity.Mark, error) {
	var request startRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil && !errors.Is(err, io.EOF) {
		return entity.EmptyCell, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	return entity.ParseMark(request.StartingPlayer)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error, game *entity.Game) {
	code := statusCode(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		message = http.StatusText(code)
	}

	that.writeJSON(w, code, errorResponse{Error: message, Game: game})
}

func (that *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
