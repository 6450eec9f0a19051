package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var (
	ErrInvalidMove   = errors.New("invalid move, want \"row,col\"")
	ErrRejectedMoves = errors.New("some moves were rejected")
)

// Replay - plays moves on a fresh engine and writes the final game as JSON to out.
// Rejected moves are logged and skipped; ErrRejectedMoves is returned if there were any.
func Replay(logger *slog.Logger, conf tictactoe.Config, moves []string, out io.Writer) error {
	log := logger.With("component", "replay")

	positions := make([]entity.Position, 0, len(moves))
	for _, move := range moves {
		position, err := parsePosition(move)
		if err != nil {
			return err
		}

		positions = append(positions, position)
	}

	engine, err := tictactoe.NewEngine(conf)
	if err != nil {
		return fmt.Errorf("failed create engine: %w", err)
	}

	rejected := 0
	for i, position := range positions {
		player := engine.CurrentPlayer()

		if _, err = engine.AttemptMove(position.Row, position.Col); err != nil {
			rejected++
			log.Warn("move rejected", "move", i+1, "player", player.String(), "row", position.Row, "col", position.Col, "error", err)

			continue
		}

		log.Debug("move played", "move", i+1, "player", player.String(), "row", position.Row, "col", position.Col)
	}

	game := engine.Snapshot()
	if game.IsOngoing() {
		log.Info("game not finished", "moves", game.Moves, "turn", game.Turn.String())
	} else {
		log.Info("game finished", "status", game.Status.String(), "winner", game.Winner.String())
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	if err = encoder.Encode(game); err != nil {
		return fmt.Errorf("failed to write game: %w", err)
	}

	if rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejectedMoves, rejected, len(positions))
	}

	return nil
}

// parsePosition - parses "row,col".
func parsePosition(move string) (entity.Position, error) {
	rowText, colText, ok := strings.Cut(move, ",")
	if !ok {
		return entity.Position{}, fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}

	col, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: %q", ErrInvalidMove, move)
	}

	return entity.Position{Row: row, Col: col}, nil
}
