package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Restore - rebuilds an engine from a snapshot.
// Turn, status and winning line are derived from the board; the stored
// values are not trusted.
func Restore(game *entity.Game) (*Engine, error) {
	conf := Config{Size: game.Size, StartingPlayer: game.StartingPlayer}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	if game.Score.X < 0 || game.Score.O < 0 {
		return nil, fmt.Errorf("%w: negative score", apperror.ErrInvalidSnapshot)
	}

	engine := &Engine{
		config:         conf,
		lines:          WinLines(conf.Size),
		startingPlayer: conf.StartingPlayer,
		score:          game.Score,
	}
	engine.reset(conf.StartingPlayer)

	if err := engine.load(game.Board); err != nil {
		return nil, err
	}

	if err := engine.derive(); err != nil {
		return nil, err
	}

	return engine, nil
}

// load - copies the board into the engine, validating its shape and marks.
func (that *Engine) load(board [][]entity.Mark) error {
	size := that.config.Size

	if len(board) != size {
		return fmt.Errorf("%w: board has %d rows, want %d", apperror.ErrInvalidSnapshot, len(board), size)
	}

	for row, cells := range board {
		if len(cells) != size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidSnapshot, row, len(cells), size)
		}

		for col, mark := range cells {
			if mark != entity.EmptyCell && !mark.IsPlayer() {
				return fmt.Errorf("%w: unknown mark at row %d, col %d", apperror.ErrInvalidSnapshot, row, col)
			}

			that.board[that.index(row, col)] = mark
			if mark != entity.EmptyCell {
				that.moves++
			}
		}
	}

	return nil
}

// derive - computes turn and outcome from a loaded board.
func (that *Engine) derive() error {
	first := that.startingPlayer
	second := first.Opponent()

	var firstCount, secondCount int
	for _, mark := range that.board {
		switch mark {
		case first:
			firstCount++
		case second:
			secondCount++
		}
	}

	lead := firstCount - secondCount
	if lead != 0 && lead != 1 {
		return fmt.Errorf("%w: %s has %d marks, %s has %d", apperror.ErrInvalidSnapshot, first, firstCount, second, secondCount)
	}

	// the player who moved last is the only one who can own a line
	lastMover := second
	if lead == 1 {
		lastMover = first
	}

	if that.winningLine(lastMover.Opponent()) != nil {
		return fmt.Errorf("%w: %s owns a line but did not move last", apperror.ErrInvalidSnapshot, lastMover.Opponent())
	}

	if that.moves == 0 {
		return nil
	}

	// the stored score already counts a finished game
	score := that.score
	that.updateOutcome(lastMover)
	that.score = score

	return nil
}
