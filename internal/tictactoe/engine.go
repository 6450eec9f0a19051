package tictactoe

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Engine owns the board of a single game and is the only way to mutate it.
// All methods are safe for concurrent use; calls are serialised.
type Engine struct {
	mu sync.Mutex

	config Config
	lines  []Line

	board          []entity.Mark // row-major, config.Size*config.Size cells
	turn           entity.Mark
	startingPlayer entity.Mark
	outcome        entity.Outcome
	score          entity.Score
	moves          int
}

// NewEngine - creates an engine with an empty board and the configured starting player.
func NewEngine(conf Config) (*Engine, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	engine := &Engine{
		config:         conf,
		lines:          WinLines(conf.Size),
		startingPlayer: conf.StartingPlayer,
	}
	engine.reset(conf.StartingPlayer)

	return engine, nil
}

// Reset - clears the board and hands the turn to startingPlayer.
// Anything other than PlayerX or PlayerO keeps the previous starting player.
// The score survives a reset.
func (that *Engine) Reset(startingPlayer entity.Mark) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset(startingPlayer)
}

func (that *Engine) reset(startingPlayer entity.Mark) {
	if startingPlayer.IsPlayer() {
		that.startingPlayer = startingPlayer
	}

	that.board = make([]entity.Mark, that.config.Size*that.config.Size)
	that.turn = that.startingPlayer
	that.outcome = entity.Outcome{Status: entity.StatusInProgress}
	that.moves = 0
}

// AttemptMove - places the current player's mark at (row, col).
// A rejected move leaves the engine untouched and returns the current outcome.
func (that *Engine) AttemptMove(row, col int) (entity.Outcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.inBounds(row, col) {
		return that.status(), fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.outcome.IsFinished() {
		return that.status(), apperror.ErrGameFinished
	}

	cell := that.index(row, col)
	if that.board[cell] != entity.EmptyCell {
		return that.status(), fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	player := that.turn
	that.board[cell] = player
	that.moves++

	that.updateOutcome(player)

	return that.status(), nil
}

// updateOutcome - re-evaluates the game after a move by player.
func (that *Engine) updateOutcome(player entity.Mark) {
	if line := that.winningLine(player); line != nil {
		that.outcome = entity.Outcome{
			Status: entity.StatusWon,
			Winner: player,
			Line:   slices.Clone(line),
		}
		that.score = that.score.Add(player)
		that.turn = entity.EmptyCell

		return
	}

	// a full board with a winning line was handled above
	if that.isFull() {
		that.outcome = entity.Outcome{Status: entity.StatusDrawn}
		that.turn = entity.EmptyCell

		return
	}

	that.turn = player.Opponent()
}

// winningLine - returns the first line completely owned by player, nil if none.
func (that *Engine) winningLine(player entity.Mark) Line {
	for _, line := range that.lines {
		if that.owns(player, line) {
			return line
		}
	}

	return nil
}

func (that *Engine) owns(player entity.Mark, line Line) bool {
	for _, pos := range line {
		if that.board[that.index(pos.Row, pos.Col)] != player {
			return false
		}
	}

	return true
}

func (that *Engine) isFull() bool {
	return !slices.Contains(that.board, entity.EmptyCell)
}

func (that *Engine) inBounds(row, col int) bool {
	return row >= 0 && row < that.config.Size && col >= 0 && col < that.config.Size
}

func (that *Engine) index(row, col int) int {
	return row*that.config.Size + col
}

// Status - returns the outcome of the last move.
func (that *Engine) Status() entity.Outcome {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status()
}

func (that *Engine) status() entity.Outcome {
	outcome := that.outcome
	outcome.Line = slices.Clone(outcome.Line)

	return outcome
}

// BoardSnapshot - returns a copy of the board indexed as [row][col].
func (that *Engine) BoardSnapshot() [][]entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.boardSnapshot()
}

func (that *Engine) boardSnapshot() [][]entity.Mark {
	size := that.config.Size
	board := make([][]entity.Mark, size)
	for row := range size {
		board[row] = slices.Clone(that.board[row*size : (row+1)*size])
	}

	return board
}

// CurrentPlayer - returns the player to move, EmptyCell once the game is over.
func (that *Engine) CurrentPlayer() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

// OtherPlayer - returns the player waiting for their turn, EmptyCell once the game is over.
func (that *Engine) OtherPlayer() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn.Opponent()
}

// StartingPlayer - returns the player who opens the current board.
func (that *Engine) StartingPlayer() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.startingPlayer
}

// Moves - returns the number of marks on the board.
func (that *Engine) Moves() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.moves
}

// Score - returns the wins of each player since the engine was created.
func (that *Engine) Score() entity.Score {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.score
}

// Message - describes the state of the game for display.
func (that *Engine) Message() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.message()
}

func (that *Engine) message() string {
	switch that.outcome.Status {
	case entity.StatusWon:
		return fmt.Sprintf("Player %s Wins!", that.outcome.Winner)
	case entity.StatusDrawn:
		return "It's a Draw!"
	default:
		return fmt.Sprintf("Player %s's turn", that.turn)
	}
}

// Snapshot - returns the full state of the engine. ID is left empty.
func (that *Engine) Snapshot() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	outcome := that.status()

	return &entity.Game{
		Size:           that.config.Size,
		Board:          that.boardSnapshot(),
		Turn:           that.turn,
		StartingPlayer: that.startingPlayer,
		Status:         outcome.Status,
		Winner:         outcome.Winner,
		Line:           outcome.Line,
		Score:          that.score,
		Moves:          that.moves,
		Message:        that.message(),
	}
}
