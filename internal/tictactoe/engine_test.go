package tictactoe

import (
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func newEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	return engine
}

// play - applies moves in order and fails the test on the first rejected one.
func play(t *testing.T, engine *Engine, moves ...entity.Position) entity.Outcome {
	t.Helper()

	var outcome entity.Outcome
	for i, move := range moves {
		var err error
		outcome, err = engine.AttemptMove(move.Row, move.Col)
		require.NoError(t, err, "move %d (%d,%d)", i, move.Row, move.Col)
	}

	return outcome
}

func pos(row, col int) entity.Position {
	return entity.Position{Row: row, Col: col}
}

func TestNewEngine(t *testing.T) {
	t.Run("Starts with an empty board and the configured player", func(t *testing.T) {
		// When: creating an engine with O as starting player
		engine, err := NewEngine(Config{Size: 3, StartingPlayer: o})
		require.NoError(t, err)

		// Then: the board is empty, O moves first and the game is in progress
		assert.Equal(t, [][]entity.Mark{{e, e, e}, {e, e, e}, {e, e, e}}, engine.BoardSnapshot())
		assert.Equal(t, o, engine.CurrentPlayer())
		assert.Equal(t, x, engine.OtherPlayer())
		assert.Equal(t, entity.Outcome{Status: entity.StatusInProgress}, engine.Status())
		assert.Equal(t, 0, engine.Moves())
		assert.Equal(t, "Player O's turn", engine.Message())
	})

	t.Run("Rejects an invalid board size", func(t *testing.T) {
		// When: creating an engine with a 2x2 board
		_, err := NewEngine(Config{Size: 2, StartingPlayer: x})

		// Then: ErrInvalidBoardSize should be returned
		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
	})

	t.Run("Rejects an empty starting player", func(t *testing.T) {
		// When: creating an engine without a starting player
		_, err := NewEngine(Config{Size: 3})

		// Then: ErrInvalidPlayer should be returned
		assert.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("Defaults the starting player to X", func(t *testing.T) {
		conf, err := NewConfig(3, "")

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), conf)
	})

	t.Run("Parses the starting player", func(t *testing.T) {
		conf, err := NewConfig(4, "o")

		require.NoError(t, err)
		assert.Equal(t, Config{Size: 4, StartingPlayer: o}, conf)
	})

	t.Run("Returns ErrInvalidPlayer for an unknown player", func(t *testing.T) {
		_, err := NewConfig(3, "Y")

		assert.ErrorIs(t, err, apperror.ErrInvalidPlayer)
	})
}

func TestEngine_AttemptMove(t *testing.T) {
	t.Run("Successful move switches the turn", func(t *testing.T) {
		// Given: a new game
		engine := newEngine(t)

		// When: X plays the centre
		outcome, err := engine.AttemptMove(1, 1)
		require.NoError(t, err)

		// Then: the cell is X, O is to move and the game continues
		assert.Equal(t, entity.StatusInProgress, outcome.Status)
		assert.Equal(t, [][]entity.Mark{{e, e, e}, {e, x, e}, {e, e, e}}, engine.BoardSnapshot())
		assert.Equal(t, o, engine.CurrentPlayer())
		assert.Equal(t, 1, engine.Moves())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where X holds the centre
		engine := newEngine(t)
		play(t, engine, pos(1, 1))
		before := engine.Snapshot()

		// When: O tries the same cell
		outcome, err := engine.AttemptMove(1, 1)

		// Then: ErrCellOccupied is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.StatusInProgress, outcome.Status)
		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Error on out of bounds cells", func(t *testing.T) {
		cells := []entity.Position{pos(-1, 0), pos(0, -1), pos(3, 0), pos(0, 3), pos(20, 20)}

		for _, cell := range cells {
			// Given: a game with one move
			engine := newEngine(t)
			play(t, engine, pos(0, 0))
			before := engine.Snapshot()

			// When: a move outside of the board is attempted
			_, err := engine.AttemptMove(cell.Row, cell.Col)

			// Then: ErrOutOfBounds is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrOutOfBounds, "cell %v", cell)
			assert.Equal(t, before, engine.Snapshot())
		}
	})

	t.Run("Move after game won", func(t *testing.T) {
		// Given: a game X has won
		engine := newEngine(t)
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))
		before := engine.Snapshot()

		// When: another move is attempted on a free cell
		outcome, err := engine.AttemptMove(2, 0)

		// Then: ErrGameFinished is returned and the win stays
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, entity.StatusWon, outcome.Status)
		assert.Equal(t, before, engine.Snapshot())
	})

	t.Run("Out of bounds is reported before game over", func(t *testing.T) {
		// Given: a finished game
		engine := newEngine(t)
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))

		// When: a move outside of the board is attempted
		_, err := engine.AttemptMove(5, 5)

		// Then: ErrOutOfBounds is returned
		assert.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})
}

func TestEngine_WinningLines(t *testing.T) {
	lines := WinLines(3)
	require.Len(t, lines, 8)

	for i, line := range lines {
		// Given: a new game and two filler cells outside of the line
		engine := newEngine(t)

		var filler []entity.Position
		for row := range 3 {
			for col := range 3 {
				if !containsPosition(line, pos(row, col)) && len(filler) < 2 {
					filler = append(filler, pos(row, col))
				}
			}
		}

		// When: X fills the line while O plays elsewhere
		outcome := play(t, engine, line[0], filler[0], line[1], filler[1], line[2])

		// Then: X wins with exactly that line
		assert.Equal(t, entity.Outcome{Status: entity.StatusWon, Winner: x, Line: []entity.Position(line)}, outcome, "line %d", i)
		assert.Equal(t, outcome, engine.Status())
		assert.Equal(t, e, engine.CurrentPlayer())
		assert.Equal(t, "Player X Wins!", engine.Message())
	}
}

func TestEngine_Scenarios(t *testing.T) {
	t.Run("First row completed by the starting player", func(t *testing.T) {
		// Given: a new game
		engine := newEngine(t)

		// When: (A:0,0),(B:1,1),(A:0,1),(B:2,2),(A:0,2)
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))

		// Then: A (X) wins with row 0
		assert.Equal(t, entity.Outcome{
			Status: entity.StatusWon,
			Winner: x,
			Line:   []entity.Position{pos(0, 0), pos(0, 1), pos(0, 2)},
		}, engine.Status())
	})

	t.Run("Last move completing a column on a full board is a win", func(t *testing.T) {
		// Given: a new game
		engine := newEngine(t)

		// When: the last of nine moves also completes column 2 for X
		play(t, engine,
			pos(0, 0), pos(0, 1), pos(0, 2), pos(1, 0), pos(1, 2),
			pos(1, 1), pos(2, 1), pos(2, 0), pos(2, 2),
		)

		// Then: the full board is a win, not a draw
		assert.Equal(t, entity.Outcome{
			Status: entity.StatusWon,
			Winner: x,
			Line:   []entity.Position{pos(0, 2), pos(1, 2), pos(2, 2)},
		}, engine.Status())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a new game
		engine := newEngine(t)

		// When: nine moves fill the board without three in a row
		outcome := play(t, engine,
			pos(0, 0), pos(0, 1), pos(0, 2), pos(1, 1), pos(1, 0),
			pos(1, 2), pos(2, 1), pos(2, 0), pos(2, 2),
		)

		// Then: the game is drawn
		assert.Equal(t, entity.Outcome{Status: entity.StatusDrawn}, outcome)
		assert.Equal(t, [][]entity.Mark{{x, o, x}, {x, o, o}, {o, x, x}}, engine.BoardSnapshot())
		assert.Equal(t, e, engine.CurrentPlayer())
		assert.Equal(t, "It's a Draw!", engine.Message())
		assert.Equal(t, entity.Score{}, engine.Score())

		// And: no further move is accepted
		_, err := engine.AttemptMove(0, 0)
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestEngine_TurnAlternation(t *testing.T) {
	// Given: a new game and a sequence that never completes a line
	engine := newEngine(t)
	moves := []entity.Position{pos(0, 0), pos(0, 1), pos(0, 2), pos(1, 1), pos(1, 0), pos(1, 2), pos(2, 1), pos(2, 0)}

	for n, move := range moves {
		// Then: X moves after an even number of moves, O after an odd one
		if n%2 == 0 {
			require.Equal(t, x, engine.CurrentPlayer(), "after %d moves", n)
		} else {
			require.Equal(t, o, engine.CurrentPlayer(), "after %d moves", n)
		}

		play(t, engine, move)
	}
}

func TestEngine_Reset(t *testing.T) {
	t.Run("Clears the board and keeps the score", func(t *testing.T) {
		// Given: a game X has won
		engine := newEngine(t)
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))

		// When: resetting with O to start
		engine.Reset(o)

		// Then: the board is empty, O moves and X keeps the win
		assert.Equal(t, [][]entity.Mark{{e, e, e}, {e, e, e}, {e, e, e}}, engine.BoardSnapshot())
		assert.Equal(t, o, engine.CurrentPlayer())
		assert.Equal(t, o, engine.StartingPlayer())
		assert.Equal(t, entity.Outcome{Status: entity.StatusInProgress}, engine.Status())
		assert.Equal(t, 0, engine.Moves())
		assert.Equal(t, entity.Score{X: 1}, engine.Score())
	})

	t.Run("Empty starting player keeps the previous one", func(t *testing.T) {
		// Given: an engine reset once with O to start
		engine := newEngine(t)
		engine.Reset(o)
		play(t, engine, pos(0, 0))

		// When: resetting without a starting player
		engine.Reset(e)

		// Then: O starts again
		assert.Equal(t, o, engine.CurrentPlayer())
		assert.Equal(t, 0, engine.Moves())
	})

	t.Run("Score accumulates over games", func(t *testing.T) {
		// Given: an engine
		engine := newEngine(t)

		// When: X wins, then O wins after starting the second game
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))
		engine.Reset(o)
		play(t, engine, pos(2, 0), pos(0, 0), pos(2, 1), pos(0, 1), pos(2, 2))

		// Then: each player has one win
		assert.Equal(t, entity.Score{X: 1, O: 1}, engine.Score())
		assert.Equal(t, o, engine.Status().Winner)
	})
}

func TestEngine_Snapshots(t *testing.T) {
	t.Run("Board snapshot cannot change the engine", func(t *testing.T) {
		// Given: a game with one move
		engine := newEngine(t)
		play(t, engine, pos(0, 0))

		// When: the caller writes into the snapshot
		board := engine.BoardSnapshot()
		board[1][1] = o

		// Then: the engine board is unaffected
		assert.Equal(t, e, engine.BoardSnapshot()[1][1])
		_, err := engine.AttemptMove(1, 1)
		assert.NoError(t, err)
	})

	t.Run("Winning line cannot change the engine", func(t *testing.T) {
		// Given: a finished game
		engine := newEngine(t)
		play(t, engine, pos(0, 0), pos(1, 1), pos(0, 1), pos(2, 2), pos(0, 2))

		// When: the caller writes into the reported line
		outcome := engine.Status()
		outcome.Line[0] = pos(2, 2)

		// Then: the engine keeps its line
		assert.Equal(t, pos(0, 0), engine.Status().Line[0])
	})

	t.Run("Snapshot reflects the engine state", func(t *testing.T) {
		// Given: a game with two moves
		engine := newEngine(t)
		play(t, engine, pos(0, 0), pos(2, 2))

		// When: taking a snapshot
		game := engine.Snapshot()

		// Then: every field matches
		assert.Equal(t, &entity.Game{
			Size:           3,
			Board:          [][]entity.Mark{{x, e, e}, {e, e, e}, {e, e, o}},
			Turn:           x,
			StartingPlayer: x,
			Status:         entity.StatusInProgress,
			Moves:          2,
			Message:        "Player X's turn",
		}, game)
	})
}

func TestEngine_LargerBoard(t *testing.T) {
	// Given: a 4x4 engine
	engine, err := NewEngine(Config{Size: 4, StartingPlayer: x})
	require.NoError(t, err)

	// When: X fills the anti-diagonal while O plays the first row
	outcome := play(t, engine,
		pos(0, 3), pos(0, 0),
		pos(1, 2), pos(0, 1),
		pos(2, 1), pos(0, 2),
		pos(3, 0),
	)

	// Then: X wins with the anti-diagonal
	assert.Equal(t, entity.Outcome{
		Status: entity.StatusWon,
		Winner: x,
		Line:   []entity.Position{pos(0, 3), pos(1, 2), pos(2, 1), pos(3, 0)},
	}, outcome)

	// And: (3,3) is inside a 4x4 board
	_, err = engine.AttemptMove(3, 3)
	assert.ErrorIs(t, err, apperror.ErrGameFinished)
}

func TestEngine_ConcurrentMoves(t *testing.T) {
	// Given: a new game
	engine := newEngine(t)

	// When: every cell is attempted concurrently
	var wg sync.WaitGroup
	results := make(chan error, 9)
	for row := range 3 {
		for col := range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := engine.AttemptMove(row, col)
				results <- err
			}()
		}
	}
	wg.Wait()
	close(results)

	// Then: accepted moves match the board and rejections only come from a finished game
	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	}

	assert.Equal(t, accepted, engine.Moves())
	if accepted < 9 {
		assert.Equal(t, entity.StatusWon, engine.Status().Status)
	}
}

func containsPosition(line Line, target entity.Position) bool {
	for _, p := range line {
		if p == target {
			return true
		}
	}

	return false
}
