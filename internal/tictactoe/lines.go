package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// Line is a sequence of cells whose uniform occupation by one player wins the game.
type Line []entity.Position

// WinLines - lists every line of a size x size board in scan order:
// rows top to bottom, columns left to right, main diagonal, anti-diagonal.
func WinLines(size int) []Line {
	lines := make([]Line, 0, 2*size+2)

	for row := range size {
		line := make(Line, 0, size)
		for col := range size {
			line = append(line, entity.Position{Row: row, Col: col})
		}
		lines = append(lines, line)
	}

	for col := range size {
		line := make(Line, 0, size)
		for row := range size {
			line = append(line, entity.Position{Row: row, Col: col})
		}
		lines = append(lines, line)
	}

	mainDiagonal := make(Line, 0, size)
	antiDiagonal := make(Line, 0, size)
	for i := range size {
		mainDiagonal = append(mainDiagonal, entity.Position{Row: i, Col: i})
		antiDiagonal = append(antiDiagonal, entity.Position{Row: i, Col: size - 1 - i})
	}

	return append(lines, mainDiagonal, antiDiagonal)
}
