package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Status uint8

const (
	StatusInProgress Status = iota
	StatusWon
	StatusDrawn
)

const (
	statusInProgressText = "in_progress"
	statusWonText        = "won"
	statusDrawnText      = "drawn"
)

func (that Status) String() string {
	switch that {
	case StatusInProgress:
		return statusInProgressText
	case StatusWon:
		return statusWonText
	case StatusDrawn:
		return statusDrawnText
	default:
		return fmt.Sprintf("status(%d)", uint8(that))
	}
}

func (that Status) MarshalText() ([]byte, error) {
	switch that {
	case StatusInProgress, StatusWon, StatusDrawn:
		return []byte(that.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownGameStatus, uint8(that))
	}
}

func (that *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case statusInProgressText:
		*that = StatusInProgress
	case statusWonText:
		*that = StatusWon
	case statusDrawnText:
		*that = StatusDrawn
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameStatus, string(text))
	}

	return nil
}

// Position addresses a single cell, zero based.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Outcome is the classification of a game after the last move.
// Winner and Line are only set when Status is StatusWon.
type Outcome struct {
	Status Status     `json:"status"`
	Winner Mark       `json:"winner"`
	Line   []Position `json:"line,omitempty"`
}

func (that Outcome) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDrawn
}

func (that Outcome) IsOngoing() bool {
	return that.Status == StatusInProgress
}

// Score counts games won per player.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

// Of - returns the number of wins of the given player.
func (that Score) Of(player Mark) int {
	switch player {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return 0
	}
}

// Add - returns a copy of the score with one more win for player.
func (that Score) Add(player Mark) Score {
	switch player {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}

	return that
}
