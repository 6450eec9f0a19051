package entity

// Game is a serialisable snapshot of a single match.
type Game struct {
	ID             string     `json:"id"`
	Size           int        `json:"size"`
	Board          [][]Mark   `json:"board"`
	Turn           Mark       `json:"turn"`
	StartingPlayer Mark       `json:"starting_player"`
	Status         Status     `json:"status"`
	Winner         Mark       `json:"winner"`
	Line           []Position `json:"line,omitempty"`
	Score          Score      `json:"score"`
	Moves          int        `json:"moves"`
	Message        string     `json:"message,omitempty"`
}

func (that *Game) Outcome() Outcome {
	return Outcome{
		Status: that.Status,
		Winner: that.Winner,
		Line:   that.Line,
	}
}

func (that *Game) IsFinished() bool {
	return that.Outcome().IsFinished()
}

func (that *Game) IsOngoing() bool {
	return that.Outcome().IsOngoing()
}
