package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	DefaultBoardSize = 3
	MinBoardSize     = 3
	MaxBoardSize     = 9
)

// Config is fixed for the lifetime of an Engine.
type Config struct {
	Size           int
	StartingPlayer entity.Mark
}

func DefaultConfig() Config {
	return Config{
		Size:           DefaultBoardSize,
		StartingPlayer: entity.PlayerX,
	}
}

// NewConfig - builds a validated Config from raw settings.
func NewConfig(size int, startingPlayer string) (Config, error) {
	mark, err := entity.ParseMark(startingPlayer)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse starting player: %w", err)
	}

	if mark == entity.EmptyCell {
		mark = entity.PlayerX
	}

	conf := Config{Size: size, StartingPlayer: mark}
	if err = conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (that Config) Validate() error {
	if that.Size < MinBoardSize || that.Size > MaxBoardSize {
		return fmt.Errorf("%w: %d, must be between %d and %d", apperror.ErrInvalidBoardSize, that.Size, MinBoardSize, MaxBoardSize)
	}

	if !that.StartingPlayer.IsPlayer() {
		return fmt.Errorf("%w: starting player %q", apperror.ErrInvalidPlayer, that.StartingPlayer)
	}

	return nil
}
