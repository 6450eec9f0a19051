package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// session - one live game. Engine calls and saves happen under mu.
type session struct {
	mu      sync.Mutex
	id      string
	engine  *tictactoe.Engine
	deleted bool
}

// GameManager keeps live engines in memory and their snapshots in the repository.
type GameManager struct {
	logger   *slog.Logger
	conf     tictactoe.Config
	gameRepo gameRepo

	mu    sync.RWMutex
	games map[string]*session
}

func NewGameManager(logger *slog.Logger, conf tictactoe.Config, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		conf:   conf,

		gameRepo: gameRepo,
		games:    make(map[string]*session),
	}
}

// CreateGame - starts a new game. EmptyCell keeps the configured starting player.
func (that *GameManager) CreateGame(ctx context.Context, startingPlayer entity.Mark) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame")

	engine, err := tictactoe.NewEngine(that.conf)
	if err != nil {
		return nil, fmt.Errorf("failed create engine: %w", err)
	}

	engine.Reset(startingPlayer)

	game := &session{
		id:     uuid.NewString(),
		engine: engine,
	}

	snapshot := game.snapshot()
	if err = that.updateGame(ctx, snapshot); err != nil {
		return nil, err
	}

	that.mu.Lock()
	that.games[game.id] = game
	that.mu.Unlock()

	log.Info("game created", "game_id", game.id, "starting_player", snapshot.StartingPlayer.String())

	return snapshot, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	if game.deleted {
		return nil, apperror.ErrGameNotFound
	}

	return game.snapshot(), nil
}

// MakeMove - plays the current player's mark at (row, col).
// A rejected move returns the unchanged game together with the error.
func (that *GameManager) MakeMove(ctx context.Context, id string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "game_id", id)

	game, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	if game.deleted {
		return nil, apperror.ErrGameNotFound
	}

	previous := game.snapshot()

	if _, err = game.engine.AttemptMove(row, col); err != nil {
		log.Debug("move rejected", "row", row, "col", col, "error", err)

		return previous, fmt.Errorf("failed make move: %w", err)
	}

	snapshot := game.snapshot()
	if err = that.updateGame(ctx, snapshot); err != nil {
		that.rollback(game, previous)

		return nil, err
	}

	if snapshot.IsFinished() {
		log.Info("game finished", "status", snapshot.Status.String(), "winner", snapshot.Winner.String(),
			"wins", snapshot.Score.Of(snapshot.Winner))
	}

	return snapshot, nil
}

// ResetGame - clears the board. EmptyCell keeps the previous starting player.
func (that *GameManager) ResetGame(ctx context.Context, id string, startingPlayer entity.Mark) (*entity.Game, error) {
	game, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	if game.deleted {
		return nil, apperror.ErrGameNotFound
	}

	previous := game.snapshot()

	game.engine.Reset(startingPlayer)

	snapshot := game.snapshot()
	if err = that.updateGame(ctx, snapshot); err != nil {
		that.rollback(game, previous)

		return nil, err
	}

	return snapshot, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	log := that.logger.With("method", "DeleteGame", "game_id", id)

	that.mu.Lock()
	game, inMemory := that.games[id]
	delete(that.games, id)
	that.mu.Unlock()

	if inMemory {
		game.mu.Lock()
		defer game.mu.Unlock()

		game.deleted = true
	}

	err := that.gameRepo.DeleteByID(ctx, id)
	if errors.Is(err, apperror.ErrGameNotFound) && inMemory {
		err = nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	log.Info("game deleted")

	return nil
}

// getSession - returns the live game, restoring it from the repository if needed.
func (that *GameManager) getSession(ctx context.Context, id string) (*session, error) {
	that.mu.RLock()
	game, ok := that.games[id]
	that.mu.RUnlock()

	if ok {
		return game, nil
	}

	stored, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := tictactoe.Restore(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another caller may have restored it meanwhile
	if game, ok = that.games[id]; ok {
		return game, nil
	}

	game = &session{
		id:     id,
		engine: engine,
	}
	that.games[id] = game

	return game, nil
}

// rollback - puts the engine back to previous after a failed save.
// The caller holds game.mu. If previous cannot be restored the game is
// evicted and reloaded from storage on next access.
func (that *GameManager) rollback(game *session, previous *entity.Game) {
	engine, err := tictactoe.Restore(previous)
	if err == nil {
		game.engine = engine

		return
	}

	that.logger.Error("failed to roll back game, evicting", "game_id", game.id, "error", err)

	game.deleted = true

	that.mu.Lock()
	if that.games[game.id] == game {
		delete(that.games, game.id)
	}
	that.mu.Unlock()
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *session) snapshot() *entity.Game {
	game := that.engine.Snapshot()
	game.ID = that.id

	return game
}
