package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context, startingPlayer entity.Mark) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeMove(ctx context.Context, id string, row, col int) (*entity.Game, error)
	ResetGame(ctx context.Context, id string, startingPlayer entity.Mark) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

// Server is the local HTTP bridge a presentation layer drives the games through.
type Server struct {
	logger *slog.Logger
	games  gameUseCase

	router *mux.Router
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		games:  games,
		router: mux.NewRouter(),
	}

	server.router.HandleFunc("/ping", server.handlePing).Methods(http.MethodGet)

	server.router.HandleFunc("/games", server.handleCreateGame).Methods(http.MethodPost)

	gamesRouter := server.router.PathPrefix("/games").Subrouter()
	gamesRouter.HandleFunc("/{id}", server.handleGetGame).Methods(http.MethodGet)
	gamesRouter.HandleFunc("/{id}", server.handleDeleteGame).Methods(http.MethodDelete)
	gamesRouter.HandleFunc("/{id}/moves", server.handleMakeMove).Methods(http.MethodPost)
	gamesRouter.HandleFunc("/{id}/reset", server.handleResetGame).Methods(http.MethodPost)

	return server
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.router.ServeHTTP(w, r)
}

// Start - serves HTTP on port until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
