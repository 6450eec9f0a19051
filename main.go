package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/tictactoe-engine/internal"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// main - is the entry point of the application. It loads .env and runs the selected command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env file: %v\n", err)
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "tictactoe",
		Usage: "tic-tac-toe game engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yml",
				Usage:   "path to the config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve games over HTTP",
				Action: func(_ context.Context, cmd *cli.Command) error {
					conf := config.MustLoad(cmd.String("config"))
					logger := initLogger(conf, os.Stdout)

					if err := app.RunApp(logger, conf); err != nil {
						return fmt.Errorf("app run failed: %w", err)
					}

					return nil
				},
			},
			{
				Name:      "replay",
				Usage:     "play moves on a fresh board and print the final game",
				ArgsUsage: `"row,col" ...`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "start",
						Usage: "starting player, X or O (defaults to the config)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					conf := config.MustLoad(cmd.String("config"))
					logger := initLogger(conf, os.Stderr)

					engineConf, err := tictactoe.NewConfig(conf.Board.Size, conf.Board.StartingPlayer)
					if err != nil {
						return fmt.Errorf("invalid board config: %w", err)
					}

					if start := cmd.String("start"); start != "" {
						if engineConf.StartingPlayer, err = entity.ParseMark(start); err != nil {
							return err
						}
					}

					return app.Replay(logger, engineConf, cmd.Args().Slice(), os.Stdout)
				},
			},
		},
	}
}

// initialize logger.
func initLogger(conf *config.Config, out io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
