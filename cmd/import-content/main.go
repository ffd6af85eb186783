// Package main imports trivia game content from YAML files into the database.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/ayoola66/excellence-games/internal/config"
	"github.com/ayoola66/excellence-games/internal/game/catalog"
	"github.com/ayoola66/excellence-games/internal/observability"
	"github.com/ayoola66/excellence-games/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sourceDir := flag.String("source", "content/games", "directory containing game YAML files")
	timeout := flag.Duration("timeout", 60*time.Second, "overall import timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync()

	games, err := catalog.LoadGamesFromDir(*sourceDir)
	if err != nil {
		logger.Fatal("loading game content", zap.String("source", *sourceDir), zap.Error(err))
	}
	if len(games) == 0 {
		logger.Fatal("no game files found", zap.String("source", *sourceDir))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	repo := postgres.NewGameRepository(pool.DB())

	imported := 0
	for _, game := range games {
		questions := 0
		for _, cat := range game.Categories {
			questions += len(cat.Questions)
		}
		if err := repo.UpsertGame(ctx, game); err != nil {
			logger.Fatal("importing game",
				zap.String("game_id", game.ID),
				zap.Error(err))
		}
		logger.Info("imported game",
			zap.String("game_id", game.ID),
			zap.String("name", game.Name),
			zap.Int("categories", len(game.Categories)),
			zap.Int("questions", questions))
		imported++
	}

	logger.Info("import complete", zap.Int("games", imported))
}
