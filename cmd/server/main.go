package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"dungeon-kernel/internal/agent"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/infrastructure/storage"
	"dungeon-kernel/internal/network"
	"dungeon-kernel/internal/server"
	"dungeon-kernel/internal/version"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := engine.NewConfig()

	// Флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	var seed int64
	var botTurns int
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for random)")
	flag.StringVar(&cfg.ReplayPath, "replay", "", "Path to a .dkrp replay to re-simulate")
	flag.StringVar(&cfg.RecordPath, "record", "", "Write the session's replay here on exit")
	flag.IntVar(&botTurns, "bot", 0, "Let the autopilot play this many commands headless")
	flag.IntVar(&cfg.Dungeon.Width, "width", cfg.Dungeon.Width, "Map width")
	flag.IntVar(&cfg.Dungeon.Height, "height", cfg.Dungeon.Height, "Map height")
	flag.Parse()

	logger.Log.Info("Starting dungeon kernel...")
	logger.Log.Info(version.String())

	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit seed: %d", seed)
	} else {
		logger.Log.Infof("Using random seed: %d", cfg.Seed)
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Выбор режима: реплей, автопилот или сервер
	switch {
	case cfg.ReplayPath != "":
		runReplay(ctx, cfg)
	case botTurns > 0:
		runBot(ctx, cfg, botTurns)
	default:
		serve(ctx, cfg)
	}
}

// runReplay пересимулирует записанную сессию и выходит.
func runReplay(ctx context.Context, cfg engine.Config) {
	logger.Log.Info("Mode: replay simulation")

	session, err := storage.LoadFile(cfg.ReplayPath)
	if err != nil {
		logger.Log.Fatal("Failed to load replay: ", err)
	}

	g, err := engine.PlayReplay(ctx, cfg, session)
	if err != nil {
		logger.Log.Fatal("Replay failed: ", err)
	}
	report(g)
}

// runBot дает автопилоту сыграть без сети.
func runBot(ctx context.Context, cfg engine.Config, turns int) {
	logger.Log.Info("Mode: autopilot")

	g, err := engine.NewGame(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to create game: ", err)
	}
	if err := g.Run(ctx, agent.NewBot(turns)); err != nil {
		logger.Log.Error("Autopilot stopped: ", err)
	}
	report(g)
	record(cfg, g)
}

// serve запускает сессию и HTTP/WebSocket сервер до сигнала остановки.
func serve(ctx context.Context, cfg engine.Config) {
	port := os.Getenv("DK_PORT")
	if port == "" {
		port = "8080"
	}

	g, err := engine.NewGame(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to create game: ", err)
	}

	session := server.NewSession(g, network.NewBroadcaster())
	go func() {
		if err := session.Run(ctx); err != nil {
			logger.Log.Error("Session ended: ", err)
		}
	}()

	srv := server.New(session, port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.Fatal("Server error: ", err)
	}

	logger.Log.Info("Shutting down...")
	// Ждем, пока сессия отпустит игру, и сохраняем реплей
	<-session.Done()
	record(cfg, g)
	logger.Log.Info("Done.")
}

func report(g *engine.Game) {
	logger.Log.WithFields(logrus.Fields{
		"turn":  g.Turn,
		"state": g.State.String(),
		"dead":  g.PlayerDead(),
	}).Info("Run finished")
	for _, line := range g.Ctx.Log.Recent(engine.SnapshotLogLimit) {
		logger.Log.Info("  ", line)
	}
}

func record(cfg engine.Config, g *engine.Game) {
	if cfg.RecordPath == "" {
		return
	}
	if err := storage.SaveFile(cfg.RecordPath, g.Replay()); err != nil {
		logger.Log.Error("Failed to save replay: ", err)
	}
}
