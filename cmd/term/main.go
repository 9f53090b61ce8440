package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/infrastructure/storage"
	"dungeon-kernel/internal/term"
	"dungeon-kernel/internal/version"
	"dungeon-kernel/pkg/logger"

	"github.com/gdamore/tcell/v2"
)

func main() {
	logger.Init()
	// Логи ломали бы отрисовку экрана.
	if os.Getenv("LOG_OUTPUT") == "" {
		logger.Redirect(io.Discard)
	}

	cfg := engine.NewConfig()
	var seed int64
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for random)")
	flag.StringVar(&cfg.RecordPath, "record", "", "Write the session's replay here on exit")
	flag.IntVar(&cfg.Dungeon.Width, "width", cfg.Dungeon.Width, "Map width")
	flag.IntVar(&cfg.Dungeon.Height, "height", cfg.Dungeon.Height, "Map height")
	flag.Parse()
	if seed != 0 {
		cfg.Seed = seed
	}
	logger.Log.Info(version.String())

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg engine.Config) error {
	g, err := engine.NewGame(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	runErr := g.Run(ctx, term.New(screen))
	screen.Fini()

	if cfg.RecordPath != "" {
		if err := storage.SaveFile(cfg.RecordPath, g.Replay()); err != nil {
			return err
		}
	}

	fmt.Printf("Seed %d, turn %d.\n", cfg.Seed, g.Turn)
	for _, line := range g.Ctx.Log.Recent(engine.SnapshotLogLimit) {
		fmt.Println(line)
	}
	return runErr
}
