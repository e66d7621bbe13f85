package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"cavern-combat/internal/domain"
	"cavern-combat/internal/engine"
	"cavern-combat/internal/infrastructure/storage"
	"cavern-combat/internal/server"
	"cavern-combat/internal/version"
	"cavern-combat/pkg/dungeon"
	"cavern-combat/pkg/logger"

	"github.com/joho/godotenv"
)

func init() {
	// .env необязателен: переменные окружения процесса имеют приоритет
	_ = godotenv.Load()
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		mapPath    string
		configPath string
		search     bool
		serve      bool
		seed       int64
		render     bool
		recordDir  string
		verifyPath string
	)
	flag.StringVar(&mapPath, "map", "", "Path to a cavern layout file")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.BoolVar(&search, "search", false, "Also find the minimum elf attack power for a flawless victory")
	flag.BoolVar(&serve, "serve", false, "Start the HTTP/websocket server")
	flag.Int64Var(&seed, "random", 0, "Generate a random cavern with this seed instead of -map")
	flag.BoolVar(&render, "render", false, "Print the final state of the battle")
	flag.StringVar(&recordDir, "record", "", "Save a turn-by-turn record of the battle into this directory")
	flag.StringVar(&verifyPath, "verify", "", "Replay a saved battle record and check it turn by turn")
	flag.Parse()

	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// РЕЖИМ СЕРВЕРА
	if serve {
		port := os.Getenv("CAVERN_PORT")
		if port == "" {
			port = "8080"
		}

		svc := engine.NewBattleService(ctx, cfg)
		if err := server.New(svc, port).Run(ctx); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
		logger.Log.Info("Done.")
		return
	}

	// РЕЖИМ ПРОВЕРКИ ЗАПИСИ
	if verifyPath != "" {
		store := &storage.RecordStore{}
		rec, err := store.Load(verifyPath)
		if err != nil {
			logger.Log.Fatal("Failed to load record: ", err)
		}
		outcome, err := engine.VerifyRecord(ctx, rec, cfg)
		if err != nil {
			exitOnError(err)
		}
		fmt.Printf("Record OK (%d turns). Outcome: %s\n", len(rec.Turns), outcome)
		return
	}

	// РЕЖИМ ОДНОГО БОЯ
	layout, err := readLayout(mapPath, seed)
	if err != nil {
		logger.Log.Fatal(err)
	}

	m, roster, err := dungeon.ParseBattle(layout)
	if err != nil {
		logger.Log.Fatal("Failed to parse cavern: ", err)
	}

	if err := runBattle(ctx, m, roster, cfg, render); err != nil {
		exitOnError(err)
	}

	if recordDir != "" {
		if err := saveRecord(ctx, recordDir, layout, cfg); err != nil {
			exitOnError(err)
		}
	}

	if search {
		res, err := engine.FindMinimumWinningPower(ctx, m, roster, cfg.Protected(), cfg)
		if err != nil {
			exitOnError(err)
		}
		fmt.Printf("Minimum %s attack power: %d\n", res.Protected, res.Power)
		fmt.Printf("Outcome: %s\n", res.Outcome)
	}
}

func readLayout(path string, seed int64) (string, error) {
	if seed != 0 {
		layout := dungeon.NewCavern(rand.New(rand.NewSource(seed))).
			WithRooms(20).
			SpawnUnits(domain.FactionElf, 10).
			SpawnUnits(domain.FactionGoblin, 20).
			Layout()
		fmt.Println(layout)
		fmt.Println()
		return layout, nil
	}
	if path == "" {
		return "", errors.New("either -map, -random or -serve is required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read map %s: %w", path, err)
	}
	return string(b), nil
}

func runBattle(ctx context.Context, m *domain.GridMap, initial *domain.Roster, cfg engine.Config, render bool) error {
	roster := initial.Clone()
	cfg.Apply(roster)

	b, err := engine.NewBattle("cli", m, roster, cfg)
	if err != nil {
		return err
	}

	outcome, err := b.Run(ctx)
	if err != nil {
		return err
	}

	if render {
		fmt.Print(b.Snapshot())
	}
	fmt.Printf("Outcome: %s\n", outcome)
	return nil
}

func saveRecord(ctx context.Context, dir, layout string, cfg engine.Config) error {
	store, err := storage.NewRecordStore(dir)
	if err != nil {
		return err
	}
	_, rec, err := engine.Record(ctx, layout, cfg)
	if err != nil {
		return err
	}
	path, err := store.Save(rec)
	if err != nil {
		return err
	}
	logger.Log.WithField("turns", len(rec.Turns)).Infof("Battle record saved to %s", path)
	return nil
}

// exitOnError печатает дамп поля при нарушении инварианта
func exitOnError(err error) {
	var iv *domain.InvariantViolation
	if errors.As(err, &iv) {
		fmt.Fprint(os.Stderr, iv.Dump)
	}
	logger.Log.Fatal(err)
}
