// Command macrocosm runs the multi-scale civilization simulation engine.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talgya/macrocosm/internal/api"
	"github.com/talgya/macrocosm/internal/controller"
	"github.com/talgya/macrocosm/internal/entropy"
	"github.com/talgya/macrocosm/internal/persistence"
	"github.com/talgya/macrocosm/internal/renorm"
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
	"github.com/talgya/macrocosm/internal/worldgen"
)

// autosaveEvery is the tick cadence of database saves.
const autosaveEvery = 50

var rootCmd = &cobra.Command{
	Use:   "macrocosm",
	Short: "Multi-scale civilization simulation engine",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the saved hierarchy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect()
	},
}

func main() {
	rootCmd.AddCommand(runCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run() error {
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := getEnv("MACROCOSM_DB", "data/macrocosm.db")
	snapshotDir := getEnv("MACROCOSM_SNAPSHOT_DIR", "data/snapshots")
	adminKey := os.Getenv("MACROCOSM_ADMIN_KEY")
	apiPort, err := strconv.Atoi(getEnv("MACROCOSM_PORT", "8080"))
	if err != nil {
		return fmt.Errorf("MACROCOSM_PORT: %w", err)
	}
	seed, err := strconv.ParseInt(getEnv("MACROCOSM_SEED", "42"), 10, 64)
	if err != nil {
		return fmt.Errorf("MACROCOSM_SEED: %w", err)
	}

	tune := tuning.Default()
	if path := os.Getenv("MACROCOSM_TUNING"); path != "" {
		tune, err = tuning.Load(path)
		if err != nil {
			return fmt.Errorf("load tuning: %w", err)
		}
		slog.Info("tuning loaded", "path", path)
	}

	os.MkdirAll("data", 0o755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	var roots []*tier.Node
	var startTick uint64

	if db.HasWorldState() {
		slog.Info("found saved hierarchy, loading...")
		roots, err = db.LoadTree()
		if err != nil {
			return fmt.Errorf("load hierarchy: %w", err)
		}
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}
		slog.Info("hierarchy restored", "roots", len(roots), "tick", startTick)
	} else {
		slog.Info("no saved state found, generating new hierarchy...", "seed", seed)
		cfg := worldgen.DefaultGenConfig()
		cfg.Seed = seed
		galaxy, err := worldgen.Generate(cfg)
		if err != nil {
			return fmt.Errorf("generate hierarchy: %w", err)
		}
		roots = []*tier.Node{galaxy}
		slog.Info("hierarchy generated",
			"galaxy", galaxy.Name,
			"population", humanize.Comma(int64(galaxy.Pop.Count)),
		)
	}

	engine := renorm.New(tune, seed)
	ctrl, err := controller.New(engine, roots)
	if err != nil {
		return err
	}
	ctrl.Tick = startTick
	ctrl.Parallel = len(roots) > 1

	if startTick == 0 {
		if err := db.SaveWorldState(roots, 0); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	ctrl.OnTick = func(tick uint64) {
		if tick%autosaveEvery == 0 {
			if err := db.SaveWorldState(roots, tick); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	}

	ent := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
	if adminKey == "" {
		slog.Warn("MACROCOSM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Ctrl:        ctrl,
		DB:          db,
		Entropy:     ent,
		Port:        apiPort,
		AdminKey:    adminKey,
		SnapshotDir: snapshotDir,
	}
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		ctrl.Stop()
	}()

	stats := ctrl.WorldStats()
	fmt.Printf("\nMacrocosm is alive: %s souls across %d tiers.\n",
		humanize.Comma(int64(stats.TotalPopulation)), stats.Tiers)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d\n", startTick)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	ctrl.Run()

	slog.Info("final save...")
	if err := db.SaveWorldState(roots, ctrl.Tick); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Simulation stopped. Hierarchy saved.")
	return nil
}

func inspect() error {
	godotenv.Load()
	dbPath := getEnv("MACROCOSM_DB", "data/macrocosm.db")

	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	roots, err := db.LoadTree()
	if err != nil {
		return fmt.Errorf("load hierarchy: %w", err)
	}
	if len(roots) == 0 {
		fmt.Println("No saved hierarchy.")
		return nil
	}
	for _, root := range roots {
		printTree(root, 0)
	}
	return nil
}

func printTree(n *tier.Node, depth int) {
	fmt.Printf("%s%s %q pop=%s tech=%d mode=%s\n",
		strings.Repeat("  ", depth),
		n.Level, n.Name,
		humanize.Comma(int64(n.Pop.Count)),
		n.Tech.Level, n.Mode,
	)
	for _, c := range n.Children {
		printTree(c, depth+1)
	}
}
