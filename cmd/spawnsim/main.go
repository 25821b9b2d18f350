package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/db"
	"github.com/udisondev/beatspawn/internal/sim"
	"github.com/udisondev/beatspawn/internal/spawner"
)

const ConfigPath = "config/spawnsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("spawnsim", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to config file (default $BEATSPAWN_CONFIG or "+ConfigPath+")")
	only := fs.String("session", "", "run only the named session")
	matrix := fs.Bool("matrix", false, "print the location accuracy matrix of every session")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	path := *cfgPath
	if path == "" {
		path = ConfigPath
		if p := os.Getenv("BEATSPAWN_CONFIG"); p != "" {
			path = p
		}
	}

	cfg, err := config.LoadSimulator(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))
	slog.Info("config loaded", "path", path, "sessions", len(cfg.Sessions), "store", cfg.StoreResults)

	sessions := cfg.Sessions
	if *only != "" {
		sessions = nil
		for _, s := range cfg.Sessions {
			if s.Name == *only {
				sessions = append(sessions, s)
			}
		}
		if len(sessions) == 0 {
			return fmt.Errorf("session %q not found in %s", *only, path)
		}
	}

	results, err := runSessions(ctx, sessions)
	if err != nil {
		return err
	}

	if cfg.StoreResults {
		if err := storeResults(ctx, cfg.Database, results); err != nil {
			return err
		}
	}

	return printSummary(out, results, *matrix)
}

// runSessions plays every session concurrently; each owns its spawner.
func runSessions(ctx context.Context, sessions []config.Session) ([]sim.Result, error) {
	results := make([]sim.Result, len(sessions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range sessions {
		g.Go(func() error {
			res, err := sim.Run(gctx, s)
			if err != nil {
				return fmt.Errorf("running session %q: %w", s.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func storeResults(ctx context.Context, cfg config.DatabaseConfig, results []sim.Result) error {
	database, err := db.New(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	version, err := db.RunMigrations(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready", "schemaVersion", version)

	repo := db.NewSessionRepository(database.Pool())
	for _, res := range results {
		id, err := repo.Save(ctx, res)
		if err != nil {
			return fmt.Errorf("saving session %q: %w", res.Name, err)
		}
		slog.Info("session stored", "id", id, "session", res.Name, "fingerprint", res.Fingerprint)
	}
	return nil
}

func printSummary(out io.Writer, results []sim.Result, withMatrix bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tMODE\tSPAWNED\tHITS\tMISSES\tHIT RATE\tBEST STREAK\tDIFFICULTY\tSEED")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f%%\t%d\t%d\t%d\n",
			r.Name, r.Mode, r.TargetsSpawned, r.Hits, r.Misses,
			r.HitRate()*100, r.BestStreak, r.FinalDifficulty, r.Seed)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if !withMatrix {
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "\n%s accuracy:\n", r.Name)
		printMatrix(out, r.Accuracy)
	}
	return nil
}

func printMatrix(out io.Writer, m spawner.AccuracyMatrix) {
	for _, row := range m {
		for j, c := range row {
			if j > 0 {
				fmt.Fprint(out, " ")
			}
			if acc := c.Accuracy(); acc >= 0 {
				fmt.Fprintf(out, "%5.0f%%", acc*100)
			} else {
				fmt.Fprint(out, "     -")
			}
		}
		fmt.Fprintln(out)
	}
}
