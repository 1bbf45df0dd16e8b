// Command migrate-store copies every submission from one backend to
// another, for moving an installation between storage kinds (say flat-file
// to PostgreSQL) without losing collected feedback.
//
// The destination is overwritten wholesale. Run with --dry-run first.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kriedko/tastepulse/internal/config"
	"github.com/kriedko/tastepulse/internal/store"
)

func main() {
	var (
		from    = flag.String("from", "", "source backend (memory, file, redis, postgres)")
		to      = flag.String("to", "", "destination backend (memory, file, redis, postgres)")
		dryRun  = flag.Bool("dry-run", false, "Dry run mode (don't write to the destination)")
		verbose = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *from == "" || *to == "" {
		log.Fatal("both --from and --to are required")
	}
	if *from == *to {
		log.Fatal("--from and --to must differ")
	}

	// Configure logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	// Backend connection details come from the same env vars the server
	// reads; only the backend selection is overridden per side.
	base := config.Config{
		DataFile:    envOr("DATA_FILE", "data/submissions.json"),
		RedisURL:    os.Getenv("REDIS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	clock := clockwork.NewRealClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	srcCfg := base
	srcCfg.StoreBackend = *from
	src, closeSrc, err := store.Open(ctx, &srcCfg, clock)
	if err != nil {
		log.Fatalf("Failed to open source backend: %v", err)
	}
	defer closeSrc()

	dstCfg := base
	dstCfg.StoreBackend = *to
	dst, closeDst, err := store.Open(ctx, &dstCfg, clock)
	if err != nil {
		log.Fatalf("Failed to open destination backend: %v", err)
	}
	defer closeDst()

	subs, err := src.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load submissions from %s: %v", *from, err)
	}
	slog.Info("Loaded submissions", "backend", *from, "count", len(subs))

	if *dryRun {
		slog.Info("Dry run, destination untouched", "would_write", len(subs), "backend", *to)
		return
	}

	if err := dst.ReplaceAll(ctx, subs); err != nil {
		log.Fatalf("Failed to write submissions to %s: %v", *to, err)
	}
	slog.Info("Migration complete", "backend", *to, "count", len(subs))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
