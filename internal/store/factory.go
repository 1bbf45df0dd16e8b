package store

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/kriedko/tastepulse/internal/config"
	"github.com/kriedko/tastepulse/internal/database"
	"github.com/kriedko/tastepulse/internal/domain"
	"github.com/kriedko/tastepulse/internal/filestore"
	"github.com/kriedko/tastepulse/internal/redis"
)

// Open resolves the configured backend kinds into a SubmissionStore.
// When a mirror backend is configured, the primary is wrapped so mutations
// forward to the secondary best-effort. The returned close function
// releases every opened connection.
func Open(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (domain.SubmissionStore, func(), error) {
	primary, closePrimary, err := openBackend(ctx, cfg.StoreBackend, cfg, clock)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s backend: %w", cfg.StoreBackend, err)
	}

	if cfg.MirrorBackend == "" {
		return primary, closePrimary, nil
	}

	secondary, closeSecondary, err := openBackend(ctx, cfg.MirrorBackend, cfg, clock)
	if err != nil {
		closePrimary()
		return nil, nil, fmt.Errorf("failed to open %s mirror backend: %w", cfg.MirrorBackend, err)
	}

	closeAll := func() {
		closeSecondary()
		closePrimary()
	}
	return NewMirror(primary, secondary), closeAll, nil
}

func openBackend(ctx context.Context, kind string, cfg *config.Config, clock clockwork.Clock) (domain.SubmissionStore, func(), error) {
	switch kind {
	case config.BackendMemory:
		return NewMemoryStore(), func() {}, nil

	case config.BackendFile:
		s, err := filestore.New(cfg.DataFile, clock)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSubmissionStore(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return database.NewSubmissionRepo(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend kind %q", kind)
	}
}
