package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/usersapi/pkg/logger"
)

// Run executes the complete smoke workflow against cfg.BaseURL and leaves the
// server holding the seed collection.
func Run(ctx context.Context, cfg *Config, l logger.Logger) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Nop()
	}

	stats := &Stats{StartTime: time.Now()}
	c := newClient(cfg, l)
	defer func() {
		stats.Requests = c.requests.Load()
		stats.Failed = c.failed.Load()
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	l.Info(ctx, "starting users smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.NumUsers),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	// Step 1: Check service health
	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Start from the seed collection
	if err := c.reset(ctx); err != nil {
		return stats, fmt.Errorf("reset failed: %w", err)
	}
	seeds, err := c.list(ctx)
	if err != nil {
		return stats, fmt.Errorf("list failed: %w", err)
	}
	if err := verifySeeds(seeds); err != nil {
		return stats, err
	}
	l.Info(ctx, "seed collection verified")

	// Step 3: Create users concurrently
	created := generateUsers(cfg.NumUsers)
	err = forEach(ctx, cfg.Workers, created, func(ctx context.Context, i int, u User) error {
		id, err := c.create(ctx, u.Name, u.Age)
		created[i].ID = id
		return err
	})
	if err != nil {
		return stats, fmt.Errorf("create failed: %w", err)
	}
	stats.Created = len(created)

	// Step 4: Verify every created user is listed once
	listed, err := c.list(ctx)
	if err != nil {
		return stats, fmt.Errorf("list failed: %w", err)
	}
	if len(listed) != len(Seeds)+len(created) {
		return stats, fmt.Errorf("%w: expected %d users after create, got %d", ErrVerification, len(Seeds)+len(created), len(listed))
	}
	if err := verifyUniqueIDs(listed); err != nil {
		return stats, err
	}
	if err := verifyCreated(listed, created); err != nil {
		return stats, err
	}
	l.Info(ctx, "created users verified", logger.Int("created", stats.Created))

	// Step 5: Patch each age and read it back
	err = forEach(ctx, cfg.Workers, created, func(ctx context.Context, i int, u User) error {
		age := u.Age + 1
		if err := c.updateAge(ctx, u.ID, age); err != nil {
			return err
		}
		got, err := c.get(ctx, u.ID)
		if err != nil {
			return err
		}
		if got.Name != u.Name || got.Age != age {
			return fmt.Errorf("%w: user %s is %s/%v after patch, want %s/%v", ErrVerification, u.ID, got.Name, got.Age, u.Name, age)
		}
		created[i].Age = age
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("update failed: %w", err)
	}
	stats.Updated = len(created)

	// Step 6: Delete every created user
	err = forEach(ctx, cfg.Workers, created, func(ctx context.Context, _ int, u User) error {
		return c.remove(ctx, u.ID)
	})
	if err != nil {
		return stats, fmt.Errorf("delete failed: %w", err)
	}
	stats.Deleted = len(created)

	remaining, err := c.list(ctx)
	if err != nil {
		return stats, fmt.Errorf("list failed: %w", err)
	}
	if err := verifySeeds(remaining); err != nil {
		return stats, fmt.Errorf("after delete: %w", err)
	}

	// Step 7: Reset and verify the seeds once more
	if err := c.reset(ctx); err != nil {
		return stats, fmt.Errorf("reset failed: %w", err)
	}
	final, err := c.list(ctx)
	if err != nil {
		return stats, fmt.Errorf("list failed: %w", err)
	}
	if err := verifySeeds(final); err != nil {
		return stats, fmt.Errorf("after reset: %w", err)
	}

	l.Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// LogStats writes the final statistics.
func LogStats(ctx context.Context, l logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}
	l.Info(ctx, "final statistics",
		logger.Any("requests", stats.Requests),
		logger.Any("failed", stats.Failed),
		logger.Int("created", stats.Created),
		logger.Int("updated", stats.Updated),
		logger.Int("deleted", stats.Deleted),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}
