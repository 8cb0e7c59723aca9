// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recruiter-allocation/internal/allocation/assignment"
	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/eligibility"
	"recruiter-allocation/internal/allocation/matching"
	"recruiter-allocation/internal/allocation/notify"
	"recruiter-allocation/internal/allocation/orchestrator"
	"recruiter-allocation/internal/allocation/recruiters"
	"recruiter-allocation/internal/common/aws"
	"recruiter-allocation/internal/common/config"
	"recruiter-allocation/internal/common/database"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/observability"
	"recruiter-allocation/internal/common/validation"
	"recruiter-allocation/pkg/registry"

	"github.com/redis/go-redis/v9"
)

// App holds the allocation core and the connections it runs on. It is shared
// by the worker manager and the CLI.
type App struct {
	Config       *config.Config
	Postgres     *database.PostgresClient
	Redis        *database.RedisClient
	Orchestrator *orchestrator.Orchestrator
	Recruiters   *recruiters.Pool
	Roles        *matching.CachedRoleSource // nil when the role cache is off
	Validator    *validation.Validator
	Registry     *registry.ActivityRegistry

	logger  logger.Logger
	closers []func() error
}

// Build connects to Postgres and Redis and assembles the allocation core.
// Connection attempts are retried with backoff.
func Build(ctx context.Context, cfg *config.Config, obs *observability.Observability, log logger.Logger) (*App, error) {
	a := &App{Config: cfg, logger: log}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	a.Postgres = pg
	a.closers = append(a.closers, pg.Close)
	if err := retryWithBackoff(ctx, 15, 2*time.Second, log, "PostgreSQL connection", pg.Ping); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("PostgreSQL connected successfully", nil)

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Redis = rdb
	a.closers = append(a.closers, rdb.Close)
	if err := retryWithBackoff(ctx, 10, 2*time.Second, log, "Redis connection", rdb.Ping); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("Redis connected successfully", nil)

	publisher, err := a.buildPublishers(ctx, rdb.Cmdable())
	if err != nil {
		a.Close()
		return nil, err
	}

	reg, err := registry.Default()
	if err != nil {
		a.Close()
		return nil, err
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Registry = reg
	a.Validator = validator

	db := pg.GetDB()
	repo := matching.NewRepository(db)
	var roles matching.RoleSource = repo
	if cfg.Allocation.RoleCacheTTL > 0 {
		a.Roles = matching.NewCachedRoleSource(repo, rdb.Cmdable(),
			time.Duration(cfg.Allocation.RoleCacheTTL)*time.Second, log)
		roles = a.Roles
	}
	a.Recruiters = recruiters.NewPool(db)

	pipeline := matching.NewPipeline(roles, repo, eligibility.NewEngine(), log)

	a.Orchestrator = orchestrator.New(orchestrator.Dependencies{
		Matcher:       pipeline,
		Candidates:    repo,
		Projects:      repo,
		Assignments:   assignment.NewStore(db),
		Cursor:        newCursorStore(cfg.Allocation.CursorStore, pg, rdb),
		Publisher:     publisher,
		Observability: obs,
	}, log, orchestrator.WithNotifyTimeout(config.GetDuration(cfg.Allocation.NotifyTimeout)))

	return a, nil
}

func newCursorStore(kind string, pg *database.PostgresClient, rdb *database.RedisClient) cursor.Store {
	if kind == config.CursorStoreRedis {
		return cursor.NewRedisStore(rdb.GetClient())
	}
	return cursor.NewPostgresStore(pg.GetDB())
}

func (a *App) buildPublishers(ctx context.Context, rdb redis.Cmdable) (notify.Publisher, error) {
	ncfg := a.Config.Notifications
	if !ncfg.Enabled || len(ncfg.Drivers) == 0 {
		a.logger.Info("candidate notifications disabled", nil)
		return notify.NopPublisher{}, nil
	}

	var publishers []notify.Publisher

	if ncfg.HasDriver(config.DriverSNS) || ncfg.HasDriver(config.DriverEmail) {
		awsCfg, err := aws.LoadConfig(ctx, ncfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if ncfg.HasDriver(config.DriverSNS) {
			publishers = append(publishers, notify.NewSNSPublisher(aws.NewSNSClient(awsCfg), ncfg.SNS.TopicARN))
		}
		if ncfg.HasDriver(config.DriverEmail) {
			publishers = append(publishers, notify.NewEmailPublisher(aws.NewSESClient(awsCfg), ncfg.Email.FromEmail))
		}
	}

	if ncfg.HasDriver(config.DriverAMQP) {
		var (
			amqpPub *notify.AMQPPublisher
			closeFn func() error
		)
		err := retryWithBackoff(ctx, 5, 2*time.Second, a.logger, "AMQP connection", func(context.Context) error {
			var err error
			amqpPub, closeFn, err = notify.DialAMQP(ncfg.AMQP.URL, ncfg.AMQP.Exchange, ncfg.AMQP.RoutingKey)
			return err
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, closeFn)
		publishers = append(publishers, amqpPub)
	}

	if ncfg.HasDriver(config.DriverRedis) {
		publishers = append(publishers, notify.NewRedisPublisher(rdb, ncfg.Redis.Channel))
	}

	a.logger.Info("candidate notifications enabled", map[string]interface{}{
		"drivers": ncfg.Drivers,
	})
	return notify.NewMultiPublisher(publishers...), nil
}

// Ready pings every backing store.
func (a *App) Ready(ctx context.Context) error {
	if err := a.Postgres.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := a.Redis.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string, operation func(context.Context) error) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
