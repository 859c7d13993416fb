package pipeline

import (
	"context"
	"errors"
	"time"

	"qa-workers/internal/archive"
	"qa-workers/internal/common/config"
	"qa-workers/internal/common/database"
	"qa-workers/internal/common/logger"
)

const pingTimeout = 5 * time.Second

// Resources holds the optional backing stores named in the configuration.
type Resources struct {
	PageCache *database.PageCache
	Postgres  *database.Postgres
	Archive   *archive.Store
}

// OpenResources connects the page cache and the answer archive when they
// are enabled. An unreachable cache is logged and skipped; an unreachable
// archive is an error.
func OpenResources(ctx context.Context, cfg *config.Config, log logger.Logger) (*Resources, error) {
	res := &Resources{}

	if cfg.Cache.Enabled {
		cache := database.NewPageCache(database.NewRedis(cfg.Cache), cfg.Cache.TTLDuration())
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := cache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("page cache unavailable, continuing without it", map[string]interface{}{
				"address": cfg.Cache.Address,
				"error":   err.Error(),
			})
			cache.Close()
		} else {
			log.Info("page cache connected", map[string]interface{}{"address": cfg.Cache.Address})
			res.PageCache = cache
		}
	}

	if cfg.Archive.Enabled {
		pg, err := database.OpenPostgres(ctx, cfg.Archive.Postgres, pingTimeout)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.Postgres = pg

		store := archive.NewStore(pg.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			res.Close()
			return nil, err
		}
		res.Archive = store
		log.Info("answer archive connected", map[string]interface{}{
			"host":     cfg.Archive.Postgres.Host,
			"database": cfg.Archive.Postgres.Database,
		})
	}

	return res, nil
}

// Options returns the pipeline options for the opened resources.
func (r *Resources) Options() []Option {
	var opts []Option
	if r.PageCache != nil {
		opts = append(opts, WithPageCache(r.PageCache))
	}
	if r.Archive != nil {
		opts = append(opts, WithArchive(r.Archive))
	}
	return opts
}

func (r *Resources) Close() error {
	var errs []error
	if r.PageCache != nil {
		errs = append(errs, r.PageCache.Close())
	}
	if r.Postgres != nil {
		errs = append(errs, r.Postgres.Close())
	}
	return errors.Join(errs...)
}
