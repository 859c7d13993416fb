// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"qa-workers/internal/common/config"
)

const connLifetime = 5 * time.Minute

// Postgres is the connection pool behind the answer archive.
type Postgres struct {
	DB *sql.DB
}

// OpenPostgres opens the archive pool and verifies it with a ping bounded
// by pingTimeout. The pool is closed again when the ping fails.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig, pingTimeout time.Duration) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres %s/%s: %w", cfg.Host, cfg.Database, err)
	}

	pg := newPostgres(db, cfg)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pg.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres %s/%s: %w", cfg.Host, cfg.Database, err)
	}
	return pg, nil
}

func newPostgres(db *sql.DB, cfg config.PostgresConfig) *Postgres {
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(connLifetime)
	db.SetConnMaxIdleTime(connLifetime)
	return &Postgres{DB: db}
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p.DB == nil {
		return nil
	}
	return p.DB.Close()
}
