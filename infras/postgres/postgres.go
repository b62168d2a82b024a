package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"donorlink/config"
	"donorlink/shared/constant"
	"donorlink/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Connection splits traffic between a read replica and the primary.
// Locks and transactions always go to Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  open("read", cfg.DB.Postgres.Read, *cfg),
		Write: open("write", cfg.DB.Postgres.Write, *cfg),
	}
}

// WithTx runs fn inside a write transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close releases both pools.
func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connection")
		}
	}
}

// IsUniqueViolation reports whether err carries a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	return pqCode(err) == constant.PqErrorCodeUniqueViolation
}

// IsConnectionError reports whether err is a transient connectivity failure
// (class 08 connection exceptions or a broken driver connection).
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if strings.HasPrefix(pqCode(err), pqConnectionClass) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

const pqConnectionClass = "08"

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func connectedEvent(role string, endpoint config.PostgresEndpoint, prefix string) *zerolog.Event {
	return log.Info().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("db", endpoint.DatabaseName(prefix))
}

// open dials one endpoint, retrying MaxRetry times. It gives up with a fatal log,
// since no component can run without its pool.
func open(role string, endpoint config.PostgresEndpoint, cfg config.Config) *sqlx.DB {
	pg := cfg.DB.Postgres
	wait := time.Duration(pg.RetryWaitTime) * time.Second
	dsn := endpoint.DSN(pg.Prefix, nil)

	var lastErr error

	for attempt := 1; attempt <= pg.MaxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)

			connectedEvent(role, endpoint, pg.Prefix).Int("max_open", pg.MaxOpenConns).Msg("connected to postgres")

			return db
		}

		lastErr = err

		log.Warn().
			Err(err).
			Str("role", role).
			Str("host", endpoint.Host).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("failed connecting to postgres")

		time.Sleep(wait)
	}

	log.Fatal().Err(lastErr).Str("role", role).Str("host", endpoint.Host).Msg("giving up on postgres")

	return nil
}
