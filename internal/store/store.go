package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"

	"groupmap/internal/config"
	"groupmap/internal/logging"
)

var (
	// ErrUnavailable tags failures where the authoritative store could not
	// be reached or a statement could not run. Groups hitting it fail
	// individually; the run continues.
	ErrUnavailable = errors.New("authoritative store unavailable")
	// ErrNotFound reports a group ID with no canonical record.
	ErrNotFound = errors.New("group not found")
)

// Store owns the connection pool to the authoritative relational store. All
// per-group reads and writes go through a Session pinned to one connection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the configured database and verifies reachability before
// returning. The ping is retried with exponential backoff so the pipeline can
// start while the database is still coming up.
func Open(cfg config.Database, logger *slog.Logger) (*Store, error) {
	dsnCfg := mysql.NewConfig()
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsnCfg.User = cfg.User
	dsnCfg.Passwd = cfg.Password
	dsnCfg.DBName = cfg.Name

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("initialize database connection: %w", err)
	}

	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 1 * time.Minute
	attempt := 1
	err = backoff.Retry(func() error {
		if err := db.PingContext(context.Background()); err != nil {
			logger.Info("waiting for database", logging.Int("attempt", attempt))
			attempt++
			return err
		}
		return nil
	}, policy)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrUnavailable, err)
	}

	return New(db, logger), nil
}

// New wraps an existing connection pool. Open is the production path; New
// exists so tests can supply their own pool.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		db:     db,
		logger: logging.NewComponentLogger(logger, "store"),
	}
}

// GroupIDs lists every group in the canonical table, ordered by ID.
func (s *Store) GroupIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM school ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: list groups: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan group id: %w", ErrUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list groups: %w", ErrUnavailable, err)
	}
	return ids, nil
}

// Session pins a single connection for one worker's group processing.
func (s *Store) Session(ctx context.Context) (*Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %w", ErrUnavailable, err)
	}
	return &Session{conn: conn, logger: s.logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
