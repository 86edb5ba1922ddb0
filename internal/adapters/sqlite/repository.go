package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.KlineRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/klines.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single writer avoids SQLITE_BUSY under concurrent analyses.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Kline cache ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS klines (
		market TEXT NOT NULL,
		symbol TEXT NOT NULL,
		interval TEXT NOT NULL,
		open_time INTEGER NOT NULL,
		close_time INTEGER NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		PRIMARY KEY (market, symbol, interval, open_time)
	);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveKlines upserts the series in one transaction. Times are stored as unix
// milliseconds, matching the exchange's own representation.
func (r *Repository) SaveKlines(ctx context.Context, market domain.MarketType, klines []*domain.Kline) error {
	if len(klines) == 0 {
		return nil
	}
	const query = `
	INSERT INTO klines (market, symbol, interval, open_time, close_time, open, high, low, close, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (market, symbol, interval, open_time) DO UPDATE SET
		close_time = excluded.close_time,
		open = excluded.open,
		high = excluded.high,
		low = excluded.low,
		close = excluded.close,
		volume = excluded.volume`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin kline transaction: %w: %w", ports.ErrUpdateFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare kline upsert: %w: %w", ports.ErrUpdateFailed, err)
	}
	defer stmt.Close()

	for _, k := range klines {
		if k == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			string(market), k.Symbol, k.Interval, k.OpenTime.UnixMilli(), k.CloseTime.UnixMilli(),
			k.Open, k.High, k.Low, k.Close, k.Volume); err != nil {
			return fmt.Errorf("failed to upsert kline %s %s at %s: %w: %w",
				k.Symbol, k.Interval, k.OpenTime.UTC().Format(time.RFC3339), ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit klines: %w: %w", ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Klines cached", map[string]interface{}{
		"market": market, "symbol": klines[0].Symbol, "interval": klines[0].Interval, "count": len(klines),
	})
	return nil
}

// FindRecentKlines returns up to limit of the newest cached klines, oldest first.
// An empty result is not an error.
func (r *Repository) FindRecentKlines(ctx context.Context, market domain.MarketType, symbol, interval string, limit int) ([]*domain.Kline, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, ports.ErrInvalidRequest)
	}
	const query = `
	SELECT open_time, close_time, open, high, low, close, volume
	FROM (
		SELECT open_time, close_time, open, high, low, close, volume
		FROM klines
		WHERE market = ? AND symbol = ? AND interval = ?
		ORDER BY open_time DESC
		LIMIT ?
	)
	ORDER BY open_time ASC`

	rows, err := r.db.QueryContext(ctx, query, string(market), symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query klines for %s %s: %w: %w", symbol, interval, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var klines []*domain.Kline
	for rows.Next() {
		var openMs, closeMs int64
		k := &domain.Kline{Symbol: symbol, Interval: interval}
		if err := rows.Scan(&openMs, &closeMs, &k.Open, &k.High, &k.Low, &k.Close, &k.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan kline row: %w: %w", ports.ErrQueryFailed, err)
		}
		k.OpenTime = time.UnixMilli(openMs)
		k.CloseTime = time.UnixMilli(closeMs)
		klines = append(klines, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kline rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return klines, nil
}
