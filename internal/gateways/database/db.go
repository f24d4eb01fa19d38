package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
	schemaVersion        = 1 // bump when tables or indexes change
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	var conn net.Conn
	var err error

	tryDial := func() (net.Conn, error) {
		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		if os.Getenv("DB_DIAL_FORCE_IPV6") == "1" {
			return net.DialTimeout("tcp6", addr, defaultConnTimeout)
		}
		if c, e := net.DialTimeout("tcp4", addr, defaultConnTimeout); e == nil {
			return c, nil
		}
		return net.DialTimeout("tcp6", addr, defaultConnTimeout)
	}

	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = tryDial()
		if err == nil {
			break
		}
		slog.Warn("Database dial failed, retrying",
			slog.String("type", "db"),
			slog.Int("attempt", i+1),
			slog.Any("error", err))
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	cc := pool.Config().ConnConfig
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cc.User, cc.Password, cc.Host, cc.Port, cc.Database, sslMode)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

// Ping checks both the pool and the bun handle.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates the ledger tables and indexes. With DB_FAST_INIT=1 it returns
// early when app_meta already records the current schema version.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if os.Getenv("DB_FAST_INIT") == "1" {
		if v, _ := db.getAppMeta(ctx, "schema_version"); v == strconv.Itoa(schemaVersion) {
			slog.Info("Fast DB init: schema up-to-date, skipping initialization",
				slog.String("type", "db"),
				slog.Int("schema_version", schemaVersion))
			return nil
		}
	}

	tables := []any{
		(*models.Actor)(nil),
		(*models.Asset)(nil),
		(*models.Colony)(nil),
		(*models.ColonyMember)(nil),
		(*models.ColonyRequest)(nil),
		(*models.DailyActivity)(nil),
		(*models.ActionReceipt)(nil),
		(*models.RewardClaim)(nil),
	}
	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets(owner);",
		"CREATE INDEX IF NOT EXISTS idx_assets_colony ON assets(colony_id) WHERE colony_id > 0;",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_colony_members_asset ON colony_members(asset_key);",
		"CREATE INDEX IF NOT EXISTS idx_colony_members_position ON colony_members(colony_id, position);",
		"CREATE INDEX IF NOT EXISTS idx_daily_activity_day ON daily_activity(day);",
		"CREATE INDEX IF NOT EXISTS idx_action_receipts_actor ON action_receipts(actor_id, created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_action_receipts_asset ON action_receipts(asset_key, created_at DESC);",
		"CREATE INDEX IF NOT EXISTS idx_reward_claims_actor ON reward_claims(actor_id, claimed_at DESC);",
	}
	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		slog.Warn("Failed to record schema version",
			slog.String("type", "db"),
			slog.Any("error", err))
	}
	return nil
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	var v string
	if err := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key).Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO app_meta(key, value) VALUES($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}
