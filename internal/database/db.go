package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"plantlens/internal/config"
	"plantlens/internal/repositories"
)

// OpenCatalog connects using cfg and returns a catalog reader for the configured
// driver. The returned close function releases the connection.
func OpenCatalog(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (repositories.Catalog, func(), error) {
	switch cfg.Connection {
	case config.ConnectionPostgres:
		pool, err := Connect(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSchemaRepository(pool), pool.Close, nil
	case config.ConnectionMySQL:
		db, err := ConnectMySQL(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMySQLSchemaRepository(db), func() { db.Close() }, nil
	case config.ConnectionSQLite:
		db, err := ConnectSQLite(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLiteSchemaRepository(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database connection %q", cfg.Connection)
	}
}

func requireSettings(cfg config.DatabaseConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("DB_HOST environment variable is required")
	}
	if cfg.Database == "" {
		return fmt.Errorf("DB_DATABASE environment variable is required")
	}
	if cfg.Username == "" {
		return fmt.Errorf("DB_USERNAME environment variable is required")
	}
	return nil
}

// PostgresDSN builds a postgres:// URL with the credentials escaped.
func PostgresDSN(cfg config.DatabaseConfig) string {
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	userInfo := url.UserPassword(cfg.Username, cfg.Password)
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		userInfo.String(),
		cfg.Host,
		port,
		url.PathEscape(cfg.Database),
	)
}

func Connect(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	if err := requireSettings(cfg); err != nil {
		return nil, err
	}

	log.Info("Connecting to database",
		zap.String("driver", cfg.Connection),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	poolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// MySQLDSN builds a go-sql-driver DSN for cfg.
func MySQLDSN(cfg config.DatabaseConfig) string {
	port := cfg.Port
	if port == "" {
		port = "3306"
	}
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host + ":" + port
	mc.DBName = cfg.Database
	return mc.FormatDSN()
}

func ConnectMySQL(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	if err := requireSettings(cfg); err != nil {
		return nil, err
	}

	log.Info("Connecting to database",
		zap.String("driver", cfg.Connection),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	db, err := sql.Open("mysql", MySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	return pingSQL(ctx, db)
}

// ConnectSQLite opens the file (or DSN) named by cfg.Database.
func ConnectSQLite(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("DB_DATABASE environment variable is required")
	}

	log.Info("Opening database", zap.String("driver", cfg.Connection), zap.String("database", cfg.Database))

	db, err := sql.Open("sqlite", cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return pingSQL(ctx, db)
}

func pingSQL(ctx context.Context, db *sql.DB) (*sql.DB, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
