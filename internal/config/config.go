package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

const (
	ConnectionPostgres = "pgsql"
	ConnectionMySQL    = "mysql"
	ConnectionSQLite   = "sqlite"
)

type Config struct {
	Port        int
	CORSOrigins []string
	Gemini      GeminiConfig
	Database    DatabaseConfig
	Log         LogConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type DatabaseConfig struct {
	Connection string
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	Schema     string
}

type LogConfig struct {
	Level    string
	File     string
	Encoding string
}

// Load reads the process environment. A .env file in the working directory is
// picked up by the godotenv autoload import.
func Load() (*Config, error) {
	port := 8080
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT must be a valid integer: %w", err)
		}
		port = p
	}

	db := DatabaseConfig{
		Connection: strings.ToLower(getEnv("DB_CONNECTION", ConnectionPostgres)),
		Host:       os.Getenv("DB_HOST"),
		Port:       os.Getenv("DB_PORT"),
		Database:   os.Getenv("DB_DATABASE"),
		Username:   os.Getenv("DB_USERNAME"),
		Password:   os.Getenv("DB_PASSWORD"),
		Schema:     os.Getenv("DB_SCHEMA"),
	}
	switch db.Connection {
	case ConnectionPostgres, ConnectionMySQL, ConnectionSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_CONNECTION %q", db.Connection)
	}
	if db.Schema == "" {
		db.Schema = db.defaultSchema()
	}

	return &Config{
		Port:        port,
		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL: os.Getenv("GEMINI_BASE_URL"),
		},
		Database: db,
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			File:     os.Getenv("LOG_FILE"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
	}, nil
}

// Configured reports whether enough settings exist to open a connection.
func (d DatabaseConfig) Configured() bool {
	if d.Connection == ConnectionSQLite {
		return d.Database != ""
	}
	return d.Host != "" && d.Database != ""
}

func (d DatabaseConfig) defaultSchema() string {
	// MySQL has no schemas inside a database, information_schema filters by database name.
	if d.Connection == ConnectionMySQL {
		return d.Database
	}
	return "public"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
