package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ストアのバックエンド
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// パスワードの保存方式
const (
	HashingPlain  = "plain"
	HashingBcrypt = "bcrypt"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Store
	StoreBackend       string
	StoreFilePath      string
	StoreQuotaBytes    int64
	StoreFlushInterval time.Duration // 0の場合は定期保存を行わない

	// Database（StoreBackend=postgres の場合のみ必須）
	DatabaseURL string

	// Auth
	PasswordHashing string

	// Rate Limit（1分あたりのリクエスト数）
	RateLimitGeneral int
	RateLimitAuth    int

	// Logging
	LogLevel slog.Level

	// Server
	ServerPort      string
	ShutdownTimeout time.Duration

	// CORS
	CORSAllowedOrigin string
}

// Load はカレントディレクトリの.envを読み込んだうえで環境変数からConfigを読み込む。
// .envは任意で、既に設定済みの環境変数は上書きしない。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv は環境変数のみからConfigを読み込む。
// 列挙値が不正な場合や必須項目が欠けている場合はエラーを返す。
func FromEnv() (*Config, error) {
	cfg := &Config{
		StoreBackend:       strings.ToLower(getEnvString("STORE_BACKEND", BackendFile)),
		StoreFilePath:      getEnvString("STORE_FILE_PATH", "data/custdesk.json"),
		StoreQuotaBytes:    getEnvInt64("STORE_QUOTA_BYTES", 5242880),
		StoreFlushInterval: getEnvDuration("STORE_FLUSH_INTERVAL", 5*time.Minute),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		PasswordHashing:    strings.ToLower(getEnvString("PASSWORD_HASHING", HashingPlain)),
		RateLimitGeneral:   getEnvInt("RATE_LIMIT_GENERAL", 120),
		RateLimitAuth:      getEnvInt("RATE_LIMIT_AUTH", 20),
		ServerPort:         getEnvString("SERVER_PORT", "8080"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSAllowedOrigin:  getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	var problems []string

	switch cfg.StoreBackend {
	case BackendMemory, BackendFile:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be one of memory, file, postgres: %q", cfg.StoreBackend))
	}

	switch cfg.PasswordHashing {
	case HashingPlain, HashingBcrypt:
	default:
		problems = append(problems, fmt.Sprintf("PASSWORD_HASHING must be plain or bcrypt: %q", cfg.PasswordHashing))
	}

	if cfg.RateLimitGeneral <= 0 {
		problems = append(problems, fmt.Sprintf("RATE_LIMIT_GENERAL must be positive: %d", cfg.RateLimitGeneral))
	}
	if cfg.RateLimitAuth <= 0 {
		problems = append(problems, fmt.Sprintf("RATE_LIMIT_AUTH must be positive: %d", cfg.RateLimitAuth))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvString("LOG_LEVEL", "info"))); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL is invalid: %v", err))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
