// Package app はコマンドの解析と依存関係のワイヤリングを行い、アプリケーションを起動する。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/custdesk/internal/auth"
	"github.com/hitoshi/custdesk/internal/config"
	"github.com/hitoshi/custdesk/internal/customer"
	"github.com/hitoshi/custdesk/internal/database"
	"github.com/hitoshi/custdesk/internal/dental"
	"github.com/hitoshi/custdesk/internal/handler"
	"github.com/hitoshi/custdesk/internal/kvstore"
	"github.com/hitoshi/custdesk/internal/logger"
	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/middleware"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/repository"
	"github.com/hitoshi/custdesk/internal/security"
	"github.com/hitoshi/custdesk/internal/worker/snapshot"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルでロガーを作り直す
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(fmt.Sprintf("http://localhost:%s/health", port))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("store_backend", cfg.StoreBackend),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// ストアを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行い、
// メモリ上の状態をストアへ書き戻す。
func runServe(cfg *config.Config) error {
	ctx := context.Background()

	// 1. ストアの初期化
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. サービスとルーターの構築
	application := newApplication(ctx, cfg, store)

	// 3. 定期保存ジョブの起動
	jobCtx, stopJob := context.WithCancel(ctx)
	defer stopJob()
	if cfg.StoreFlushInterval > 0 {
		go application.snapshot.Start(jobCtx, cfg.StoreFlushInterval)
	}

	// 4. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      application.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-listenErr:
		stopJob()
		_ = application.shutdown(ctx)
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")
	stopJob()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := application.shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to flush state: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// application はワイヤリング済みのルーターと終了処理の対象を保持する。
type application struct {
	router      http.Handler
	rateLimiter *middleware.RateLimiter
	snapshot    *snapshot.Job
}

// newApplication はストアの上にリポジトリ・サービス・ルーターを構築する。
func newApplication(ctx context.Context, cfg *config.Config, store kvstore.Store) *application {
	// 1. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. リポジトリの初期化
	users := repository.NewCollection[model.User](store, repository.KeyUsers, collector)
	session := repository.NewCurrentUserSlot(store, collector)
	customers := repository.NewCollection[model.Customer](store, repository.KeyCustomers, collector)
	appointments := repository.NewCollection[model.Appointment](store, repository.KeyAppointments, collector)
	messages := repository.NewCollection[model.ContactMessage](store, repository.KeyMessages, collector)

	// 3. ドメインサービスの初期化
	var hasher auth.PasswordHasher
	if cfg.PasswordHashing == config.HashingBcrypt {
		hasher = auth.NewBcryptHasher()
	}
	authService := auth.NewService(ctx, users, session, hasher, collector)
	customerService := customer.NewService(ctx, customers, collector)
	dentalService := dental.NewService(ctx, appointments, messages, security.NewTextSanitizer(), collector)

	// 4. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitAuth),
	)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Metrics:           collector,
		MetricsGatherer:   registry,
		Store:             store,
		AuthService:       authService,
		CustomerService:   customerService,
		DentalService:     dentalService,
	})

	// 5. 定期保存と終了時保存の対象
	job := snapshot.NewJob(slog.Default(),
		snapshot.Target{Name: "customers", Flusher: customerService},
		snapshot.Target{Name: "dental", Flusher: dentalService},
		snapshot.Target{Name: "session", Flusher: authService},
	)

	return &application{
		router:      router,
		rateLimiter: rateLimiter,
		snapshot:    job,
	}
}

// shutdown はレートリミッターを停止し、全サービスの状態を保存する。
// 保存に失敗したサービスがあっても残りの保存は続ける。
func (a *application) shutdown(ctx context.Context) error {
	a.rateLimiter.Stop()
	return a.snapshot.Run(ctx)
}

// openStore は設定されたバックエンドのストアを開く。
// 返されるclose関数はストアの終了時に呼び出す。
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		slog.Info("using in-memory store")
		return kvstore.NewMemoryStore(cfg.StoreQuotaBytes), noop, nil

	case config.BackendPostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open database: %w", err)
		}
		if err := database.Ping(ctx, db, 5*time.Second); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("database connection established")
		return kvstore.NewPostgresStore(db), func() { db.Close() }, nil

	default:
		store, err := kvstore.OpenFileStore(cfg.StoreFilePath, cfg.StoreQuotaBytes)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open file store: %w", err)
		}
		slog.Info("using file store", slog.String("path", cfg.StoreFilePath))
		return store, noop, nil
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// postgresバックエンド以外ではマイグレーション対象がないため何もしない。
func runMigrate(cfg *config.Config) error {
	if cfg.StoreBackend != config.BackendPostgres {
		slog.Info("no migrations to run for store backend",
			slog.String("store_backend", cfg.StoreBackend),
		)
		return nil
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(url string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
