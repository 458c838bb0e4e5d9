package kvstore

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/hitoshi/custdesk/internal/database"
)

// PostgresStoreはStoreインターフェースを満たすことを検証
func TestPostgresStore_ImplementsInterface(t *testing.T) {
	var _ Store = (*PostgresStore)(nil)
}

// NewPostgresStoreが正しく初期化されることを検証
func TestNewPostgresStore_Initializes(t *testing.T) {
	if NewPostgresStore(nil) == nil {
		t.Fatal("expected non-nil store")
	}
}

// setupPostgres はTEST_DATABASE_URLのデータベースにマイグレーションを適用する。
// 接続できない場合はテストをスキップする。
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL が未設定のためスキップ")
	}

	db, err := database.Open(dbURL)
	if err != nil {
		t.Fatalf("データベースへの接続に失敗: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Skipf("テスト用データベースに接続できません（スキップ）: %v", err)
	}
	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("マイグレーション実行に失敗: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM kv_entries`); err != nil {
		t.Fatalf("クリーンアップに失敗: %v", err)
	}
	return db
}

func TestPostgresStore_Roundtrip(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	s := NewPostgresStore(db)

	if _, ok, err := s.Get(ctx, "cms_users"); err != nil || ok {
		t.Fatalf("Get on empty table = (ok=%v, err=%v)", ok, err)
	}

	if err := s.Set(ctx, "cms_users", "[]"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	// upsert
	if err := s.Set(ctx, "cms_users", `[{"id":"USER-1"}]`); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}
	v, ok, err := s.Get(ctx, "cms_users")
	if err != nil || !ok || v != `[{"id":"USER-1"}]` {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}

	if err := s.Delete(ctx, "cms_users"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "cms_users"); ok {
		t.Error("expected key to be deleted")
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping returned error: %v", err)
	}
}
