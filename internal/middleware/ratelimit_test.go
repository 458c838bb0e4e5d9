package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/hitoshi/custdesk/internal/model"
)

func testRateLimiterConfig(generalBurst, publicBurst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    generalBurst,
		PublicRate:      1,
		PublicBurst:     publicBurst,
		CleanupInterval: 1 * time.Minute,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAsUser(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	return req.WithContext(ContextWithUserID(req.Context(), userID))
}

func requestFromIP(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":54321"
	return req
}

// --- GeneralMiddleware (ログイン後API全般) のテスト ---

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(5, 10))
	defer rl.Stop()

	handlerCallCount := 0
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAsUser("user-1"))
		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfterHeader(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2, 10))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAsUser("user-rate-limit"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAsUser("user-rate-limit"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || retryAfter < 1 {
		t.Errorf("Retry-After = %q, want positive integer", resp.Header.Get("Retry-After"))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("code = %q, want %q", body.Code, "RATE_LIMIT_EXCEEDED")
	}
	if body.Category != "system" {
		t.Errorf("category = %q, want %q", body.Category, "system")
	}
}

func TestRateLimitMiddleware_IsolatesUserRateLimits(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 10))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAsUser("user-a"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestAsUser("user-a"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("user-a second request: status = %d, want 429", w.Result().StatusCode)
	}

	// user-aの制限はuser-bに影響しない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestAsUser("user-b"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user-b: status = %d, want 200", w.Result().StatusCode)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", got)
	}
}

func TestRateLimitMiddleware_NoUserID_Returns401(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(5, 10))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers", nil))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- PublicMiddleware (公開フォーム) のテスト ---

func TestPublicRateLimit_KeyedByClientIP(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(10, 2))
	defer rl.Stop()

	handler := rl.PublicMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFromIP("192.0.2.10"))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Result().StatusCode)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFromIP("192.0.2.10"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", w.Result().StatusCode)
	}

	// 別のポートからでも同じIPなら同じ制限
	req := requestFromIP("192.0.2.10")
	req.RemoteAddr = "192.0.2.10:1111"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("same IP other port: status = %d, want 429", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFromIP("192.0.2.20"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", w.Result().StatusCode)
	}

	if got := rl.PublicLimiterCount(); got != 2 {
		t.Errorf("PublicLimiterCount = %d, want 2", got)
	}
}

func TestPublicRateLimit_IndependentFromGeneralLimit(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	general := rl.GeneralMiddleware()(okHandler())
	public := rl.PublicMiddleware()(okHandler())

	w := httptest.NewRecorder()
	general.ServeHTTP(w, requestAsUser("user-x"))
	w = httptest.NewRecorder()
	general.ServeHTTP(w, requestAsUser("user-x"))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("general limit should be exhausted, status = %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	public.ServeHTTP(w, requestFromIP("192.0.2.30"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("public request: status = %d, want 200", w.Result().StatusCode)
	}
}

func TestClientIP_WithoutPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7"
	if got := clientIP(req); got != "198.51.100.7" {
		t.Errorf("clientIP = %q, want %q", got, "198.51.100.7")
	}
}

// --- クリーンアップのテスト ---

func TestRateLimiter_CleanupRemovesExpiredEntries(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(5, 5))
	defer rl.Stop()

	rl.GeneralMiddleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestAsUser("user-stale"))
	rl.GeneralMiddleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestAsUser("user-fresh"))
	rl.PublicMiddleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestFromIP("192.0.2.40"))

	// 最終アクセスをTTL（CleanupIntervalの2倍）より前にずらす
	stale := time.Now().Add(-3 * time.Minute)
	rl.general.limiters["user-stale"].lastAccess = stale
	rl.public.limiters["192.0.2.40"].lastAccess = stale

	rl.cleanup()

	if got := rl.GeneralLimiterCount(); got != 1 {
		t.Errorf("GeneralLimiterCount = %d, want 1", got)
	}
	if _, ok := rl.general.limiters["user-fresh"]; !ok {
		t.Error("fresh entry should remain")
	}
	if got := rl.PublicLimiterCount(); got != 0 {
		t.Errorf("PublicLimiterCount = %d, want 0", got)
	}
}

// --- ミドルウェアチェーンとの統合テスト ---

func TestRateLimitMiddleware_InChainWithRequireUserAndCORS(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2, 10))
	defer rl.Stop()

	requireUser := NewRequireUserMiddleware(&mockCurrentUser{user: &model.User{ID: "user-rate-chain"}})
	corsMW := NewCORSMiddleware("http://localhost:3000")

	// CORS -> RequireUser -> RateLimit -> Handler
	handler := corsMW(requireUser(rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"user_id": userID})
	}))))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("request 3: status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}
	if got := w.Result().Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("429 response should keep CORS headers, got %q", got)
	}
}

// --- 設定値のテスト ---

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()

	if cfg.GeneralRate != 2.0 { // 120/60 = 2
		t.Errorf("GeneralRate = %f, want 2.0", cfg.GeneralRate)
	}
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.PublicBurst != 20 {
		t.Errorf("PublicBurst = %d, want 20", cfg.PublicBurst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestNewRateLimiterConfig_PerMinute(t *testing.T) {
	cfg := NewRateLimiterConfig(60, 30)

	if cfg.GeneralRate != 1.0 {
		t.Errorf("GeneralRate = %f, want 1.0", cfg.GeneralRate)
	}
	if cfg.PublicRate != 0.5 {
		t.Errorf("PublicRate = %f, want 0.5", cfg.PublicRate)
	}
	if cfg.GeneralBurst != 60 || cfg.PublicBurst != 30 {
		t.Errorf("bursts = (%d, %d), want (60, 30)", cfg.GeneralBurst, cfg.PublicBurst)
	}
}
