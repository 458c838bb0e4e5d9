package middleware

import (
	"net/http"
	"strings"
)

// CORSで許可するメソッドとヘッダー。
// 認証はサーバー側のログイン中ユーザーで行うため、Cookieや認証ヘッダーは許可しない。
var (
	corsAllowedMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	corsAllowedHeaders = []string{"Content-Type", RequestIDHeader}
	corsExposedHeaders = []string{RequestIDHeader, "Retry-After"}
)

// NewCORSMiddleware は管理画面のオリジンに対するCORSミドルウェアを返す。
// OPTIONSプリフライトリクエストには204で応答し、後続のハンドラーを呼ばない。
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	methods := strings.Join(corsAllowedMethods, ", ")
	allowHeaders := strings.Join(corsAllowedHeaders, ", ")
	exposeHeaders := strings.Join(corsExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
