// Package kvstore はコレクションのJSON文字列を保存するキーバリューストアを提供する。
//
// 値は不透明な文字列として扱い、解釈はrepositoryパッケージが行う。
package kvstore

import (
	"context"
	"errors"
)

// ErrQuotaExceeded は保存容量の上限を超える書き込みで返される。
var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// Store はキーバリューストアのインターフェース。
type Store interface {
	// Get は指定キーの値を取得する。キーが存在しない場合はokがfalseになる。
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set は指定キーに値を書き込む。既存の値は置き換えられる。
	Set(ctx context.Context, key, value string) error

	// Delete は指定キーを削除する。キーが存在しなくてもエラーにしない。
	Delete(ctx context.Context, key string) error

	// Ping はストアが利用可能かどうかを確認する。
	Ping(ctx context.Context) error
}

// usage はエントリ群の使用量（キーと値のバイト数の合計）を返す。
func usage(entries map[string]string) int64 {
	var total int64
	for k, v := range entries {
		total += int64(len(k) + len(v))
	}
	return total
}

// fitsQuota はkeyをvalueで置き換えた場合に上限内に収まるかを判定する。
// quotaが0以下の場合は無制限。
func fitsQuota(entries map[string]string, quota int64, key, value string) bool {
	if quota <= 0 {
		return true
	}
	total := usage(entries) + int64(len(key)+len(value))
	if old, ok := entries[key]; ok {
		total -= int64(len(key) + len(old))
	}
	return total <= quota
}
