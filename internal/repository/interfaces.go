// Package repository はコレクション単位のデータ永続化を提供する。
//
// 各コレクションはキーバリューストアの1キーにJSON配列として保存され、
// 変更のたびに配列全体を書き直す。
package repository

import (
	"context"

	"github.com/hitoshi/custdesk/internal/model"
)

// ストアのキー
const (
	KeyCustomers    = "cms_customers"
	KeyUsers        = "cms_users"
	KeyCurrentUser  = "cms_current_user"
	KeyAppointments = "dental_appointments"
	KeyMessages     = "dental_messages"
)

// CollectionRepository は1つのコレクションの永続化インターフェース。
type CollectionRepository[T any] interface {
	// Load はコレクション全体を読み込む。キーが存在しない場合や内容が解析できない場合は
	// 空のスライスを返す（失敗はログに記録され、エラーとしては返さない）。
	Load(ctx context.Context) []T

	// Save はコレクション全体を書き込む。失敗はログに記録したうえでエラーとして返す。
	Save(ctx context.Context, items []T) error
}

// UserRepository はユーザーコレクションの永続化インターフェース。
type UserRepository = CollectionRepository[model.User]

// CustomerRepository は顧客コレクションの永続化インターフェース。
type CustomerRepository = CollectionRepository[model.Customer]

// AppointmentRepository は予約コレクションの永続化インターフェース。
type AppointmentRepository = CollectionRepository[model.Appointment]

// MessageRepository はお問い合わせコレクションの永続化インターフェース。
type MessageRepository = CollectionRepository[model.ContactMessage]

// SessionRepository はログイン中ユーザーの保存枠のインターフェース。
type SessionRepository interface {
	// Load は保存されたユーザーを返す。未保存または解析できない場合はnilを返す。
	Load(ctx context.Context) *model.User

	// Save はユーザーを保存する。nilを渡すと保存枠を削除する。
	Save(ctx context.Context, user *model.User) error
}
