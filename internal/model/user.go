// Package model はドメインモデルを定義する。
package model

import "time"

// User はコンソールにサインインするアカウントを表す。
// Passwordは平文（PASSWORD_HASHING=bcrypt の場合はbcryptハッシュ）で保持する。
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfilePatch はプロフィール更新で変更可能な項目の部分集合。
// nilの項目は変更しない。IDとCreatedAtは変更対象に含めない。
type ProfilePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Apply はパッチの非nil項目をユーザーに反映したコピーを返す。
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// PublicUser はAPI応答用のユーザー表現。パスワードを含まない。
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public はパスワードを除いたユーザー表現を返す。
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
