package model

import "time"

// Customer は顧客レコードを表す。
// IDは採番後に変更しない。UpdatedAtは常にCreatedAt以降。
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	ContactPerson string    `json:"contactPerson"`
	ProfilePhoto  string    `json:"profilePhoto,omitempty"` // data URI
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CustomerForm は顧客の登録・更新フォームの入力値。
type CustomerForm struct {
	Name          string `json:"name" validate:"cms_name"`
	Address       string `json:"address" validate:"required_trimmed"`
	Email         string `json:"email" validate:"cms_email"`
	Phone         string `json:"phone" validate:"cms_phone"`
	ContactPerson string `json:"contactPerson" validate:"cms_name"`
	ProfilePhoto  string `json:"profilePhoto,omitempty" validate:"omitempty,image_data_uri"`
}

// Apply はフォームの値を顧客の可変項目に反映したコピーを返す。
func (f CustomerForm) Apply(c Customer) Customer {
	c.Name = f.Name
	c.Address = f.Address
	c.Email = f.Email
	c.Phone = f.Phone
	c.ContactPerson = f.ContactPerson
	c.ProfilePhoto = f.ProfilePhoto
	return c
}

// CustomerStats はダッシュボードの集計値。
type CustomerStats struct {
	Total         int `json:"total"`
	AddedThisWeek int `json:"addedThisWeek"`
}
