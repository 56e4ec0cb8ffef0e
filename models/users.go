package models

import (
	"time"
)

// User - профиль пользователя. Создается при регистрации,
// идентификация запросов приходит извне (X-User-ID).
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Nickname  string    `gorm:"size:60;uniqueIndex" json:"nickname"`
	Name      string    `gorm:"size:255" json:"name"`
	Avatar    string    `gorm:"size:512" json:"avatar,omitempty"`
	Password  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Migration struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:60;uniqueIndex" json:"name"`
	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
}

func (Migration) TableName() string {
	return "migrations"
}
