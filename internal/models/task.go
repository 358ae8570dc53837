package models

import (
	"time"
)

// AuthUser shadows the external identity provider's "user" table so the
// foreign key from tasks resolves. This service never writes to it.
type AuthUser struct {
	ID string `json:"id" gorm:"primaryKey"`
}

func (AuthUser) TableName() string {
	return "user"
}

type Task struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description *string   `json:"description" gorm:"size:1000"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
