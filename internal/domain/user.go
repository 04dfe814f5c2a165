package domain

import (
	"time"
)

type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	PasswordHash         string    `json:"-"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	CreatedAt            time.Time `json:"createdAt"`
	Version              int32     `json:"-"`
}
