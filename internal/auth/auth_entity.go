package auth

import (
	"time"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:uq_users_email;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"`
	CreatedAt    time.Time
}
