package leaverequest

import (
	"time"

	"leavedesk/internal/auth"
)

type LeaveRequest struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;index:idx_leave_requests_user_status"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text;not null"`

	Status       string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_user_status"`
	AdminComment *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User *auth.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
