package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64"`
	Role         Role      `json:"role" gorm:"size:16"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
