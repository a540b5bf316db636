package models

import "time"

// User represents application user.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	Email        string    `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Weight    float64    // 体重（kg）
	Height    float64    // 身高（cm）
	Age       int        // 年龄
	Birthdate *time.Time // 出生日期，注册时可不填
}
