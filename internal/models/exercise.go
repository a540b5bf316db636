package models

import "time"

// Exercise 表示一条训练记录
// "group" 是 SQL 关键字，列名用 muscle_group
type Exercise struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"` // 归属用户，始终来自登录身份
	Name        string    `gorm:"size:64;not null"`
	Group       string    `gorm:"column:muscle_group;size:64;not null"`
	Date        time.Time `gorm:"index;not null"`
	IsCompleted bool      `gorm:"not null;default:false"` // 是否已完成打卡
	CreatedAt time.Time
	UpdatedAt time.Time
}
