package models

import "time"

// LoginRecord stores one row per user per day, with the streak length
// reached on that day. History backs the login-streak badge evaluation.
type LoginRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	LoginDate      time.Time `gorm:"index;not null" json:"login_date"`
	StreakAchieved int       `json:"streak_achieved"`
	CreatedAt      time.Time `json:"created_at"`
}
