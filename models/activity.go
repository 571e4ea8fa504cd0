package models

import "time"

// DailyActivity counts API hits per day and path, used for the daily-active
// figure on the stats endpoint. One row per (date, path), upserted atomically.
type DailyActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_date_path" json:"date"`
	Path      string    `gorm:"size:255;uniqueIndex:idx_date_path" json:"path"`
	Count     int64     `gorm:"default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
