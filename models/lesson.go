package models

import "time"

// Lesson is a unit of course content authored by a mentor or admin.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Subject     string    `gorm:"size:64;index;not null" json:"subject"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	VideoURL    string    `gorm:"size:512" json:"video_url"`
	DurationMin int       `gorm:"default:0" json:"duration_min"`
	Published   bool      `gorm:"default:true" json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// LessonCompletion records that a student finished a lesson. At most one
// row per student and lesson; completing twice is a no-op.
type LessonCompletion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_student_lesson" json:"student_id"`
	LessonID  uint      `gorm:"not null;uniqueIndex:idx_student_lesson" json:"lesson_id"`
	CreatedAt time.Time `json:"created_at"`
}
