package models

import "time"

// Quiz is a graded exercise, usually attached to a lesson.
type Quiz struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LessonID       *uint     `gorm:"index" json:"lesson_id"`
	AuthorID       uint      `gorm:"index;not null" json:"author_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Subject        string    `gorm:"size:64;index;not null" json:"subject"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuizSubmission is one graded attempt. Percentage is derived from
// Score/TotalQuestions at submission time and stored for aggregate queries.
type QuizSubmission struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"index;not null" json:"student_id"`
	QuizID         uint      `gorm:"index;not null" json:"quiz_id"`
	Subject        string    `gorm:"size:64;index;not null" json:"subject"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	Percentage     int       `gorm:"not null" json:"percentage"`
	TimeSeconds    int       `gorm:"default:0" json:"time_seconds"`
	SubmittedAt    time.Time `gorm:"index;not null" json:"submitted_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsPerfect reports a 100% submission.
func (s *QuizSubmission) IsPerfect() bool {
	return s.Percentage >= 100
}
