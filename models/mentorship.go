package models

import "time"

// Mentor session lifecycle.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// MentorSession is a scheduled one-on-one between a student and a mentor.
// Reference is an opaque token handed to calendar/email collaborators.
type MentorSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Reference   string     `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	StudentID   uint       `gorm:"index;not null" json:"student_id"`
	MentorID    uint       `gorm:"index;not null" json:"mentor_id"`
	Topic       string     `gorm:"size:255" json:"topic"`
	ScheduledAt time.Time  `gorm:"index;not null" json:"scheduled_at"`
	Status      string     `gorm:"size:16;default:'scheduled'" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Student User `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"student"`
	Mentor  User `gorm:"foreignKey:MentorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"mentor"`
}

// Mentor application lifecycle for the admin approval workflow.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// MentorApplication is a student's request to become a mentor, reviewed by an admin.
type MentorApplication struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Expertise  string     `gorm:"size:255;not null" json:"expertise"`
	Motivation string     `gorm:"type:text" json:"motivation"`
	Status     string     `gorm:"size:16;default:'pending'" json:"status"`
	ReviewedBy *uint      `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}
