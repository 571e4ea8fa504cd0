package models

import "time"

// Badge categories and rarities. Rarity is cosmetic and has no behavioral effect.
const (
	BadgeTypeAchievement   = "achievement"
	BadgeTypeStreak        = "streak"
	BadgeTypeParticipation = "participation"
	BadgeTypeMastery       = "mastery"
	BadgeTypeSpecial       = "special"

	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// RequirementType tags the evaluation strategy attached to a badge.
type RequirementType string

const (
	ReqQuizCount       RequirementType = "quiz_count"
	ReqPerfectScore    RequirementType = "perfect_score"
	ReqLessonCount     RequirementType = "lesson_count"
	ReqLoginStreak     RequirementType = "login_streak"
	ReqForumPosts      RequirementType = "forum_posts"
	ReqForumReplies    RequirementType = "forum_replies"
	ReqMentorSessions  RequirementType = "mentor_sessions"
	ReqSubjectMastery  RequirementType = "subject_mastery"
	ReqTimeBased       RequirementType = "time_based"
	ReqWeekendActivity RequirementType = "weekend_activity"
	ReqSpeedCompletion RequirementType = "speed_completion"
)

// Requirement is the machine-checkable condition that awards a badge.
// Type selects the strategy; the remaining fields are meaningful only for
// the tags that declare them (Subject/MinScore for subject_mastery,
// StartHour/EndHour for time_based, MinScore for speed_completion).
type Requirement struct {
	Type      RequirementType `gorm:"column:req_type;size:32;not null" json:"type"`
	Value     int             `gorm:"column:req_value;not null" json:"value"`
	Subject   string          `gorm:"column:req_subject;size:64" json:"subject,omitempty"`
	MinScore  int             `gorm:"column:req_min_score" json:"min_score,omitempty"`
	StartHour int             `gorm:"column:req_start_hour" json:"start_hour,omitempty"`
	EndHour   int             `gorm:"column:req_end_hour" json:"end_hour,omitempty"`
}

// Badge is an immutable catalog definition, bulk-loaded at startup.
type Badge struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Description string      `gorm:"size:255" json:"description"`
	Type        string      `gorm:"size:16;not null" json:"type"`
	Rarity      string      `gorm:"size:16;default:'common'" json:"rarity"`
	Icon        string      `gorm:"size:16" json:"icon"`
	Points      int         `gorm:"default:0" json:"points"`
	Requirement Requirement `gorm:"embedded" json:"requirement"`
	CreatedAt   time.Time   `json:"created_at"`
}

// StudentBadge is the per-student progress row toward one badge.
// EarnedAt is set exactly once, the first time progress crosses the
// requirement threshold, and is never cleared afterwards.
type StudentBadge struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StudentID uint       `gorm:"not null;uniqueIndex:idx_student_badge" json:"student_id"`
	BadgeID   uint       `gorm:"not null;uniqueIndex:idx_student_badge" json:"badge_id"`
	Progress  int        `gorm:"default:0" json:"progress"`
	EarnedAt  *time.Time `json:"earned_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Badge Badge `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"badge"`
}

// IsEarned reports whether the badge has been awarded.
func (sb *StudentBadge) IsEarned() bool {
	return sb.EarnedAt != nil
}
