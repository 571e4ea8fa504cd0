package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// StatsController exposes platform-wide counters for the landing page.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new controller instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate platform numbers. Each counter falls back
// to zero on query failure so the endpoint never errors as a whole.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var users, mentors, lessons, completions, submissions, posts, awarded int64

	s.count(&models.User{}, nil, &users)
	s.count(&models.User{}, map[string]interface{}{"role": models.RoleMentor}, &mentors)
	s.count(&models.Lesson{}, nil, &lessons)
	s.count(&models.LessonCompletion{}, nil, &completions)
	s.count(&models.QuizSubmission{}, nil, &submissions)
	s.count(&models.ForumPost{}, nil, &posts)

	if err := s.db.Model(&models.StudentBadge{}).
		Where("earned_at IS NOT NULL").
		Count(&awarded).Error; err != nil {
		awarded = 0
	}

	var activeToday int64
	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.DailyActivity{}).
		Select("COALESCE(SUM(count), 0)").
		Where("date = ?", today).
		Scan(&activeToday).Error; err != nil {
		activeToday = 0
	}

	utils.Success(ctx, gin.H{
		"users":              users,
		"mentors":            mentors,
		"lessons":            lessons,
		"lesson_completions": completions,
		"quiz_submissions":   submissions,
		"forum_posts":        posts,
		"badges_awarded":     awarded,
		"requests_today":     activeToday,
	})
}

func (s *StatsController) count(model interface{}, where map[string]interface{}, out *int64) {
	q := s.db.Model(model)
	if where != nil {
		q = q.Where(where)
	}
	if err := q.Count(out).Error; err != nil {
		*out = 0
	}
}
