package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// MentorshipController manages one-on-one session scheduling.
type MentorshipController struct {
	db     *gorm.DB
	badges *services.BadgeService
}

// NewMentorshipController creates a new controller instance.
func NewMentorshipController(db *gorm.DB, badges *services.BadgeService) *MentorshipController {
	return &MentorshipController{db: db, badges: badges}
}

// BookSession schedules a session between the calling student and a mentor.
func (m *MentorshipController) BookSession(ctx *gin.Context) {
	var req struct {
		MentorID    uint      `json:"mentor_id" binding:"required"`
		Topic       string    `json:"topic"`
		ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if req.ScheduledAt.Before(time.Now()) {
		utils.Error(ctx, http.StatusBadRequest, 40061, "scheduled time must be in the future")
		return
	}

	var mentor models.User
	if err := m.db.First(&mentor, req.MentorID).Error; err != nil || !mentor.IsMentor() {
		utils.Error(ctx, http.StatusBadRequest, 40062, "mentor not found")
		return
	}

	session := models.MentorSession{
		Reference:   uuid.NewString(),
		StudentID:   userID,
		MentorID:    mentor.ID,
		Topic:       strings.TrimSpace(req.Topic),
		ScheduledAt: req.ScheduledAt,
		Status:      models.SessionScheduled,
	}
	if err := m.db.Create(&session).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to book session")
		return
	}

	utils.Success(ctx, gin.H{"session": session})
}

// ListMySessions returns sessions where the caller is student or mentor.
func (m *MentorshipController) ListMySessions(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var sessions []models.MentorSession
	if err := m.db.Preload("Student").Preload("Mentor").
		Where("student_id = ? OR mentor_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&sessions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to list sessions")
		return
	}
	utils.Success(ctx, gin.H{"items": sessions})
}

// CompleteSession lets the mentor mark a session as held; the student's
// mentorship badges are evaluated afterwards.
func (m *MentorshipController) CompleteSession(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var session models.MentorSession
	if err := m.db.First(&session, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "session not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load session")
		return
	}

	if session.MentorID != userID && getUserRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40360, "only the mentor can complete a session")
		return
	}
	if session.Status != models.SessionScheduled {
		utils.Error(ctx, http.StatusBadRequest, 40063, "session is not in scheduled state")
		return
	}

	now := time.Now()
	if err := m.db.Model(&session).Updates(map[string]interface{}{
		"status":       models.SessionCompleted,
		"completed_at": now,
	}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to complete session")
		return
	}

	newBadges := m.badges.CheckMentorSessionBadges(session.StudentID)
	notifyBadges(m.db, session.StudentID, newBadges)

	utils.Success(ctx, gin.H{"session": session, "newly_earned_badges": newBadges})
}

// CancelSession lets either party cancel a scheduled session.
func (m *MentorshipController) CancelSession(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var session models.MentorSession
	if err := m.db.First(&session, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "session not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load session")
		return
	}

	if session.StudentID != userID && session.MentorID != userID && getUserRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40361, "not a participant of this session")
		return
	}
	if session.Status != models.SessionScheduled {
		utils.Error(ctx, http.StatusBadRequest, 40063, "session is not in scheduled state")
		return
	}

	if err := m.db.Model(&session).Update("status", models.SessionCancelled).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to cancel session")
		return
	}
	utils.Success(ctx, gin.H{"session": session})
}

// ListMentors returns approved mentors for the booking UI.
func (m *MentorshipController) ListMentors(ctx *gin.Context) {
	var mentors []models.User
	if err := m.db.Where("role IN ?", []string{models.RoleMentor, models.RoleAdmin}).
		Order("username").Find(&mentors).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to list mentors")
		return
	}

	items := make([]gin.H, 0, len(mentors))
	for _, u := range mentors {
		items = append(items, publicUser(u))
	}
	utils.Success(ctx, gin.H{"items": items})
}
