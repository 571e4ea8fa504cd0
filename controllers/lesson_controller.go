package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// LessonController manages course content and completion tracking.
type LessonController struct {
	db     *gorm.DB
	badges *services.BadgeService
}

// NewLessonController creates a new controller instance.
func NewLessonController(db *gorm.DB, badges *services.BadgeService) *LessonController {
	return &LessonController{db: db, badges: badges}
}

// CreateLesson allows mentors and admins to author content.
func (l *LessonController) CreateLesson(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Subject     string `json:"subject" binding:"required"`
		Content     string `json:"content" binding:"required"`
		VideoURL    string `json:"video_url"`
		DurationMin int    `json:"duration_min"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	lesson := models.Lesson{
		AuthorID:    userID,
		Title:       strings.TrimSpace(req.Title),
		Subject:     strings.ToLower(strings.TrimSpace(req.Subject)),
		Content:     utils.Sanitize(req.Content),
		VideoURL:    strings.TrimSpace(req.VideoURL),
		DurationMin: req.DurationMin,
	}
	if err := l.db.Create(&lesson).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create lesson")
		return
	}

	utils.InvalidateByPrefix("cache:lessons:list:")
	utils.Success(ctx, gin.H{"lesson": lesson})
}

// UpdateLesson patches a lesson owned by the caller (admins may edit any).
func (l *LessonController) UpdateLesson(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var lesson models.Lesson
	if err := l.db.First(&lesson, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load lesson")
		return
	}

	if lesson.AuthorID != userID && getUserRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40340, "not the lesson author")
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		VideoURL  *string `json:"video_url"`
		Published *bool   `json:"published"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		updates["content"] = utils.Sanitize(*req.Content)
	}
	if req.VideoURL != nil {
		updates["video_url"] = strings.TrimSpace(*req.VideoURL)
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40042, "nothing to update")
		return
	}

	if err := l.db.Model(&lesson).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to update lesson")
		return
	}

	utils.InvalidateByPrefix("cache:lessons:list:")
	utils.Success(ctx, gin.H{"lesson": lesson})
}

// DeleteLesson removes a lesson owned by the caller (admins may delete any).
func (l *LessonController) DeleteLesson(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var lesson models.Lesson
	if err := l.db.First(&lesson, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load lesson")
		return
	}

	if lesson.AuthorID != userID && getUserRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40340, "not the lesson author")
		return
	}

	if err := l.db.Delete(&lesson).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to delete lesson")
		return
	}

	utils.InvalidateByPrefix("cache:lessons:list:")
	utils.Success(ctx, gin.H{"message": "lesson deleted"})
}

// ListLessons returns paginated published lessons with author info.
// Unfiltered pages are cached; subject search bypasses the cache to avoid
// key explosion.
func (l *LessonController) ListLessons(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	subject := strings.TrimSpace(ctx.Query("subject"))

	cacheKey := fmt.Sprintf("cache:lessons:list:page=%d:size=%d", page, pageSize)
	if subject == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := l.db.Model(&models.Lesson{}).Preload("Author").
		Where("published = ?", true).Order("created_at DESC")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to count lessons")
		return
	}

	var lessons []models.Lesson
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&lessons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to list lessons")
		return
	}

	payload := gin.H{
		"items": lessons,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	}
	if subject == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetLesson returns a single lesson.
func (l *LessonController) GetLesson(ctx *gin.Context) {
	var lesson models.Lesson
	if err := l.db.Preload("Author").First(&lesson, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load lesson")
		return
	}
	utils.Success(ctx, gin.H{"lesson": lesson})
}

// CompleteLesson records a completion (idempotent) and runs badge evaluation.
func (l *LessonController) CompleteLesson(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var lesson models.Lesson
	if err := l.db.First(&lesson, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load lesson")
		return
	}

	completion := models.LessonCompletion{StudentID: userID, LessonID: lesson.ID}
	if err := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&completion).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to record completion")
		return
	}

	newBadges := l.badges.CheckLessonBadges(userID)
	notifyBadges(l.db, userID, newBadges)

	utils.Success(ctx, gin.H{
		"message":             "lesson completed",
		"newly_earned_badges": newBadges,
	})
}
