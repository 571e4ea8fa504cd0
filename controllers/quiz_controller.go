package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// QuizController manages quizzes and graded submissions.
type QuizController struct {
	db     *gorm.DB
	badges *services.BadgeService
}

// NewQuizController creates a new controller instance.
func NewQuizController(db *gorm.DB, badges *services.BadgeService) *QuizController {
	return &QuizController{db: db, badges: badges}
}

// CreateQuiz allows mentors and admins to publish a quiz.
func (q *QuizController) CreateQuiz(ctx *gin.Context) {
	var req struct {
		Title          string `json:"title" binding:"required,min=1"`
		Subject        string `json:"subject" binding:"required"`
		TotalQuestions int    `json:"total_questions" binding:"required,min=1"`
		LessonID       *uint  `json:"lesson_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	quiz := models.Quiz{
		LessonID:       req.LessonID,
		AuthorID:       userID,
		Title:          strings.TrimSpace(req.Title),
		Subject:        strings.ToLower(strings.TrimSpace(req.Subject)),
		TotalQuestions: req.TotalQuestions,
	}
	if err := q.db.Create(&quiz).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create quiz")
		return
	}
	utils.Success(ctx, gin.H{"quiz": quiz})
}

// ListQuizzes returns paginated quizzes, optionally filtered by subject.
func (q *QuizController) ListQuizzes(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	subject := strings.TrimSpace(ctx.Query("subject"))

	query := q.db.Model(&models.Quiz{}).Order("created_at DESC")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to count quizzes")
		return
	}

	var quizzes []models.Quiz
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&quizzes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to list quizzes")
		return
	}

	utils.Success(ctx, gin.H{
		"items": quizzes,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// GetQuiz returns a single quiz.
func (q *QuizController) GetQuiz(ctx *gin.Context) {
	var quiz models.Quiz
	if err := q.db.First(&quiz, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "quiz not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load quiz")
		return
	}
	utils.Success(ctx, gin.H{"quiz": quiz})
}

// SubmitQuiz persists a graded attempt and then runs badge evaluation.
// Badge awarding is best-effort: the submission succeeds even when the
// evaluation cannot run.
func (q *QuizController) SubmitQuiz(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Score       int `json:"score" binding:"min=0"`
		TimeSeconds int `json:"time_seconds" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	var quiz models.Quiz
	if err := q.db.First(&quiz, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "quiz not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load quiz")
		return
	}

	if req.Score > quiz.TotalQuestions {
		utils.Error(ctx, http.StatusBadRequest, 40032, "score exceeds total questions")
		return
	}

	submission := models.QuizSubmission{
		StudentID:      userID,
		QuizID:         quiz.ID,
		Subject:        quiz.Subject,
		Score:          req.Score,
		TotalQuestions: quiz.TotalQuestions,
		Percentage:     req.Score * 100 / quiz.TotalQuestions,
		TimeSeconds:    req.TimeSeconds,
		SubmittedAt:    time.Now(),
	}
	if err := q.db.Create(&submission).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to save submission")
		return
	}

	newBadges := q.badges.CheckAndAwardBadgesForQuiz(userID, quiz.ID, req.Score, quiz.TotalQuestions, req.TimeSeconds)
	notifyBadges(q.db, userID, newBadges)

	utils.Success(ctx, gin.H{
		"submission":          submission,
		"is_perfect":          submission.IsPerfect(),
		"newly_earned_badges": newBadges,
	})
}

// ListMySubmissions returns the authenticated student's attempt history.
func (q *QuizController) ListMySubmissions(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := q.db.Model(&models.QuizSubmission{}).Where("student_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to count submissions")
		return
	}

	var subs []models.QuizSubmission
	if err := q.db.Where("student_id = ?", userID).
		Order("submitted_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&subs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to list submissions")
		return
	}

	utils.Success(ctx, gin.H{
		"items": subs,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}
