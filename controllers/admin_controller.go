package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// AdminController implements the mentor approval workflow.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new controller instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// ApplyForMentor lets a student request mentor status. One pending
// application per user.
func (a *AdminController) ApplyForMentor(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if getUserRole(ctx) != models.RoleStudent {
		utils.Error(ctx, http.StatusBadRequest, 40070, "only students can apply for mentor status")
		return
	}

	var req struct {
		Expertise  string `json:"expertise" binding:"required,min=2"`
		Motivation string `json:"motivation"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid request payload")
		return
	}

	var pending int64
	if err := a.db.Model(&models.MentorApplication{}).
		Where("user_id = ? AND status = ?", userID, models.ApplicationPending).
		Count(&pending).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to check applications")
		return
	}
	if pending > 0 {
		utils.Error(ctx, http.StatusConflict, 40970, "application already pending")
		return
	}

	app := models.MentorApplication{
		UserID:     userID,
		Expertise:  strings.TrimSpace(req.Expertise),
		Motivation: utils.Sanitize(strings.TrimSpace(req.Motivation)),
		Status:     models.ApplicationPending,
	}
	if err := a.db.Create(&app).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to submit application")
		return
	}
	utils.Success(ctx, gin.H{"application": app})
}

// ListApplications returns applications for admin review, filterable by status.
func (a *AdminController) ListApplications(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.Query("status"))
	if status == "" {
		status = models.ApplicationPending
	}

	query := a.db.Model(&models.MentorApplication{}).Preload("User").Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to count applications")
		return
	}

	var apps []models.MentorApplication
	if err := query.Order("created_at ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&apps).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to list applications")
		return
	}

	utils.Success(ctx, gin.H{
		"items": apps,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}

// ReviewApplication approves or rejects a pending application. Approval
// promotes the applicant to mentor inside the same transaction.
func (a *AdminController) ReviewApplication(ctx *gin.Context) {
	adminID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40072, "decision must be approved or rejected")
		return
	}

	var app models.MentorApplication
	if err := a.db.First(&app, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "application not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to load application")
		return
	}
	if app.Status != models.ApplicationPending {
		utils.Error(ctx, http.StatusBadRequest, 40073, "application already reviewed")
		return
	}

	now := time.Now()
	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&app).Updates(map[string]interface{}{
			"status":      req.Decision,
			"reviewed_by": adminID,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}
		if req.Decision == models.ApplicationApproved {
			return tx.Model(&models.User{}).
				Where("id = ? AND role = ?", app.UserID, models.RoleStudent).
				Update("role", models.RoleMentor).Error
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to review application")
		return
	}

	utils.Success(ctx, gin.H{"application": app})
}

// ListUsers returns paginated accounts for the admin console.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := a.db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to count users")
		return
	}

	var users []models.User
	if err := a.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50077, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, publicUser(u))
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	})
}
