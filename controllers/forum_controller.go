package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// ForumController manages discussion threads and replies.
type ForumController struct {
	db     *gorm.DB
	badges *services.BadgeService
}

// NewForumController creates a new controller instance.
func NewForumController(db *gorm.DB, badges *services.BadgeService) *ForumController {
	return &ForumController{db: db, badges: badges}
}

// CreatePost starts a thread and runs forum badge evaluation.
func (f *ForumController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required,min=1"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "title cannot be empty")
		return
	}

	category := req.Category
	if category == "" {
		category = "general"
	}
	valid := false
	for _, c := range models.ForumCategories {
		if category == c {
			valid = true
			break
		}
	}
	if !valid {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid category")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post := models.ForumPost{
		UserID:   userID,
		Title:    title,
		Content:  utils.Sanitize(req.Content),
		Category: category,
	}
	if err := f.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:forum:list:")

	newBadges := f.badges.CheckForumBadges(userID, services.ForumActivityPost)
	notifyBadges(f.db, userID, newBadges)

	utils.Success(ctx, gin.H{"post": post, "newly_earned_badges": newBadges})
}

// ListPosts returns paginated threads including author information.
// Unfiltered pages are cached.
func (f *ForumController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	category := strings.TrimSpace(ctx.Query("category"))

	cacheKey := fmt.Sprintf("cache:forum:list:cat=%s:page=%d:size=%d", category, page, pageSize)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := f.db.Preload("User").Order("created_at DESC")
	if search != "" {
		query = query.Where("title LIKE ? OR content LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Model(&models.ForumPost{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count posts")
		return
	}

	var posts []models.ForumPost
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list posts")
		return
	}

	payload := gin.H{
		"items": posts,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		},
	}
	if search == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a thread with its replies.
func (f *ForumController) GetPost(ctx *gin.Context) {
	var post models.ForumPost
	if err := f.db.Preload("User").Preload("Replies.User").First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreateReply answers a thread and runs forum badge evaluation.
func (f *ForumController) CreateReply(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var post models.ForumPost
	if err := f.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load post")
		return
	}

	reply := models.ForumReply{
		PostID:  post.ID,
		UserID:  userID,
		Content: utils.Sanitize(req.Content),
	}
	if err := f.db.Create(&reply).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to create reply")
		return
	}

	newBadges := f.badges.CheckForumBadges(userID, services.ForumActivityReply)
	notifyBadges(f.db, userID, newBadges)

	utils.Success(ctx, gin.H{"reply": reply, "newly_earned_badges": newBadges})
}

// DeletePost removes a thread owned by the caller (admins may delete any).
func (f *ForumController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var post models.ForumPost
	if err := f.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load post")
		return
	}

	if post.UserID != userID && getUserRole(ctx) != models.RoleAdmin {
		utils.Error(ctx, http.StatusForbidden, 40350, "not the post author")
		return
	}

	if err := f.db.Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:forum:list:")
	utils.Success(ctx, gin.H{"message": "post deleted"})
}
