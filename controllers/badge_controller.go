package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

const studentBadgeCacheTTL = 5 * time.Minute

// BadgeController serves the badge catalog and per-student badge views.
type BadgeController struct {
	catalog *services.BadgeCatalog
	badges  *services.BadgeService
}

// NewBadgeController creates a new controller instance.
func NewBadgeController(catalog *services.BadgeCatalog, badges *services.BadgeService) *BadgeController {
	return &BadgeController{catalog: catalog, badges: badges}
}

// ListCatalog returns all defined badges, optionally filtered by type or rarity.
func (b *BadgeController) ListCatalog(ctx *gin.Context) {
	badgeType := strings.TrimSpace(ctx.Query("type"))
	rarity := strings.TrimSpace(ctx.Query("rarity"))

	switch {
	case badgeType != "" && rarity != "":
		utils.Error(ctx, http.StatusBadRequest, 40080, "filter by either type or rarity, not both")
		return
	case badgeType != "":
		utils.Success(ctx, gin.H{"badges": b.catalog.GetByType(badgeType)})
	case rarity != "":
		utils.Success(ctx, gin.H{"badges": b.catalog.GetByRarity(rarity)})
	default:
		utils.Success(ctx, gin.H{"badges": b.catalog.All()})
	}
}

// GetBadge looks a single badge up by name.
func (b *BadgeController) GetBadge(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Param("name"))
	badge, ok := b.catalog.GetByName(name)
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40480, "badge not found")
		return
	}
	utils.Success(ctx, gin.H{"badge": badge})
}

// GetMyBadges returns the caller's full badge board, earned and in progress.
// The response is cached per student and invalidated on every new award.
func (b *BadgeController) GetMyBadges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := fmt.Sprintf("cache:student:%d:badges", userID)
	if raw, hit := utils.CacheGetBytes(cacheKey); hit {
		var views []services.StudentBadgeView
		if err := json.Unmarshal(raw, &views); err == nil {
			utils.Success(ctx, gin.H{"badges": views, "earned": countEarned(views)})
			return
		}
	}

	views, err := b.badges.GetStudentBadges(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load badges")
		return
	}
	utils.CacheSetJSON(cacheKey, views, studentBadgeCacheTTL)

	utils.Success(ctx, gin.H{"badges": views, "earned": countEarned(views)})
}

func countEarned(views []services.StudentBadgeView) int {
	n := 0
	for _, v := range views {
		if v.IsEarned {
			n++
		}
	}
	return n
}
