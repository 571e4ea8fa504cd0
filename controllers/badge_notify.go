package controllers

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// notifyBadges runs the side effects of a badge award on behalf of the route
// handler: credit reward points, email the student, and drop the cached
// badge list. Everything here is best-effort and never fails the request.
func notifyBadges(db *gorm.DB, studentID uint, badges []models.Badge) {
	if len(badges) == 0 {
		return
	}

	totalPoints := 0
	for _, b := range badges {
		totalPoints += b.Points
	}
	if totalPoints > 0 {
		if err := db.Model(&models.User{}).
			Where("id = ?", studentID).
			Update("points", gorm.Expr("points + ?", totalPoints)).Error; err != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("failed to credit badge points user=%d err=%v", studentID, err)
		}
	}

	utils.InvalidateByPrefix("cache:student:" + strconv.Itoa(int(studentID)) + ":badges")

	var user models.User
	if err := db.First(&user, studentID).Error; err != nil || user.Email == "" {
		return
	}
	go func(email string, earned []models.Badge) {
		for _, b := range earned {
			if err := utils.SendBadgeEarnedMail(email, b.Name, b.Description, b.Points); err != nil && utils.Sugar != nil {
				utils.Sugar.Debugf("badge mail skipped badge=%q err=%v", b.Name, err)
			}
		}
	}(user.Email, badges)
}
