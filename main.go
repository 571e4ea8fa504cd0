package main

import (
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/config"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/routes"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.LoginRecord{},
		&models.Badge{},
		&models.StudentBadge{},
		&models.Lesson{},
		&models.LessonCompletion{},
		&models.Quiz{},
		&models.QuizSubmission{},
		&models.ForumPost{},
		&models.ForumReply{},
		&models.MentorSession{},
		&models.MentorApplication{},
		&models.DailyActivity{},
	)

	// Seed the badge catalog once, then load it into memory for lookups.
	catalog := services.NewBadgeCatalog(db)
	if err := catalog.Initialize(); err != nil {
		utils.Sugar.Fatalf("badge catalog init failed: %v", err)
	}

	r := routes.SetupRouter(db, catalog)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
