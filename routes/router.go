package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/config"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/controllers"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/middleware"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/services"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, catalog *services.BadgeCatalog) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file, separate from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Records daily traffic behind the stats endpoint.
	r.Use(middleware.ActivityRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	badgeService := services.NewBadgeService(db, catalog)

	authController := controllers.NewAuthController(db, badgeService)
	lessonController := controllers.NewLessonController(db, badgeService)
	quizController := controllers.NewQuizController(db, badgeService)
	forumController := controllers.NewForumController(db, badgeService)
	mentorshipController := controllers.NewMentorshipController(db, badgeService)
	badgeController := controllers.NewBadgeController(catalog, badgeService)
	adminController := controllers.NewAdminController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public browsing endpoints.
	api.GET("/lessons", lessonController.ListLessons)
	api.GET("/lessons/:id", lessonController.GetLesson)
	api.GET("/quizzes", quizController.ListQuizzes)
	api.GET("/quizzes/:id", quizController.GetQuiz)
	api.GET("/forum/posts", forumController.ListPosts)
	api.GET("/forum/posts/:id", forumController.GetPost)
	api.GET("/badges", badgeController.ListCatalog)
	api.GET("/badges/:name", badgeController.GetBadge)
	api.GET("/mentors", mentorshipController.ListMentors)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/lessons/:id/complete", lessonController.CompleteLesson)
	protected.POST("/quizzes/:id/submit", quizController.SubmitQuiz)
	protected.GET("/quizzes/submissions/me", quizController.ListMySubmissions)
	protected.POST("/forum/posts", forumController.CreatePost)
	protected.POST("/forum/posts/:id/replies", forumController.CreateReply)
	protected.DELETE("/forum/posts/:id", forumController.DeletePost)
	protected.POST("/mentorship/sessions", mentorshipController.BookSession)
	protected.GET("/mentorship/sessions/me", mentorshipController.ListMySessions)
	protected.POST("/mentorship/sessions/:id/cancel", mentorshipController.CancelSession)
	protected.GET("/badges/me", badgeController.GetMyBadges)
	protected.POST("/mentor-applications", adminController.ApplyForMentor)

	mentorGroup := api.Group("")
	mentorGroup.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleMentor))
	mentorGroup.POST("/lessons", lessonController.CreateLesson)
	mentorGroup.PUT("/lessons/:id", lessonController.UpdateLesson)
	mentorGroup.DELETE("/lessons/:id", lessonController.DeleteLesson)
	mentorGroup.POST("/quizzes", quizController.CreateQuiz)
	mentorGroup.POST("/mentorship/sessions/:id/complete", mentorshipController.CompleteSession)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleAdmin))
	adminGroup.GET("/mentor-applications", adminController.ListApplications)
	adminGroup.POST("/mentor-applications/:id/review", adminController.ReviewApplication)
	adminGroup.GET("/users", adminController.ListUsers)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
