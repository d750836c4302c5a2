package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ayushshivam48/edulytix-api/api/swagger"
	"github.com/ayushshivam48/edulytix-api/internal/handler"
	"github.com/ayushshivam48/edulytix-api/internal/middleware"
	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/repository"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	"github.com/ayushshivam48/edulytix-api/pkg/cache"
	"github.com/ayushshivam48/edulytix-api/pkg/config"
	"github.com/ayushshivam48/edulytix-api/pkg/database"
	"github.com/ayushshivam48/edulytix-api/pkg/logger"
	"github.com/ayushshivam48/edulytix-api/pkg/metrics"
	corsmiddleware "github.com/ayushshivam48/edulytix-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ayushshivam48/edulytix-api/pkg/middleware/requestid"
)

// @title Edulytix API
// @version 1.0.0
// @description Role-based academic management backend
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	// The API stays up without Redis; dashboards just skip the cache.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	m := metrics.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	resultRepo := repository.NewResultRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, studentRepo, teacherRepo, cfg.JWT, logr)
	userSvc := service.NewUserService(userRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, logr)
	resultSvc := service.NewResultService(resultRepo, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, logr)
	exportSvc := service.NewExportService(studentRepo, resultRepo, logr)
	dashboardSvc := service.NewDashboardService(
		userRepo, subjectRepo, assignmentRepo, studentRepo,
		assignmentSvc, announcementSvc, attendanceSvc,
		cacheRepo, cfg.Dashboard.CacheTTL, logr,
	)

	cookieMaxAge := int(cfg.JWT.Expiration.Seconds())
	authHandler := handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, cookieMaxAge, cfg.CookieSecure())
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	resultHandler := handler.NewResultHandler(resultSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authn := middleware.Authentication(authSvc, cfg.JWT.CookieName)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStudent)
	invalidate := invalidateDashboards(dashboardSvc)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authn, authHandler.Me)
		}

		users := api.Group("/users", authn)
		{
			users.GET("", adminOnly, userHandler.List)
			users.GET("/:id", middleware.RequireSelfOrRoles("id", models.RoleAdmin), userHandler.Get)
			users.PATCH("/:id", adminOnly, userHandler.Rename)
			users.DELETE("/:id", adminOnly, userHandler.Delete)
		}

		students := api.Group("/students", authn)
		{
			students.GET("", staff, studentHandler.List)
			students.GET("/enrollment/:enrollment", staff, studentHandler.GetByEnrollment)
			students.GET("/:id", anyRole, studentHandler.Get)
			students.PUT("/:id", adminOnly, studentHandler.Update)
			students.DELETE("/:id", adminOnly, studentHandler.Delete)
		}

		teachers := api.Group("/teachers", authn)
		{
			teachers.GET("", staff, teacherHandler.List)
			teachers.GET("/code/:code", staff, teacherHandler.GetByCode)
			teachers.GET("/:id", anyRole, teacherHandler.Get)
			teachers.PUT("/:id", adminOnly, teacherHandler.Update)
			teachers.DELETE("/:id", adminOnly, teacherHandler.Delete)
		}

		subjects := api.Group("/subjects", authn)
		{
			subjects.GET("", anyRole, subjectHandler.List)
			subjects.GET("/:id", anyRole, subjectHandler.Get)
			subjects.POST("", adminOnly, invalidate, subjectHandler.Create)
			subjects.PUT("/:id", adminOnly, invalidate, subjectHandler.Update)
			subjects.DELETE("/:id", adminOnly, invalidate, subjectHandler.Delete)
		}

		results := api.Group("/results", authn)
		{
			results.GET("", staff, resultHandler.List)
			results.GET("/student/:id", anyRole, resultHandler.Summary)
			results.POST("", staff, resultHandler.Create)
			results.PUT("/:id", staff, resultHandler.Update)
			results.DELETE("/:id", staff, resultHandler.Delete)
		}

		attendance := api.Group("/attendance", authn)
		{
			attendance.GET("", staff, attendanceHandler.List)
			attendance.GET("/student/:id", anyRole, attendanceHandler.Summary)
			attendance.POST("", staff, invalidate, attendanceHandler.Record)
			attendance.POST("/bulk", staff, invalidate, attendanceHandler.RecordBulk)
		}

		assignments := api.Group("/assignments", authn)
		{
			assignments.GET("", anyRole, assignmentHandler.List)
			assignments.GET("/:id", anyRole, assignmentHandler.Get)
			assignments.POST("", staff, invalidate, assignmentHandler.Create)
			assignments.PUT("/:id", staff, invalidate, assignmentHandler.Update)
			assignments.DELETE("/:id", staff, invalidate, assignmentHandler.Delete)
		}

		timetables := api.Group("/timetables", authn)
		{
			timetables.GET("", anyRole, timetableHandler.List)
			timetables.POST("", adminOnly, timetableHandler.Create)
			timetables.PUT("/:id", adminOnly, timetableHandler.Update)
			timetables.DELETE("/:id", adminOnly, timetableHandler.Delete)
		}

		announcements := api.Group("/announcements", authn)
		{
			announcements.GET("", anyRole, announcementHandler.List)
			announcements.POST("", staff, invalidate, announcementHandler.Create)
			announcements.PUT("/:id", staff, invalidate, announcementHandler.Update)
			announcements.DELETE("/:id", staff, invalidate, announcementHandler.Delete)
		}

		dashboard := api.Group("/dashboard", authn)
		{
			dashboard.GET("/admin", adminOnly, dashboardHandler.AdminOverview)
			dashboard.GET("/student", middleware.RequireRoles(models.RoleStudent), dashboardHandler.StudentHome)
		}

		exports := api.Group("/exports", authn)
		{
			exports.GET("/students", adminOnly, exportHandler.Students)
			exports.GET("/results/:id", staff, exportHandler.Results)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// invalidateDashboards drops cached dashboard payloads after a successful
// mutation so stale counts never outlive a write by more than one request.
func invalidateDashboards(dashboards *service.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < http.StatusBadRequest {
			dashboards.Invalidate(c.Request.Context())
		}
	}
}
