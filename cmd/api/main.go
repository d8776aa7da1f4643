package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campushq/timetable-api/api/swagger"
	"github.com/campushq/timetable-api/internal/handler"
	"github.com/campushq/timetable-api/internal/middleware"
	"github.com/campushq/timetable-api/internal/models"
	"github.com/campushq/timetable-api/internal/repository"
	"github.com/campushq/timetable-api/internal/service"
	"github.com/campushq/timetable-api/pkg/cache"
	"github.com/campushq/timetable-api/pkg/config"
	"github.com/campushq/timetable-api/pkg/database"
	"github.com/campushq/timetable-api/pkg/logger"
	corsmiddleware "github.com/campushq/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/timetable-api/pkg/middleware/requestid"
)

// @title School Timetable API
// @version 1.0.0
// @description Catalog, conflict checking, assignment planning and schedule replication for a school timetable.
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without schedule cache", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, cfg.Cache.TTL, metricsSvc, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)

	tokenSvc := service.NewTokenService(cfg.JWT.Secret)
	scheduleSvc := service.NewScheduleService(scheduleRepo, sectionRepo, courseRepo, teacherRepo, studentRepo, timeSlotRepo, cacheSvc, validate, logr)
	replicationSvc := service.NewReplicationService(scheduleRepo, cacheSvc, metricsSvc, validate, logr,
		cfg.Schedule.CopyErrorSampleSize, cfg.Schedule.CopyWeekErrorSample)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, sectionRepo, validate, logr, cfg.Schedule.DefaultSectionCapacity)
	sectionSvc := service.NewSectionService(sectionRepo, validate, logr, cfg.Schedule.DefaultSectionCapacity)
	timeSlotSvc := service.NewTimeSlotService(timeSlotRepo, validate, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, validate, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	replicationHandler := handler.NewReplicationHandler(replicationSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	timeSlotHandler := handler.NewTimeSlotHandler(timeSlotSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))

	admin := middleware.RequireRole(models.RoleAdmin)

	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.List)
		rooms.GET("/:id", roomHandler.Get)
		rooms.POST("", admin, roomHandler.Create)
		rooms.PUT("/:id", admin, roomHandler.Update)
		rooms.DELETE("/:id", admin, roomHandler.Delete)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", admin, courseHandler.Create)
		courses.PUT("/:id", admin, courseHandler.Update)
		courses.DELETE("/:id", admin, courseHandler.Delete)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.GET("/user/:userId", teacherHandler.GetByUser)
		teachers.POST("", admin, teacherHandler.Create)
		teachers.PUT("/:id", admin, teacherHandler.Update)
		teachers.DELETE("/:id", admin, teacherHandler.Delete)
	}

	students := api.Group("/students")
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", admin, studentHandler.Create)
		students.PUT("/:id", admin, studentHandler.Update)
		students.DELETE("/:id", admin, studentHandler.Delete)
	}

	scheduling := api.Group("/scheduling")
	{
		scheduling.GET("/sections", sectionHandler.List)
		scheduling.GET("/sections/:id", sectionHandler.Get)
		scheduling.POST("/sections", admin, sectionHandler.Create)

		scheduling.GET("/timeslots", timeSlotHandler.List)
		scheduling.GET("/timeslots/:id", timeSlotHandler.Get)
		scheduling.POST("/timeslots", admin, timeSlotHandler.Create)
		scheduling.PUT("/timeslots/:id", admin, timeSlotHandler.Update)
		scheduling.DELETE("/timeslots/:id", admin, timeSlotHandler.Delete)

		scheduling.GET("/semesters", semesterHandler.List)
		scheduling.GET("/semesters/:id", semesterHandler.Get)
		scheduling.POST("/semesters", admin, semesterHandler.Create)
		scheduling.PUT("/semesters/:id", admin, semesterHandler.Update)
		scheduling.DELETE("/semesters/:id", admin, semesterHandler.Delete)

		scheduling.GET("/available-subjects", courseHandler.Subjects)
		scheduling.GET("/availability/teacher/:teacherId/slot/:slotId/day/:day", scheduleHandler.Availability)

		scheduling.GET("/schedule/section/:id", scheduleHandler.BySection)
		scheduling.GET("/schedule/day/:day", scheduleHandler.ByDay)
		scheduling.POST("/schedule", admin, scheduleHandler.Assign)
		scheduling.POST("/schedule/batch", admin, scheduleHandler.AssignBatch)
		scheduling.DELETE("/schedule/:id", admin, scheduleHandler.Deactivate)
		scheduling.POST("/schedule/bulk-copy", admin, replicationHandler.BulkCopy)
		scheduling.POST("/schedule/copy-day-to-week", admin, replicationHandler.CopyDayToWeek)
		scheduling.POST("/schedule/copy-week-to-semester", admin, replicationHandler.CopyWeekToSemester)
	}

	api.GET("/my/schedule", scheduleHandler.MySchedule)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
