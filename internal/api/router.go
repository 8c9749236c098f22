package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuss/selfreliance-portal/internal/api/handler"
	"github.com/kuss/selfreliance-portal/internal/api/middleware"
	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/service"
	mongodb "github.com/kuss/selfreliance-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/kuss/selfreliance-portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	groups := mongodb.NewGroupRepository(db)
	enrollments := mongodb.NewEnrollmentRepository(db)
	attendance := mongodb.NewAttendanceRepository(db)
	revocations := redisdb.NewRevocationList(rdb)

	authService := service.NewAuthService(users, revocations, jwtSecret, tokenTTL, log)
	groupService := service.NewGroupService(groups, enrollments, log)
	attendanceService := service.NewAttendanceService(groups, attendance, log)
	reportService := service.NewReportService(groups, attendance, log)

	authHandler := handler.NewAuthHandler(authService, log)
	groupHandler := handler.NewGroupHandler(groupService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	reportHandler := handler.NewReportHandler(reportService)

	authed := middleware.Auth(jwtSecret, revocations)
	committee := middleware.RBAC(domain.CommitteeRoles()...)
	reports := middleware.RBAC(domain.ReportRoles()...)
	instructor := middleware.RBAC(domain.RoleInstructor)
	student := middleware.RBAC(domain.RoleStudent)
	attendanceRead := middleware.RBAC(append(domain.CommitteeRoles(), domain.RoleInstructor)...)

	// --- Public routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Session routes ---
	e.POST("/auth/logout", authHandler.Logout, authed)
	e.GET("/auth/verify", authHandler.Verify, authed)

	// --- Group management (committee) ---
	e.POST("/group/assign", groupHandler.Assign, authed, committee)
	e.PUT("/group/assignment/:id", groupHandler.Update, authed, committee)
	e.GET("/group/assignments", groupHandler.List, authed, reports)

	// --- Student routes ---
	e.GET("/group/available", groupHandler.Available, authed, student)
	e.POST("/group/join", groupHandler.Join, authed, student)
	e.GET("/group/my-enrollment", groupHandler.MyEnrollments, authed, student)

	// --- Instructor routes ---
	e.GET("/group/my-groups", groupHandler.MyGroups, authed, instructor)
	e.GET("/group/my-group-details", groupHandler.Participants, authed, attendanceRead)
	e.POST("/group/attendance", attendanceHandler.Mark, authed, instructor)
	e.GET("/group/attendance", attendanceHandler.Week, authed, attendanceRead)

	// --- Reports (stake leadership) ---
	e.GET("/group/stake_reports", reportHandler.StakeReports, authed, reports)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
