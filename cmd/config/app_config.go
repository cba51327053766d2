package config

import (
	"TransitGuard/internal/api/handlers"
	"TransitGuard/internal/api/routes"
	"TransitGuard/internal/middleware"
	"TransitGuard/internal/utils"
	"TransitGuard/internal/utils/storage"
	"TransitGuard/pkg/activity"
	"TransitGuard/pkg/coin"
	"TransitGuard/pkg/jwt"
	"TransitGuard/pkg/payment"
	"TransitGuard/pkg/report"
	"TransitGuard/pkg/session"
	"TransitGuard/pkg/user"
	"TransitGuard/pkg/verification"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	sessionRepository := session.NewSessionRepository(db)
	verificationRepository := verification.NewVerificationRepository(db)
	activityRepository := activity.NewActivityRepository(db)
	coinRepository := coin.NewCoinRepository(db)
	reportRepository := report.NewReportRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	activityService := activity.NewActivityService(activityRepository)
	paymentService := payment.NewPaymentService()
	coinService := coin.NewCoinService(coinRepository, paymentService)
	sessionService := session.NewSessionService(sessionRepository, activityService, s3)
	verificationService := verification.NewVerificationService(
		verificationRepository,
		activityService,
		coinService,
		s3,
	)
	reportService := report.NewReportService(reportRepository, coinService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	sessionHandler := handlers.NewSessionHandler(sessionService, validator)
	verificationHandler := handlers.NewVerificationHandler(verificationService, validator)
	activityHandler := handlers.NewActivityHandler(activityService)
	coinHandler := handlers.NewCoinHandler(coinService, paymentService, validator)
	reportHandler := handlers.NewReportHandler(reportService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		SessionHandler:      sessionHandler,
		VerificationHandler: verificationHandler,
		ActivityHandler:     activityHandler,
		CoinHandler:         coinHandler,
		ReportHandler:       reportHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
