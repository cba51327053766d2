package routes

import (
	"TransitGuard/internal/api/handlers"
	"TransitGuard/internal/middleware"
	"TransitGuard/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	SessionHandler      handlers.SessionHandler
	VerificationHandler handlers.VerificationHandler
	ActivityHandler     handlers.ActivityHandler
	CoinHandler         handlers.CoinHandler
	ReportHandler       handlers.ReportHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Sessions()
	c.Coins()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
	}
}

func (c *Config) Sessions() {
	sessions := c.App.Group("/api/v1/sessions", c.Middleware.AuthMiddleware(c.JWTService))

	sessions.Post("", c.SessionHandler.CreateSession)
	sessions.Get("", c.SessionHandler.GetSessions)
	sessions.Get("/:id", c.SessionHandler.GetSessionByID)
	sessions.Post("/:id/start", c.SessionHandler.StartSession)

	// seal verification
	sessions.Post("/:id/scans", c.VerificationHandler.RecordScan)
	sessions.Delete("/:id/scans/:scan_id", c.VerificationHandler.RemoveScan)
	sessions.Patch("/:id/seals/:seal_id/status", c.VerificationHandler.SetSealStatus)

	// field verification
	sessions.Patch("/:id/fields/:field_key", c.VerificationHandler.VerifyField)
	sessions.Post("/:id/fields/verify-all", c.VerificationHandler.VerifyAllFields)

	// finalization
	sessions.Get("/:id/summary", c.VerificationHandler.GetSummary)
	sessions.Post("/:id/complete", c.VerificationHandler.Complete)

	sessions.Get("/:id/activities", c.ActivityHandler.GetSessionActivities)
	sessions.Get("/:id/report", c.ReportHandler.ExportVerificationReport)
}

func (c *Config) Coins() {
	coins := c.App.Group("/api/v1/coins", c.Middleware.AuthMiddleware(c.JWTService))

	coins.Get("", c.CoinHandler.GetUserCoins)
	coins.Get("/packages", c.CoinHandler.GetCoinPackages)
	coins.Post("/buy", c.CoinHandler.BuyCoins)
	coins.Get("/history", c.CoinHandler.GetCoinTransactionHistory)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.CoinHandler.MidtransWebhookHandler)
}
