// Package main is the entry point for the packet tracker. It loads the
// configuration, connects to PostgreSQL, runs migrations, and wires the
// Fiber app with its middleware and routes.
package main

import (
	"context"
	"log"
	"time"

	"github.com/JoelEager/packet/internal/config"
	"github.com/JoelEager/packet/internal/database"
	"github.com/JoelEager/packet/internal/handlers"
	"github.com/JoelEager/packet/internal/middleware"
	"github.com/JoelEager/packet/internal/security"
	"github.com/JoelEager/packet/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	db, err := database.Connect(context.Background(), database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	securityConfig := security.DefaultSecurityConfig()
	logger := security.NewLogger()
	validator := security.NewValidationService(securityConfig)

	// One bucket per user for signing, one per IP for login attempts.
	signRateLimiter := security.NewRateLimiter(
		securityConfig.SignRateLimit,
		time.Minute/time.Duration(securityConfig.SignRateLimit),
	)
	defer signRateLimiter.Stop()

	loginRateLimiter := security.NewRateLimiter(
		securityConfig.LoginRateLimit,
		time.Minute/time.Duration(securityConfig.LoginRateLimit),
	)
	defer loginRateLimiter.Stop()

	searchRateLimiter := security.NewRateLimiter(
		securityConfig.SearchRateLimit,
		time.Minute/time.Duration(securityConfig.SearchRateLimit),
	)
	defer searchRateLimiter.Stop()

	lockout := security.NewAccountLockout(
		securityConfig.AccountLockoutThreshold,
		securityConfig.AccountLockoutDuration,
	)

	// The completion notification sink is fire-and-forget; without a webhook
	// configured it is a no-op.
	var notifier services.Notifier = services.NopNotifier{}
	if cfg.SlackWebhookURL != "" {
		notifier = services.NewSlackNotifier(cfg.SlackWebhookURL)
	}

	packetService := services.NewPacketService(db, logger, notifier, validator)
	authService := services.NewAuthService(db, securityConfig.BcryptCost)
	directory := services.NewCachedDirectory(services.NewAccountDirectory(db))

	app := fiber.New()
	app.Use(recover.New())

	store := session.New(session.Config{
		Expiration:     securityConfig.SessionTimeout,
		CookieSecure:   securityConfig.SessionSecure,
		CookieHTTPOnly: securityConfig.SessionHTTPOnly,
		CookieSameSite: securityConfig.SessionSameSite,
		CookieName:     securityConfig.SessionCookieName,
		CookiePath:     "/",
	})

	authHandler := handlers.NewAuthHandler(store, authService, lockout, logger)
	apiHandler := handlers.NewAPIHandler(packetService, directory, logger)

	app.Post("/login",
		middleware.RateLimit(loginRateLimiter, "login", logger),
		authHandler.Login,
	)
	app.Get("/logout", authHandler.Logout)

	api := app.Group("/api", middleware.PacketAuth(store))

	api.Get("/packet/:packet_id/", apiHandler.GetPacket)
	api.Post("/packet/:packet_id/sign/",
		middleware.RateLimit(signRateLimiter, "sign", logger),
		apiHandler.SignPacket,
	)
	api.Get("/packets/open/", apiHandler.ListOpenPackets)
	api.Get("/freshman/:freshman_username/", apiHandler.GetFreshman)
	api.Get("/freshmen/:search_term/",
		middleware.RateLimit(searchRateLimiter, "search", logger),
		apiHandler.SearchFreshmen,
	)
	api.Get("/member/:username/", apiHandler.GetMember)

	logger.Info("packet server starting on port " + cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Critical("Failed to start server", err)
		log.Fatalf("Failed to start server: %v", err)
	}
}
