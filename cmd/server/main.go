// Package main boots the API server and the background workers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"centime/internal/config"
	"centime/internal/logger"
	"centime/internal/repositories"
	"centime/internal/routes"
	"centime/internal/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	log, cleanup := logger.New(config.IsProduction())
	defer cleanup()

	if err := repositories.InitDB(); err != nil {
		log.Fatal("database initialization failed", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if repositories.CacheService != nil {
			_ = repositories.CacheService.Close()
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      "centime",
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Brute-force guard on the credential and verification endpoints.
	authLimiter := limiter.New(limiter.Config{
		Max:        config.GetIntEnv("AUTH_RATE_LIMIT", 5),
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, try again later",
			})
		},
	})
	app.Use("/api/register", authLimiter)
	app.Use("/api/login", authLimiter)
	app.Use("/api/transactions/verify", authLimiter)

	services := routes.SetupRoutes(app, repositories.DB, log)

	runner := workers.NewRunner(log)
	runner.Register("recurring-scheduler",
		config.GetDurationEnv("RECURRING_POLL_INTERVAL", time.Minute),
		func(ctx context.Context) error {
			_, err := services.Recurring.ProcessDue(ctx)
			return err
		})
	if interval := config.GetDurationEnv("MAINTENANCE_INTERVAL", 0); interval > 0 {
		runner.Register("wallet-maintenance", interval,
			func(ctx context.Context) error {
				_, err := services.Maintenance.Run(ctx)
				return err
			})
	}
	runner.Start()

	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		if err := app.Listen(addr); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", config.GetEnv("PORT", "3000")))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	runner.Stop()
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
