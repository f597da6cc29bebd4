package main

import (
	"log"

	"campus/config"
	authController "campus/controllers/auth"
	"campus/database"
	authRoutes "campus/routers/authRoutes"
	"campus/services"
	"campus/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var notifier services.Notifier
	if cfg.MailProvider == "sendgrid" {
		notifier = utils.NewSendGridNotifier(cfg.SendGridKey, cfg.EmailSender)
	} else {
		notifier = utils.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.Password)
	}

	hasher := services.NewPasswordHasher(cfg.SaltRound)
	creds := services.NewCredentialStore(db)
	otps := services.NewOtpLedger(db)
	jwtSecret := []byte(cfg.JWTKey)

	auth := services.NewAuthSessionService(db, hasher, otps, notifier, jwtSecret)
	registration := services.NewRegistrationService(db, creds, hasher, otps, notifier)
	reset := services.NewPasswordResetService(db, hasher, otps, notifier)

	handler := authController.NewHandler(auth, registration, reset, otps)

	sweeper := utils.InitializeOtpSweeper(cfg.OtpSweepSpec, otps)
	defer sweeper.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, handler, jwtSecret)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
