package authRoutes

import (
	authController "campus/controllers/auth"
	"campus/middleware"
	authValidator "campus/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes wires the auth endpoints
func SetupAuthRoutes(app *fiber.App, h *authController.Handler, jwtSecret []byte) {
	auth := app.Group("/auth")

	auth.Post("/login", authValidator.Login(), h.Login)
	auth.Post("/login/otp", authValidator.SendOTP(), h.SendLoginOTP)
	auth.Post("/login/otp/verify", authValidator.VerifyOTP(), h.VerifyLoginOTP)

	auth.Post("/register/otp", authValidator.SendOTP(), h.SendRegistrationOTP)
	auth.Post("/register", authValidator.Register(), h.Register)

	auth.Post("/password/otp", authValidator.SendOTP(), h.SendPasswordResetOTP)
	auth.Post("/password/otp/verify", authValidator.VerifyOTP(), h.VerifyPasswordResetOTP)
	auth.Post("/password/reset", authValidator.ResetPassword(), h.ResetPassword)

	jwt := middleware.JWTMiddleware(jwtSecret)
	auth.Get("/otp-required", jwt, h.OtpRequired)
	auth.Post("/otp-refresh", jwt, h.RefreshOtpVerification)
	auth.Post("/otp/cleanup", jwt, middleware.AdminOnly, h.CleanupOTPs)
}
