package authController

import (
	"time"

	"campus/middleware"
	"campus/services"
	authValidator "campus/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the auth services as fiber handlers. Services are injected
// once at process start; handlers hold no other state.
type Handler struct {
	Auth         *services.AuthSessionService
	Registration *services.RegistrationService
	Reset        *services.PasswordResetService
	Otps         *services.OtpLedger
}

func NewHandler(auth *services.AuthSessionService, registration *services.RegistrationService, reset *services.PasswordResetService, otps *services.OtpLedger) *Handler {
	return &Handler{Auth: auth, Registration: registration, Reset: reset, Otps: otps}
}

// respondError maps the closed error-kind set to HTTP statuses. Messages are
// the short generic strings carried by the service error, never driver text.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation:
		status = fiber.StatusUnprocessableEntity
	case services.KindNotFoundOrExpired:
		status = fiber.StatusUnauthorized
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindUnverified:
		status = fiber.StatusForbidden
	case services.KindDelivery:
		status = fiber.StatusBadGateway
	}
	return middleware.JsonResponse(c, status, false, services.MessageOf(err), nil)
}

func clientInfo(c *fiber.Ctx) (ip, device string) {
	ip = c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	return ip, c.Get("User-Agent")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ip, device := clientInfo(c)
	session, err := h.Auth.Login(reqData.Email, reqData.Password, ip, device)
	if err != nil {
		return respondError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":        session,
		"otpRequired": h.Auth.CheckOtpRequirement(session.UserID),
	})
}

func (h *Handler) SendLoginOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSendOTP").(*struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.Auth.CreateLoginOTP(reqData.Email); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func (h *Handler) VerifyLoginOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	session, err := h.Auth.VerifyLoginOTP(reqData.Email, reqData.Code)
	if err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully.", fiber.Map{
		"user": session,
	})
}

func (h *Handler) OtpRequired(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP requirement checked.", fiber.Map{
		"otpRequired": h.Auth.CheckOtpRequirement(userId),
	})
}

func (h *Handler) RefreshOtpVerification(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if err := h.Auth.UpdateLoginOTPVerification(userId); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification window refreshed.", nil)
}

func (h *Handler) SendRegistrationOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSendOTP").(*struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.Registration.CreateRegistrationOTP(reqData.Email, reqData.FirstName); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func (h *Handler) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	userID, err := h.Registration.Register(services.RegistrationInput{
		Email:         reqData.Email,
		Code:          reqData.Code,
		Password:      reqData.Password,
		FirstName:     reqData.FirstName,
		LastName:      reqData.LastName,
		StudentNumber: reqData.StudentNumber,
		ContactNumber: reqData.ContactNumber,
		Address:       reqData.Address,
		DateOfBirth:   reqData.DateOfBirth,
	})
	if err != nil {
		return respondError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"userId": userID,
	})
}

func (h *Handler) SendPasswordResetOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSendOTP").(*struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.Reset.CreatePasswordResetOTP(reqData.Email); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func (h *Handler) VerifyPasswordResetOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.Reset.VerifyPasswordResetOTP(reqData.Email, reqData.Code); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Now you can reset your password.", nil)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResetPassword").(*struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.Reset.ResetPasswordWithOTP(reqData.Email, reqData.Code, reqData.Password); err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}

func (h *Handler) CleanupOTPs(c *fiber.Ctx) error {
	removed, err := h.Otps.SweepExpired(time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expired OTPs removed.", fiber.Map{
		"removed": removed,
	})
}
