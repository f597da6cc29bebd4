package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("test-secret")

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware(testSecret), func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusInternalServerError, false, "missing userId", nil)
		}
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"userId": userID})
	})
	return app
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func request(t *testing.T, app *fiber.App, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	app := newProtectedApp()

	signed, err := GenerateJWT(testSecret, 42, "Test User", "STUDENT", "s@x.edu")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if status := request(t, app, "Bearer "+signed); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
}

func TestJWTMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	app := newProtectedApp()

	if status := request(t, app, ""); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", status)
	}
	if status := request(t, app, "Token abc"); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer header, got %d", status)
	}
	if status := request(t, app, "Bearer not-a-token"); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", status)
	}
}

func TestJWTMiddlewareRejectsNonNumericUserIDClaim(t *testing.T) {
	app := newProtectedApp()

	// Validly signed, but the userId claim is not a number; the handler
	// must answer 401 rather than panic on the claim cast.
	signed := signToken(t, jwt.MapClaims{
		"userId": "not-a-number",
		"role":   "STUDENT",
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	if status := request(t, app, "Bearer "+signed); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for non-numeric userId claim, got %d", status)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	app := newProtectedApp()

	signed := signToken(t, jwt.MapClaims{
		"userId": float64(42),
		"role":   "STUDENT",
		"iat":    time.Now().Add(-2 * time.Hour).Unix(),
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	if status := request(t, app, "Bearer "+signed); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", status)
	}
}
