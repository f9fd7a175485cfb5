package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"

	"loggate/internal/config"
	"loggate/internal/middleware"
)

// TestEncryptCookieSessionRoundTrip verifies that the encryptcookie +
// session middleware stack survives a client replaying encrypted session
// cookies, which is exactly what the admin login flow does.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	secret := "test-secret-that-is-long-enough-for-production"

	app := fiber.New()

	// Mirror the production middleware order: encryptcookie, then session.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey(secret),
	}))

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/login", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("admin", true)
		return c.SendString("ok")
	})
	app.Get("/check", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		if isAdmin, _ := sess.Get("admin").(bool); isAdmin {
			return c.SendString("admin")
		}
		return c.SendString("anonymous")
	})

	req, _ := http.NewRequest("POST", "/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, body)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: no cookies returned")
	}

	// Replaying the cookies triggers encryptcookie decryption.
	req2, _ := http.NewRequest("GET", "/check", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}

	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("check request failed: %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode != 200 {
		t.Fatalf("check: expected 200, got %d: %s", resp2.StatusCode, body)
	}
	if string(body) != "admin" {
		t.Errorf("check: expected session flag to survive replay, got %q", body)
	}
}

func TestAdminTokenGate(t *testing.T) {
	newApp := func(token string) *fiber.App {
		cfg := &config.Config{AdminToken: token}
		authMiddleware := middleware.NewAuthMiddleware(cfg)

		app := fiber.New()
		app.Get("/api/v1/keys", authMiddleware.RequireToken, func(c fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	t.Run("valid token", func(t *testing.T) {
		app := newApp("s3cret")
		req, _ := http.NewRequest("GET", "/api/v1/keys", nil)
		req.Header.Set("X-Admin-Token", "s3cret")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		app := newApp("s3cret")
		req, _ := http.NewRequest("GET", "/api/v1/keys", nil)
		req.Header.Set("X-Admin-Token", "nope")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("missing token header", func(t *testing.T) {
		app := newApp("s3cret")
		req, _ := http.NewRequest("GET", "/api/v1/keys", nil)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("api disabled without configured token", func(t *testing.T) {
		app := newApp("")
		req, _ := http.NewRequest("GET", "/api/v1/keys", nil)
		req.Header.Set("X-Admin-Token", "")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})
}
