package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"loggate/internal/config"
)

// AuthMiddleware guards the admin dashboard and the JSON admin API.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAdmin ensures the session belongs to a logged-in admin, redirecting
// to /login if not.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Redirect().To("/login")
	}

	isAdmin, _ := sess.Get("admin").(bool)
	if !isAdmin {
		sess.Set("redirect_after_login", c.OriginalURL())
		return c.Redirect().To("/login")
	}

	return c.Next()
}

// RequireToken ensures the request carries the static admin API token in the
// X-Admin-Token header. Used for the JSON API where sessions make no sense.
func (m *AuthMiddleware) RequireToken(c fiber.Ctx) error {
	if m.cfg.AdminToken == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error":  "admin API disabled",
		})
	}

	if !secureCompare(c.Get("X-Admin-Token"), m.cfg.AdminToken) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "invalid admin token",
		})
	}

	return c.Next()
}

// secureCompare does a constant-time string comparison.
func secureCompare(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AdminEmailAllowed reports whether an OIDC email is on the comma-separated
// admin allowlist. An empty allowlist admits nobody.
func AdminEmailAllowed(allowlist, email string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range strings.Split(allowlist, ",") {
		if strings.EqualFold(strings.TrimSpace(allowed), email) {
			return true
		}
	}
	return false
}
