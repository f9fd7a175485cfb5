package handlers

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"loggate/internal/config"
	"loggate/internal/middleware"
)

// AuthHandler handles the admin login flows: a password form, and optionally
// OIDC when an issuer is configured.
type AuthHandler struct {
	cfg          *config.Config
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewAuthHandler creates a new auth handler. OIDC setup is skipped when no
// issuer is configured; the password form is always available.
func NewAuthHandler(ctx context.Context, cfg *config.Config) (*AuthHandler, error) {
	h := &AuthHandler{cfg: cfg}

	if cfg.OIDCIssuer != "" {
		provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
		if err != nil {
			return nil, err
		}
		h.provider = provider
		h.oauth2Config = oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
		h.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})
	}

	return h, nil
}

// OIDCEnabled reports whether the OIDC login path is configured.
func (h *AuthHandler) OIDCEnabled() bool {
	return h.provider != nil
}

// LoginForm renders the admin login page.
func (h *AuthHandler) LoginForm(c fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Title":       "Login",
		"OIDCEnabled": h.OIDCEnabled(),
	})
}

// Login checks the admin password and opens an admin session.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	if h.cfg.AdminPassword == "" {
		return fiber.NewError(fiber.StatusForbidden, "password login disabled")
	}

	password := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AdminPassword)) != 1 {
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Title":       "Login",
			"OIDCEnabled": h.OIDCEnabled(),
			"Error":       "Invalid password",
		})
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("admin", true)

	return redirectAfterLogin(c, sess)
}

// OIDCLogin initiates the OIDC login flow.
func (h *AuthHandler) OIDCLogin(c fiber.Ctx) error {
	if !h.OIDCEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "OIDC not configured")
	}

	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// OIDCCallback handles the OIDC callback. Only identities whose email is on
// the admin allowlist get an admin session.
func (h *AuthHandler) OIDCCallback(c fiber.Ctx) error {
	if !h.OIDCEnabled() {
		return fiber.NewError(fiber.StatusNotFound, "OIDC not configured")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState := sess.Get("oauth_state")
	if savedState == nil || savedState.(string) != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put the email on the userinfo endpoint.
	if claims.Email == "" {
		userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
		if err == nil {
			var userInfoClaims struct {
				Email string `json:"email"`
			}
			if err := userInfo.Claims(&userInfoClaims); err == nil {
				claims.Email = userInfoClaims.Email
			}
		} else {
			log.Printf("Warning: Failed to fetch userinfo: %v", err)
		}
	}

	if !middleware.AdminEmailAllowed(h.cfg.OIDCAdminEmails, claims.Email) {
		return fiber.NewError(fiber.StatusForbidden, "not an admin account")
	}

	sess.Set("admin", true)
	sess.Set("admin_email", claims.Email)

	return redirectAfterLogin(c, sess)
}

// Logout clears the admin session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess != nil {
		sess.Destroy()
	}
	return c.Redirect().To("/login")
}

func redirectAfterLogin(c fiber.Ctx, sess *session.Middleware) error {
	redirectURL := "/"
	if saved := sess.Get("redirect_after_login"); saved != nil {
		if url, ok := saved.(string); ok && url != "" {
			redirectURL = url
		}
		sess.Delete("redirect_after_login")
	}
	return c.Redirect().To(redirectURL)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
