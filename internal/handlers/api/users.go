package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/config"
	"loggate/internal/db"
)

// UserHandler handles access grant management via the JSON API.
type UserHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{db: database, cfg: cfg}
}

// List returns access records with population counters.
func (h *UserHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	users, err := h.db.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	stats, err := h.db.GetUserStats(c.Context(), 5*time.Minute)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch user stats")
	}

	return jsonSuccess(c, fiber.Map{
		"users": users,
		"stats": stats,
	})
}

// Grant gives a user access for the given number of days without a key.
func (h *UserHandler) Grant(c fiber.Ctx) error {
	var body struct {
		UserID int64 `json:"user_id"`
		Days   int   `json:"days"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.UserID == 0 || body.Days < 1 {
		return jsonError(c, fiber.StatusBadRequest, "user_id and days are required")
	}

	expires := time.Now().Add(time.Duration(body.Days) * 24 * time.Hour)
	if err := h.db.GrantAccess(c.Context(), body.UserID, expires); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to grant access")
	}

	return jsonSuccess(c, fiber.Map{
		"user_id":    body.UserID,
		"expires_at": expires,
	})
}

// Revoke removes a user's access grant.
func (h *UserHandler) Revoke(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.db.RevokeAccess(c.Context(), userID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to revoke access")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "access revoked",
	})
}

// Reset clears a user's delivery ledger. With a keyword query parameter only
// that keyword's entries are removed.
func (h *UserHandler) Reset(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.db.ClearDeliveries(c.Context(), userID, c.Query("keyword", "")); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to reset deliveries")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "deliveries cleared",
	})
}
