package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/config"
	"loggate/internal/db"
)

// UserHandler handles access grant management from the dashboard.
type UserHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewUserHandler creates a new user handler.
func NewUserHandler(database *db.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{db: database, cfg: cfg}
}

// Grant gives a user direct access without a key, for the given number of
// days.
func (h *UserHandler) Grant(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.FormValue("user_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	days, err := strconv.Atoi(c.FormValue("days"))
	if err != nil || days < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid validity days")
	}

	expires := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	if err := h.db.GrantAccess(c.Context(), userID, expires); err != nil {
		return err
	}

	return c.Redirect().To("/users")
}

// Revoke removes a user's access grant.
func (h *UserHandler) Revoke(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.db.RevokeAccess(c.Context(), userID); err != nil {
		return err
	}

	return c.Redirect().To("/users")
}

// Reset clears a user's delivery ledger so old lines become findable again.
func (h *UserHandler) Reset(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.db.ClearDeliveries(c.Context(), userID, ""); err != nil {
		return err
	}

	return c.Redirect().To("/users")
}
