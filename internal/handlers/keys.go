package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/config"
	"loggate/internal/db"
	"loggate/internal/validation"
)

// KeyHandler handles key generation and deletion from the dashboard.
type KeyHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(database *db.DB, cfg *config.Config) *KeyHandler {
	return &KeyHandler{db: database, cfg: cfg}
}

// Create generates a batch of keys from the dashboard form.
func (h *KeyHandler) Create(c fiber.Ctx) error {
	days, err := strconv.Atoi(c.FormValue("days"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid validity days")
	}
	count, err := strconv.Atoi(c.FormValue("count"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid key count")
	}
	if !validation.ValidateKeyGeneration(days, count) {
		return fiber.NewError(fiber.StatusBadRequest, "validity days and key count out of range")
	}

	if _, err := h.db.CreateKeys(c.Context(), days, count); err != nil {
		return err
	}

	return c.Redirect().To("/")
}

// Delete removes a single key by token.
func (h *KeyHandler) Delete(c fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token is required")
	}

	if err := h.db.DeleteKey(c.Context(), token); err != nil {
		return err
	}

	return c.Redirect().To("/")
}
