package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/config"
	"loggate/internal/db"
	"loggate/internal/validation"
)

// KeyHandler handles key management via the JSON API.
type KeyHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewKeyHandler creates a new API key handler.
func NewKeyHandler(database *db.DB, cfg *config.Config) *KeyHandler {
	return &KeyHandler{db: database, cfg: cfg}
}

// List returns keys, optionally filtered by a substring on the token or the
// redeeming user id.
func (h *KeyHandler) List(c fiber.Ctx) error {
	filter := c.Query("q", "")
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	keys, total, err := h.db.ListKeys(c.Context(), filter, limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keys")
	}

	now := time.Now()
	type keyResponse struct {
		Token      string    `json:"token"`
		ExpiresAt  time.Time `json:"expires_at"`
		RedeemedBy *int64    `json:"redeemed_by"`
		Active     bool      `json:"active"`
		CreatedAt  time.Time `json:"created_at"`
	}

	resp := make([]keyResponse, len(keys))
	for i, k := range keys {
		resp[i] = keyResponse{
			Token:      k.Token,
			ExpiresAt:  k.ExpiresAt,
			RedeemedBy: k.RedeemedBy,
			Active:     k.Active(now),
			CreatedAt:  k.CreatedAt,
		}
	}

	return jsonSuccess(c, fiber.Map{
		"keys":  resp,
		"total": total,
	})
}

// Create generates a batch of keys.
func (h *KeyHandler) Create(c fiber.Ctx) error {
	var body struct {
		Days  int `json:"days"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateKeyGeneration(body.Days, body.Count) {
		return jsonError(c, fiber.StatusBadRequest, "days and count out of range")
	}

	tokens, err := h.db.CreateKeys(c.Context(), body.Days, body.Count)
	if errors.Is(err, db.ErrTokenExhausted) {
		return jsonError(c, fiber.StatusConflict, "token space exhausted, try a smaller batch")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create keys")
	}

	return jsonSuccess(c, fiber.Map{
		"tokens": tokens,
	})
}

// Delete removes a key by token.
func (h *KeyHandler) Delete(c fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "token is required")
	}

	if err := h.db.DeleteKey(c.Context(), token); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete key")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "key deleted",
	})
}
