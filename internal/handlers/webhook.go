package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/chat"
	"loggate/internal/config"
)

// WebhookHandler receives inbound chat updates from the gateway and feeds
// them to the chat router.
type WebhookHandler struct {
	router *chat.Router
	cfg    *config.Config
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(router *chat.Router, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{router: router, cfg: cfg}
}

// Receive handles one inbound update. The gateway authenticates with the
// same bearer token used for outbound calls.
func (h *WebhookHandler) Receive(c fiber.Ctx) error {
	if h.cfg.ChatGatewayToken != "" {
		if c.Get("Authorization") != "Bearer "+h.cfg.ChatGatewayToken {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid gateway token",
			})
		}
	}

	var update chat.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "invalid update body",
		})
	}
	if update.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  "missing user_id",
		})
	}

	if err := h.router.HandleUpdate(c.Context(), update); err != nil {
		slog.Error("failed to handle chat update", "user", update.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  "update handling failed",
		})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
