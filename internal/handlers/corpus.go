package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/corpus"
)

// CorpusHandler handles log corpus administration.
type CorpusHandler struct {
	corpus *corpus.Store
}

// NewCorpusHandler creates a new corpus handler.
func NewCorpusHandler(store *corpus.Store) *CorpusHandler {
	return &CorpusHandler{corpus: store}
}

// Reload re-reads the corpus file and swaps it in atomically. Searches that
// are already scanning keep the snapshot they started with.
func (h *CorpusHandler) Reload(c fiber.Ctx) error {
	lines, err := h.corpus.Load()
	if err != nil {
		return err
	}

	slog.Info("corpus reloaded", "path", h.corpus.Path(), "lines", lines)
	return c.Redirect().To("/")
}
