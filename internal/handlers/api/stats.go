package api

import (
	"github.com/gofiber/fiber/v3"

	"loggate/internal/corpus"
	"loggate/internal/db"
)

// StatsHandler exposes search outcome counters and corpus state.
type StatsHandler struct {
	db     *db.DB
	corpus *corpus.Store
}

// NewStatsHandler creates a new API stats handler.
func NewStatsHandler(database *db.DB, store *corpus.Store) *StatsHandler {
	return &StatsHandler{db: database, corpus: store}
}

// Searches returns the aggregated per-keyword outcome counters.
func (h *StatsHandler) Searches(c fiber.Ctx) error {
	lookups, err := h.db.GetAllSearchLookups(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch search stats")
	}

	return jsonSuccess(c, fiber.Map{
		"lookups": lookups,
	})
}

// Corpus returns the loaded corpus state.
func (h *StatsHandler) Corpus(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"path":  h.corpus.Path(),
		"lines": h.corpus.Len(),
	})
}

// ReloadCorpus re-reads the corpus file from disk.
func (h *StatsHandler) ReloadCorpus(c fiber.Ctx) error {
	lines, err := h.corpus.Load()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to reload corpus")
	}

	return jsonSuccess(c, fiber.Map{
		"path":  h.corpus.Path(),
		"lines": lines,
	})
}
