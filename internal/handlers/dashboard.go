package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"loggate/internal/config"
	"loggate/internal/corpus"
	"loggate/internal/db"
)

const keysPerPage = 50

// onlineWindow is how recently a user must have been seen to count as online.
const onlineWindow = 5 * time.Minute

// DashboardHandler renders the admin dashboard: key inventory, user counts
// and search outcome counters.
type DashboardHandler struct {
	db      *db.DB
	cfg     *config.Config
	corpus  *corpus.Store
	started time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(database *db.DB, cfg *config.Config, store *corpus.Store) *DashboardHandler {
	return &DashboardHandler{db: database, cfg: cfg, corpus: store, started: time.Now()}
}

// Index renders the dashboard page.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	filter := c.Query("q", "")
	page := queryPage(c)
	offset := (page - 1) * keysPerPage

	keys, total, err := h.db.ListKeys(c.Context(), filter, keysPerPage, offset)
	if err != nil {
		return err
	}

	stats, err := h.db.GetUserStats(c.Context(), onlineWindow)
	if err != nil {
		return err
	}

	lookups, err := h.db.GetAllSearchLookups(c.Context())
	if err != nil {
		return err
	}

	totalPages := (total + keysPerPage - 1) / keysPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	return c.Render("dashboard", fiber.Map{
		"Title":       "Dashboard",
		"Keys":        keys,
		"Filter":      filter,
		"Page":        page,
		"TotalPages":  totalPages,
		"TotalKeys":   total,
		"HasPrev":     page > 1,
		"HasNext":     page < totalPages,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"Stats":       stats,
		"Uptime":      time.Since(h.started).Round(time.Second).String(),
		"Lookups":     lookups,
		"CorpusPath":  h.corpus.Path(),
		"CorpusLines": h.corpus.Len(),
	})
}

// Users renders the access record listing.
func (h *DashboardHandler) Users(c fiber.Ctx) error {
	page := queryPage(c)
	offset := (page - 1) * keysPerPage

	users, err := h.db.ListUsers(c.Context(), keysPerPage, offset)
	if err != nil {
		return err
	}

	return c.Render("users", fiber.Map{
		"Title":    "Users",
		"Users":    users,
		"Page":     page,
		"HasPrev":  page > 1,
		"HasNext":  len(users) == keysPerPage,
		"PrevPage": page - 1,
		"NextPage": page + 1,
	})
}

// queryPage parses the ?page query parameter, defaulting to the first page.
func queryPage(c fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
