// Package chat routes inbound chat updates to the search pipeline and the
// key/access ledgers, and formats outbound replies.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"loggate/internal/db"
	"loggate/internal/metrics"
	"loggate/internal/models"
	"loggate/internal/search"
	"loggate/internal/validation"
)

// Update is one inbound chat event from the gateway: either a message (Text)
// or a button press (Callback).
type Update struct {
	UserID   int64  `json:"user_id"`
	ChatID   int64  `json:"chat_id"`
	Text     string `json:"text,omitempty"`
	Callback string `json:"callback,omitempty"`
}

// Store is the slice of the database the router needs.
type Store interface {
	TouchLastActive(ctx context.Context, userID int64) error
	HasAccess(ctx context.Context, userID int64) (bool, error)
	GetAccessExpiry(ctx context.Context, userID int64) (*time.Time, error)
	CreateKeys(ctx context.Context, validityDays, count int) ([]string, error)
	Redeem(ctx context.Context, token string, userID int64) (time.Time, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	ListKeywordsForUser(ctx context.Context, userID int64) ([]models.KeywordCount, error)
	ClearDeliveries(ctx context.Context, userID int64, keyword string) error
	PageDeliveries(ctx context.Context, userID int64, keyword string, offset, limit int) ([]string, error)
	CountForKeyword(ctx context.Context, userID int64, keyword string) (int, error)
}

// Searcher runs one search attempt. Implemented by *search.Engine.
type Searcher interface {
	Search(ctx context.Context, userID int64, rawKeyword string) (*search.Outcome, error)
	MaxResults() int
}

// Router dispatches inbound updates.
type Router struct {
	store       Store
	engine      Searcher
	conv        *Tracker
	transport   Transport
	formatter   *Formatter
	adminChatID int64
}

// NewRouter creates a chat router.
func NewRouter(store Store, engine Searcher, conv *Tracker, transport Transport, formatter *Formatter, adminChatID int64) *Router {
	return &Router{
		store:       store,
		engine:      engine,
		conv:        conv,
		transport:   transport,
		formatter:   formatter,
		adminChatID: adminChatID,
	}
}

// HandleUpdate processes one inbound update. Errors that the user can act on
// are sent back as chat messages; only infrastructure failures propagate.
func (r *Router) HandleUpdate(ctx context.Context, u Update) error {
	if err := r.store.TouchLastActive(ctx, u.UserID); err != nil {
		// Presence tracking is best effort; the command still runs.
		slog.Warn("failed to touch last_active", "user", u.UserID, "error", err)
	}

	if u.Callback != "" {
		return r.handleCallback(ctx, u)
	}

	text := strings.TrimSpace(u.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		return r.handleStart(ctx, u)
	case strings.HasPrefix(text, "/redeem"):
		return r.handleRedeem(ctx, u, text)
	case strings.HasPrefix(text, "/createkey"):
		return r.handleCreateKey(ctx, u, text)
	default:
		// A plain message only means something if we asked for a keyword.
		if r.conv.ClaimKeyword(u.UserID) {
			return r.runSearch(ctx, u, text)
		}
		return r.reply(ctx, u, "Unknown command. Use /start")
	}
}

func (r *Router) handleStart(ctx context.Context, u Update) error {
	ok, err := r.store.HasAccess(ctx, u.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return r.reply(ctx, u, "❌ Access required\nUse /redeem <key>")
	}

	return r.transport.SendMessage(ctx, Message{
		ChatID: u.ChatID,
		Text:   "✅ Welcome! Choose an option:",
		Buttons: [][]Button{
			{
				{Label: "🔍 Search Logs", Action: ActionSearch},
				{Label: "📊 My Stats", Action: ActionStats},
			},
			{
				{Label: "⏳ My Access", Action: ActionAccess},
				{Label: "♻️ Reset Search", Action: ActionReset},
			},
		},
	})
}

func (r *Router) handleRedeem(ctx context.Context, u Update, text string) error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return r.reply(ctx, u, "Usage: /redeem KEY-XXXXXX")
	}

	expires, err := r.store.Redeem(ctx, fields[1], u.UserID)
	if errors.Is(err, db.ErrInvalidOrUsedKey) {
		return r.reply(ctx, u, "❌ Invalid or used key")
	}
	if err != nil {
		return err
	}

	return r.reply(ctx, u, fmt.Sprintf("✅ Access valid until:\n%s", expires.Format(time.RFC1123)))
}

func (r *Router) handleCreateKey(ctx context.Context, u Update, text string) error {
	if u.UserID != r.adminChatID || r.adminChatID == 0 {
		return r.reply(ctx, u, "❌ Admin only")
	}

	fields := strings.Fields(text)
	if len(fields) != 3 {
		return r.reply(ctx, u, "Usage: /createkey <days> <count>")
	}
	days, err1 := strconv.Atoi(fields[1])
	count, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || !validation.ValidateKeyGeneration(days, count) {
		return r.reply(ctx, u, "Usage: /createkey <days> <count>")
	}

	tokens, err := r.store.CreateKeys(ctx, days, count)
	if err != nil {
		return err
	}
	return r.reply(ctx, u, "✅ Keys created:\n"+strings.Join(tokens, "\n"))
}

func (r *Router) handleCallback(ctx context.Context, u Update) error {
	if keyword, offset, ok := DecodePageAction(u.Callback); ok {
		return r.sendPage(ctx, u, keyword, offset)
	}

	switch u.Callback {
	case ActionSearch:
		r.conv.AwaitKeyword(u.UserID)
		return r.reply(ctx, u, "🔎 Send keyword:")

	case ActionStats:
		total, err := r.store.CountForUser(ctx, u.UserID)
		if err != nil {
			return err
		}
		keywords, err := r.store.ListKeywordsForUser(ctx, u.UserID)
		if err != nil {
			return err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📊 Total unique lines saved: %d\n", total)
		for _, kc := range keywords {
			fmt.Fprintf(&b, "  %s: %d\n", kc.Keyword, kc.Count)
		}
		return r.reply(ctx, u, b.String())

	case ActionAccess:
		expiry, err := r.store.GetAccessExpiry(ctx, u.UserID)
		if errors.Is(err, db.ErrAccessNotFound) || (err == nil && expiry == nil) {
			return r.reply(ctx, u, "❌ No active access")
		}
		if err != nil {
			return err
		}
		return r.reply(ctx, u, fmt.Sprintf("⏳ Access until:\n%s", expiry.Format(time.RFC1123)))

	case ActionReset:
		if err := r.store.ClearDeliveries(ctx, u.UserID, ""); err != nil {
			return err
		}
		return r.reply(ctx, u, "♻️ Search memory cleared")

	default:
		return r.reply(ctx, u, "Unknown action")
	}
}

func (r *Router) runSearch(ctx context.Context, u Update, rawKeyword string) error {
	out, err := r.engine.Search(ctx, u.UserID, rawKeyword)
	if err != nil {
		return err
	}

	switch out.Status {
	case search.StatusCooldown:
		metrics.RecordSearchOutcome(out.Keyword, models.OutcomeCooldown)
		return r.reply(ctx, u, fmt.Sprintf("⏱ Cooldown active, retry in %ds", int(out.Remaining.Seconds())+1))

	case search.StatusNoAccess:
		metrics.RecordSearchOutcome(out.Keyword, models.OutcomeNoAccess)
		return r.reply(ctx, u, "❌ Access required\nUse /redeem <key>")

	case search.StatusEmptyKeyword:
		metrics.RecordSearchOutcome("", models.OutcomeEmptyQuery)
		return r.reply(ctx, u, "❌ Empty keyword")

	case search.StatusNoNewResults:
		metrics.RecordSearchOutcome(out.Keyword, models.OutcomeNoNew)
		return r.reply(ctx, u, "❌ No new results found")
	}

	metrics.RecordSearchOutcome(out.Keyword, models.OutcomeFound)

	total, err := r.store.CountForKeyword(ctx, u.UserID, out.Keyword)
	if err != nil {
		// Pagination metadata is a nicety; fall back to the batch size.
		total = len(out.Lines)
	}

	// Deliveries are already recorded at this point. A transport failure
	// must not roll them back: re-delivering duplicates on retry is worse
	// than asking the user to search again (at-least-once recording).
	doc := r.formatter.ResultDocument(u.ChatID, out.Keyword, out.Lines, out.Capped, r.engine.MaxResults())
	if err := r.transport.SendDocument(ctx, doc); err != nil {
		slog.Error("failed to deliver result document", "user", u.UserID, "keyword", out.Keyword, "error", err)
		return r.reply(ctx, u, "⚠️ Could not deliver the result file, please retry")
	}

	return r.transport.SendMessage(ctx, r.formatter.ResultPreview(u.ChatID, out.Keyword, out.Lines, total))
}

func (r *Router) sendPage(ctx context.Context, u Update, keyword string, offset int) error {
	limit := r.formatter.PageSize()
	lines, err := r.store.PageDeliveries(ctx, u.UserID, keyword, offset, limit)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return r.reply(ctx, u, "No more results")
	}

	total, err := r.store.CountForKeyword(ctx, u.UserID, keyword)
	if err != nil {
		return err
	}
	return r.transport.SendMessage(ctx, r.formatter.PageMessage(u.ChatID, keyword, lines, offset, total))
}

func (r *Router) reply(ctx context.Context, u Update, text string) error {
	return r.transport.SendMessage(ctx, Message{ChatID: u.ChatID, Text: text})
}
