package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/antlbn/Timezone-bot/internal/capture"
	"github.com/antlbn/Timezone-bot/internal/geo"
	"github.com/antlbn/Timezone-bot/internal/limiter"
	"github.com/antlbn/Timezone-bot/internal/reply"
	"github.com/antlbn/Timezone-bot/internal/store"
)

// Platform is the platform key under which Telegram identities are stored.
const Platform = "telegram"

// Pending dialog kinds used in conversational flows.
const (
	pendingCity   = "await_city_text"
	pendingRemove = "await_remove_number"
)

// pendingState tracks one awaited free-form input in a chat. Only the
// initiating user may complete it; a time mention that triggered the
// city dialog is replayed once the city is set.
type pendingState struct {
	kind        string
	userID      int64
	pendingTime string
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot       *tgbotapi.BotAPI
	log       *zap.Logger
	repo      store.Repo
	geo       *geo.Client
	extractor *capture.Extractor
	formatter *reply.Formatter
	cooldown  *limiter.Cooldown

	state map[int64]pendingState // chatID -> awaited input
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, geoClient *geo.Client,
	extractor *capture.Extractor, formatter *reply.Formatter, cooldown *limiter.Cooldown) *Router {
	return &Router{
		bot:       bot,
		log:       log,
		repo:      repo,
		geo:       geoClient,
		extractor: extractor,
		formatter: formatter,
		cooldown:  cooldown,
		state:     make(map[int64]pendingState),
	}
}

// setPending sets a pending state for a chat (non-persistent, in-memory).
func (r *Router) setPending(chatID int64, s pendingState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

// getPending returns current pending state for a chat.
func (r *Router) getPending(chatID int64) (pendingState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.state[chatID]
	return s, ok
}

// clearPending clears a pending state for a chat.
func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	// Bot removed from a chat: drop its roster.
	if upd.MyChatMember != nil {
		status := upd.MyChatMember.NewChatMember.Status
		if status == "left" || status == "kicked" {
			r.handleBotRemoved(ctx, upd.MyChatMember.Chat.ID)
		}
		return
	}

	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Passive collection: a known user posting in a group stays on
	// that chat's roster. Never blocks handling.
	r.collectMember(ctx, msg)

	switch {
	case strings.HasPrefix(text, "/tb_help"):
		r.handleHelp(chatID)
	case strings.HasPrefix(text, "/tb_mytz"):
		r.handleMyTZ(ctx, chatID, msg.From.ID)
	case strings.HasPrefix(text, "/tb_settz"):
		r.handleSetTZ(msg)
	case strings.HasPrefix(text, "/tb_members"):
		r.handleMembers(ctx, chatID)
	case strings.HasPrefix(text, "/tb_remove"):
		r.handleRemoveStart(ctx, msg)
	default:
		r.handleText(ctx, msg, text)
	}
}

// handleText completes a pending dialog if one is open, otherwise scans
// the message for time mentions.
func (r *Router) handleText(ctx context.Context, msg *tgbotapi.Message, text string) {
	if text == "" {
		return
	}
	if p, ok := r.getPending(msg.Chat.ID); ok {
		switch p.kind {
		case pendingCity:
			r.handleCityInput(ctx, msg, p, text)
		case pendingRemove:
			r.handleRemoveInput(ctx, msg, p, text)
		}
		return
	}
	r.handleTimeMention(ctx, msg, text)
}

func (r *Router) collectMember(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.ID == msg.From.ID {
		return // private chat
	}
	if _, err := r.repo.GetUser(ctx, msg.From.ID, Platform); err != nil {
		return // unknown user; nothing to attach
	}
	if err := r.repo.AddChatMember(ctx, msg.Chat.ID, msg.From.ID, Platform); err != nil {
		r.log.Warn("passive collection failed", zap.Error(err), zap.Int64("chatID", msg.Chat.ID))
	}
}
