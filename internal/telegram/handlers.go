package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/antlbn/Timezone-bot/internal/domain"
	"github.com/antlbn/Timezone-bot/internal/store"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) replyTo(msg *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(msg.Chat.ID, text)
	m.ReplyToMessageID = msg.MessageID
	_, _ = r.bot.Send(m)
}

// askCity opens the set-city dialog for one user in a chat.
func (r *Router) askCity(msg *tgbotapi.Message, pendingTime string) {
	r.setPending(msg.Chat.ID, pendingState{
		kind:        pendingCity,
		userID:      msg.From.ID,
		pendingTime: pendingTime,
	})
	name := firstName(msg)
	m := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(askCityFmt, name))
	m.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	_, _ = r.bot.Send(m)
}

func firstName(msg *tgbotapi.Message) string {
	if msg.From.FirstName != "" {
		return msg.From.FirstName
	}
	return "User"
}

// --- Commands ---

func (r *Router) handleHelp(chatID int64) {
	r.sendText(chatID, helpText)
}

func (r *Router) handleMyTZ(ctx context.Context, chatID, userID int64) {
	u, err := r.repo.GetUser(ctx, userID, Platform)
	if err != nil {
		r.sendText(chatID, notSetText)
		return
	}
	r.sendText(chatID, fmt.Sprintf("%s %s (%s)", u.City, u.Flag, u.Timezone))
}

func (r *Router) handleSetTZ(msg *tgbotapi.Message) {
	r.askCity(msg, "")
}

func (r *Router) handleMembers(ctx context.Context, chatID int64) {
	members, err := r.repo.ListChatMembers(ctx, chatID, Platform)
	if err != nil {
		r.log.Error("list members failed", zap.Error(err), zap.Int64("chatID", chatID))
		r.sendText(chatID, listFailedText)
		return
	}
	if len(members) == 0 {
		r.sendText(chatID, noMembersText)
		return
	}
	r.sendText(chatID, memberRoster(members))
}

// memberRoster renders a numbered member list with flags and usernames.
func memberRoster(members []domain.MemberLocation) string {
	var b strings.Builder
	b.WriteString(membersTitle)
	for i, m := range members {
		b.WriteString(fmt.Sprintf("\n%d. %s %s", i+1, m.City, m.Flag))
		if m.Username != "" {
			b.WriteString(" @" + m.Username)
		}
	}
	return b.String()
}

// --- Remove-member dialog ---

func (r *Router) handleRemoveStart(ctx context.Context, msg *tgbotapi.Message) {
	members, err := r.repo.ListChatMembers(ctx, msg.Chat.ID, Platform)
	if err != nil || len(members) == 0 {
		r.sendText(msg.Chat.ID, noMembersText)
		return
	}
	r.setPending(msg.Chat.ID, pendingState{kind: pendingRemove, userID: msg.From.ID})
	r.sendText(msg.Chat.ID, memberRoster(members)+"\n\n"+askRemoveText)
}

func (r *Router) handleRemoveInput(ctx context.Context, msg *tgbotapi.Message, p pendingState, text string) {
	if p.userID != msg.From.ID {
		return // someone else's dialog
	}
	r.clearPending(msg.Chat.ID)

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		r.sendText(msg.Chat.ID, badNumberText)
		return
	}
	members, err := r.repo.ListChatMembers(ctx, msg.Chat.ID, Platform)
	if err != nil || n < 1 || n > len(members) {
		r.sendText(msg.Chat.ID, badNumberText)
		return
	}

	victim := members[n-1]
	if err := r.repo.RemoveChatMember(ctx, msg.Chat.ID, victim.UserID, Platform); err != nil {
		r.log.Error("remove member failed", zap.Error(err), zap.Int64("chatID", msg.Chat.ID))
		r.sendText(msg.Chat.ID, removeFailedText)
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf(removedFmt, victim.City, victim.Flag))
}

// --- Set-city dialog ---

func (r *Router) handleCityInput(ctx context.Context, msg *tgbotapi.Message, p pendingState, text string) {
	if p.userID != msg.From.ID {
		return // only the user who was asked may answer
	}
	r.clearPending(msg.Chat.ID)

	loc, err := r.geo.ResolveInput(ctx, text, r.extractor)
	if err != nil {
		r.log.Info("city resolution failed", zap.String("input", text), zap.Error(err))
		r.sendText(msg.Chat.ID, fmt.Sprintf(cityNotFoundFmt, text))
		return
	}

	u := &domain.MemberLocation{
		UserID:   msg.From.ID,
		Platform: Platform,
		City:     loc.City,
		Timezone: loc.Timezone,
		Flag:     loc.Flag,
		Username: msg.From.UserName,
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("save user failed", zap.Error(err), zap.Int64("userID", msg.From.ID))
		r.sendText(msg.Chat.ID, saveFailedText)
		return
	}
	if msg.Chat.ID != msg.From.ID {
		if err := r.repo.AddChatMember(ctx, msg.Chat.ID, msg.From.ID, Platform); err != nil {
			r.log.Warn("add chat member failed", zap.Error(err))
		}
	}

	r.sendText(msg.Chat.ID, fmt.Sprintf(citySetFmt, firstName(msg), loc.City, loc.Flag, loc.Timezone))
	r.log.Info("user location set",
		zap.Int64("chatID", msg.Chat.ID),
		zap.Int64("userID", msg.From.ID),
		zap.String("tz", loc.Timezone),
	)

	// Replay the time mention that opened this dialog.
	if p.pendingTime != "" {
		r.replyConversions(ctx, msg, u, []string{p.pendingTime})
	}
}

// --- Time mentions ---

func (r *Router) handleTimeMention(ctx context.Context, msg *tgbotapi.Message, text string) {
	times := r.extractor.ExtractTimes(text)
	if len(times) == 0 {
		return // silence is the deliberate outcome for ambiguous text
	}

	sender, err := r.repo.GetUser(ctx, msg.From.ID, Platform)
	if err != nil || sender.Timezone == "" {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			r.log.Warn("get sender failed", zap.Error(err))
		}
		// Unknown sender: ask for their city and replay the time after.
		r.askCity(msg, times[0])
		return
	}

	if !r.cooldown.TryAcquire(msg.Chat.ID) {
		r.log.Debug("cooldown active, skipping reply", zap.Int64("chatID", msg.Chat.ID))
		return
	}

	r.replyConversions(ctx, msg, sender, times)
}

// replyConversions sends one conversion reply per extracted time string.
func (r *Router) replyConversions(ctx context.Context, msg *tgbotapi.Message, sender *domain.MemberLocation, times []string) {
	members, err := r.repo.ListChatMembers(ctx, msg.Chat.ID, Platform)
	if err != nil {
		r.log.Error("list members failed", zap.Error(err), zap.Int64("chatID", msg.Chat.ID))
		return
	}
	if len(members) == 0 {
		return
	}

	name := firstName(msg)
	for _, t := range times {
		out := r.formatter.Conversion(t, sender.City, sender.Timezone, sender.Flag, members, name)
		r.sendText(msg.Chat.ID, out)
	}
	r.log.Info("converted times",
		zap.Int64("chatID", msg.Chat.ID),
		zap.Strings("times", times),
	)
}

// --- Roster cleanup ---

func (r *Router) handleBotRemoved(ctx context.Context, chatID int64) {
	if err := r.repo.ClearChatMembers(ctx, chatID, Platform); err != nil {
		r.log.Error("clear members failed", zap.Error(err), zap.Int64("chatID", chatID))
		return
	}
	r.log.Info("bot removed, roster cleared", zap.Int64("chatID", chatID))
}
