package store

import (
	"context"
	"errors"

	"github.com/antlbn/Timezone-bot/internal/domain"
)

// ErrNotFound reports a missing user record.
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for user locations and chat rosters.
type Repo interface {
	UpsertUser(ctx context.Context, u *domain.MemberLocation) error
	GetUser(ctx context.Context, userID int64, platform string) (*domain.MemberLocation, error)
	AddChatMember(ctx context.Context, chatID, userID int64, platform string) error
	RemoveChatMember(ctx context.Context, chatID, userID int64, platform string) error
	ClearChatMembers(ctx context.Context, chatID int64, platform string) error
	ListChatMembers(ctx context.Context, chatID int64, platform string) ([]domain.MemberLocation, error)
	Close() error
}
