package chat

import (
	"context"

	"github.com/futig/docchat-backend/internal/entity"
	chatuc "github.com/futig/docchat-backend/internal/usecase/chat"
)

type ChatUsecase interface {
	Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResult, error)
	ChatStream(ctx context.Context, req *entity.ChatRequest, onFragment chatuc.FragmentFunc) (*entity.ChatResult, error)
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
	History(ctx context.Context, sessionID string) []entity.Turn
	Clear(ctx context.Context, sessionID string)
}
