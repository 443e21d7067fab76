package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/pkg/logger"
	"github.com/futig/docchat-backend/internal/pkg/validator"
	"github.com/futig/docchat-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Options struct {
	ChatTopK     int
	AskTopK      int
	HistoryTurns int
}

// ChatUsecase runs chat turns: retrieve, compose, generate, remember
type ChatUsecase struct {
	sessionRepo repository.SessionRepository
	docRepo     repository.DocumentRepository
	composer    PromptComposer
	client      repository.GenerationClient
	opts        Options
	logger      *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	sessionRepo repository.SessionRepository,
	docRepo repository.DocumentRepository,
	composer PromptComposer,
	client repository.GenerationClient,
	opts Options,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		sessionRepo: sessionRepo,
		docRepo:     docRepo,
		composer:    composer,
		client:      client,
		opts:        opts,
		logger:      logger,
	}
}

// Chat answers one message in a blocking call. Memory is updated only
// after the answer has been generated.
func (uc *ChatUsecase) Chat(ctx context.Context, req *entity.ChatRequest) (*entity.ChatResult, error) {
	if err := validator.ValidateChatRequest(req); err != nil {
		return nil, err
	}
	ctx = logger.WithSession(ctx, req.SessionID)

	session, gen, sources, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := session.Client.Complete(ctx, gen)
	if err != nil {
		ctxzap.Error(ctx, "generation failed", zap.Error(err))
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	session.RecordExchange(req.Message, answer)

	ctxzap.Info(ctx, "chat turn completed",
		zap.Int("sources", len(sources)),
		zap.Int("answer_length", len(answer)),
		zap.Int64("message_count", session.MessageCount()),
	)

	return &entity.ChatResult{
		Content:   answer,
		Sources:   sources,
		SessionID: req.SessionID,
	}, nil
}

// ChatStream answers one message, handing each fragment to onFragment as it
// arrives. If onFragment fails, generation is cancelled and memory is left
// untouched.
func (uc *ChatUsecase) ChatStream(ctx context.Context, req *entity.ChatRequest, onFragment FragmentFunc) (*entity.ChatResult, error) {
	if err := validator.ValidateChatRequest(req); err != nil {
		return nil, err
	}
	ctx = logger.WithSession(ctx, req.SessionID)

	session, gen, sources, err := uc.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments, errCh := session.Client.StreamComplete(streamCtx, gen)

	var answer strings.Builder
	count := 0
	for fragment := range fragments {
		answer.WriteString(fragment)
		count++

		if err := onFragment(fragment); err != nil {
			cancel()
			for range fragments {
			}
			<-errCh
			ctxzap.Warn(ctx, "stream aborted by consumer", zap.Int("fragments", count), zap.Error(err))
			return nil, fmt.Errorf("deliver fragment: %w", err)
		}
	}

	if err := <-errCh; err != nil {
		ctxzap.Error(ctx, "streamed generation failed", zap.Int("fragments", count), zap.Error(err))
		return nil, fmt.Errorf("stream answer: %w", err)
	}

	session.RecordExchange(req.Message, answer.String())

	ctxzap.Info(ctx, "streamed chat turn completed",
		zap.Int("sources", len(sources)),
		zap.Int("fragments", count),
		zap.Int64("message_count", session.MessageCount()),
	)

	return &entity.ChatResult{
		Content:   answer.String(),
		Sources:   sources,
		SessionID: req.SessionID,
	}, nil
}

// Ask answers a standalone question about one document. Unknown documents
// are an error here, unlike in Chat.
func (uc *ChatUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename", entity.ErrMissingField)
	}
	ctx = logger.WithDocument(ctx, req.Filename)

	doc, err := uc.docRepo.Get(req.Filename)
	if err != nil {
		return nil, err
	}

	hits, err := doc.Index.Search(ctx, req.Question, uc.opts.AskTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	chunks := entity.Texts(hits)

	answer, err := uc.client.Complete(ctx, &entity.GenerationRequest{
		Prompt: uc.composer.ComposeQuestion(req.Question, chunks),
	})
	if err != nil {
		ctxzap.Error(ctx, "question answering failed", zap.Error(err))
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	ctxzap.Info(ctx, "question answered", zap.Int("sources", len(chunks)))

	return &entity.AskResponse{
		Answer:       answer,
		SourceChunks: chunks,
	}, nil
}

// History returns the turns of a session; unknown sessions have none
func (uc *ChatUsecase) History(ctx context.Context, sessionID string) []entity.Turn {
	turns := uc.sessionRepo.History(sessionID)
	ctxzap.Debug(ctx, "history fetched", zap.String("session_id", sessionID), zap.Int("turns", len(turns)))
	return turns
}

// Clear forgets a session; clearing an unknown session is not an error
func (uc *ChatUsecase) Clear(ctx context.Context, sessionID string) {
	uc.sessionRepo.Clear(sessionID)
	ctxzap.Info(ctx, "session cleared", zap.String("session_id", sessionID))
}

func (uc *ChatUsecase) Stats() entity.Stats {
	return entity.Stats{
		Documents: uc.docRepo.Count(),
		Sessions:  uc.sessionRepo.Count(),
	}
}

// prepare resolves the session, retrieves context and composes the prompt
func (uc *ChatUsecase) prepare(ctx context.Context, req *entity.ChatRequest) (
	*repository.Session, *entity.GenerationRequest, []string, error,
) {
	session := uc.sessionRepo.GetOrCreate(req.SessionID)

	sources, err := uc.retrieve(ctx, req)
	if err != nil {
		return nil, nil, nil, err
	}

	prompt := uc.composer.Compose(req.Message, sources, session.Memory.Recent(uc.opts.HistoryTurns))

	return session, &entity.GenerationRequest{Prompt: prompt}, sources, nil
}

// retrieve returns the top chunks of the referenced document. A missing or
// unknown document means no context.
func (uc *ChatUsecase) retrieve(ctx context.Context, req *entity.ChatRequest) ([]string, error) {
	if req.Filename == nil || *req.Filename == "" {
		return []string{}, nil
	}

	doc, err := uc.docRepo.Get(*req.Filename)
	if errors.Is(err, entity.ErrNotFound) {
		ctxzap.Debug(ctx, "document not found, answering without context", zap.String("filename", *req.Filename))
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	hits, err := doc.Index.Search(ctx, req.Message, uc.opts.ChatTopK)
	if err != nil {
		ctxzap.Error(ctx, "retrieval failed", zap.Error(err))
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	return entity.Texts(hits), nil
}
