package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/pkg/logger"
	"github.com/futig/docchat-backend/internal/pkg/response"
	"github.com/futig/docchat-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.usecase.Chat(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, "Error processing chat", err)
		return
	}

	response.Success(w, toChatResponse(res))
}

// ChatStream handles POST /chat/stream. Once the stream has started every
// outcome is reported in-band and the stream always ends with [DONE].
func (h *Handler) ChatStream(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatStream")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := validator.ValidateChatRequest(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	stream := response.NewEventStream(w)

	res, err := h.usecase.ChatStream(ctx, &req, func(fragment string) error {
		return stream.Send(entity.StreamFragment{Content: fragment})
	})
	if err != nil {
		if ctx.Err() != nil {
			ctxzap.Info(ctx, "client went away during stream", zap.Error(err))
			return
		}
		ctxzap.Error(ctx, "stream failed", zap.Error(err))
		if sendErr := stream.Send(toStreamError(req.SessionID, err)); sendErr != nil {
			return
		}
		_ = stream.Done()
		return
	}

	if err := stream.Send(toChatResponse(res)); err != nil {
		ctxzap.Warn(ctx, "failed to send final event", zap.Error(err))
		return
	}
	_ = stream.Done()
}

// History handles GET /chat/history?session_id=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "History")

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "session_id is required", entity.ErrMissingField)
		return
	}

	response.Success(w, toHistoryResponse(h.usecase.History(ctx, sessionID)))
}

// Clear handles POST /chat/clear?session_id=
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Clear")

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "session_id is required", entity.ErrMissingField)
		return
	}

	h.usecase.Clear(ctx, sessionID)
	response.Success(w, entity.SuccessResponse{Success: true})
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, "Error processing question", err)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message, err)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		h.respondError(ctx, w, http.StatusBadRequest, "PDF not found. Please upload first.", err)
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, message, err)
	}
}
