package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-campus-hub/internal/chat"
)

// Completer answers a conversation; *chat.Client is the production one.
type Completer interface {
	Complete(ctx context.Context, msgs []chat.Message) (string, error)
}

type ChatHandler struct {
	Completer Completer
}

func NewChatHandler(cc Completer) *ChatHandler {
	if cc == nil {
		panic("nil completer passed to NewChatHandler")
	}
	return &ChatHandler{Completer: cc}
}

type chatReq struct {
	Messages []chat.Message `json:"messages" validate:"dive"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Messages) == 0 {
		return fail(c, http.StatusBadRequest, "No messages provided")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}
	reply, err := h.Completer.Complete(c.Request().Context(), req.Messages)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, reply)
}
