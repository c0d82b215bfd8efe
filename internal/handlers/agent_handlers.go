package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/agent"
	"bharatbiz/internal/caching"
	"bharatbiz/internal/common"
)

const (
	chatRateLimit  = 30
	chatRateWindow = time.Minute
)

// AgentHandlers drives the conversational command pipeline.
type AgentHandlers struct {
	gate     *agent.Gate
	cacheSvc caching.CacheService
}

func NewAgentHandlers(gate *agent.Gate, cacheSvc caching.CacheService) *AgentHandlers {
	return &AgentHandlers{gate: gate, cacheSvc: cacheSvc}
}

// Chat handles POST /api/chat
func (h *AgentHandlers) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Message        string          `json:"message"`
		ConversationID string          `json:"conversation_id"`
		History        []agent.Message `json:"history"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Message, "message"); err != nil {
		return common.SendValidationError(c, "message", err.Error())
	}

	if h.cacheSvc != nil {
		limited, err := h.cacheSvc.IsRateLimited(ctx, "chat:"+userID, chatRateLimit, chatRateWindow)
		if err == nil && limited {
			return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many messages, thoda ruk jao", nil))
		}
	}

	response := h.gate.HandleMessage(ctx, req.ConversationID, userID, req.Message, req.History)
	return c.JSON(http.StatusOK, response)
}
