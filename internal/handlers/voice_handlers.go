package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bharatbiz/internal/common"
	"bharatbiz/internal/services"
)

type VoiceHandlers struct {
	voiceService services.VoiceService
}

func NewVoiceHandlers(voiceService services.VoiceService) *VoiceHandlers {
	return &VoiceHandlers{voiceService: voiceService}
}

// Speak handles POST /api/voice/speak. Without a TTS client it answers 424 so
// the frontend falls back to browser speech synthesis.
func (h *VoiceHandlers) Speak(c echo.Context) error {
	ctx := c.Request().Context()
	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Text == "" {
		return common.SendValidationError(c, "text", "text is required")
	}

	audio, err := h.voiceService.Speak(ctx, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrSpeechUnavailable) {
			return c.JSON(http.StatusFailedDependency, map[string]any{
				"error":         "TTS API Key Missing",
				"useBrowserTTS": true,
			})
		}
		return common.SendServerError(c, "Failed to synthesize speech")
	}
	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}

// Transcribe handles POST /api/voice/transcribe with a multipart "audio" file.
func (h *VoiceHandlers) Transcribe(c echo.Context) error {
	ctx := c.Request().Context()
	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return common.SendClientError(c, "audio file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	text, err := h.voiceService.Transcribe(ctx, file.Filename, src)
	if err != nil {
		return common.SendServerError(c, "Failed to transcribe audio")
	}
	return c.JSON(http.StatusOK, map[string]any{"text": text})
}
