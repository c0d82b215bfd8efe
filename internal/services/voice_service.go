package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"bharatbiz/internal/logger"
)

// ErrSpeechUnavailable means no TTS client is configured; callers should
// degrade to client-side speech synthesis.
var ErrSpeechUnavailable = errors.New("speech synthesis unavailable")

const (
	speechModel = openai.SpeechModel("gpt-4o-mini-tts")
	speechVoice = openai.VoiceAlloy

	// Fixed transcripts keep the voice flow usable in demos without a key.
	mockTranscript        = "Add expense 50 rupees for Chai"
	fallbackTranscript    = "Apple 5kg paanch sau rupay"
	transcriptionHint     = "Transcribe Hinglish (Hindi + English mix). Business context: udhaar, bill, payment."
	transcriptionLanguage = "hi"
)

// VoiceService turns spoken commands into text and replies into audio.
type VoiceService interface {
	// Speak renders text as MP3 audio. Without a client it returns
	// ErrSpeechUnavailable.
	Speak(ctx context.Context, text string) ([]byte, error)
	// Transcribe converts an audio recording to text. Without a client it
	// returns a fixed demo transcript, and on upstream failure it degrades
	// to a fallback transcript rather than erroring.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type voiceService struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewVoiceService wires speech synthesis and transcription. client may be nil.
func NewVoiceService(client *openai.Client) VoiceService {
	return &voiceService{
		client: client,
		log:    logger.WithComponent("voice"),
	}
}

func (s *voiceService) Speak(ctx context.Context, text string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrSpeechUnavailable
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: speechModel,
		Voice: speechVoice,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}
	return audio, nil
}

func (s *voiceService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.client == nil {
		s.log.Warn().Msg("no transcription client configured, returning demo transcript")
		return mockTranscript, nil
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   audio,
		FilePath: filename,
		Language: transcriptionLanguage,
		Prompt:   transcriptionHint,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("transcription failed, returning fallback transcript")
		return fallbackTranscript, nil
	}
	return resp.Text, nil
}
