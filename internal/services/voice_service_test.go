package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceTranscribeWithoutClientReturnsDemoTranscript(t *testing.T) {
	svc := NewVoiceService(nil)

	text, err := svc.Transcribe(context.Background(), "audio.webm", strings.NewReader("not real audio"))

	assert.NoError(t, err)
	assert.Equal(t, "Add expense 50 rupees for Chai", text)
}

func TestVoiceSpeakWithoutClientSignalsUnavailable(t *testing.T) {
	svc := NewVoiceService(nil)

	audio, err := svc.Speak(context.Background(), "Bill created for Rahul")

	assert.ErrorIs(t, err, ErrSpeechUnavailable)
	assert.Nil(t, audio)
}
