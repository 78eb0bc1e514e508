package tts

import (
	"context"
	"fmt"
	"time"

	"github.com/haguro/elevenlabs-go"
)

// ElevenLabs synthesizes with the ElevenLabs API. The turbo model
// speaks every catalog language, so the language parameter only
// matters to the text itself.
type ElevenLabs struct {
	APIKey  string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

func NewElevenLabs(apiKey, voiceID string) *ElevenLabs {
	if voiceID == "" {
		voiceID = "pKLLpypGseGMUjkb5fEZ"
	}
	return &ElevenLabs{
		APIKey:  apiKey,
		VoiceID: voiceID,
		ModelID: "eleven_turbo_v2_5",
		Timeout: 30 * time.Second,
	}
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	client := elevenlabs.NewClient(ctx, e.APIKey, e.Timeout)
	audio, err := client.TextToSpeech(e.VoiceID, elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: e.ModelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate speech: %w", err)
	}
	return audio, nil
}
