package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
	"github.com/ShikharGupta-75/Video-Call-translator/snd"
)

const deepgramBaseURL = "https://api.deepgram.com"

// Deepgram transcribes clips with the Deepgram prerecorded API, one
// short WAV post per utterance.
type Deepgram struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewDeepgram(apiKey string) *Deepgram {
	return &Deepgram{
		APIKey:     apiKey,
		Model:      "nova-2",
		BaseURL:    deepgramBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (d *Deepgram) Recognize(ctx context.Context, clip mic.Clip, language string) (string, error) {
	q := url.Values{}
	q.Set("model", d.Model)
	q.Set("language", language)
	q.Set("smart_format", "true")
	u := fmt.Sprintf("%s/v1/listen?%s", d.BaseURL, q.Encode())

	body := snd.EncodeWAV(clip)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.APIKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deepgram: unexpected status %d: %s", resp.StatusCode, detail)
	}

	var out deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Results.Channels) == 0 || len(out.Results.Channels[0].Alternatives) == 0 {
		return "", ErrNoSpeech
	}
	transcript := out.Results.Channels[0].Alternatives[0].Transcript
	if transcript == "" {
		return "", ErrNoSpeech
	}
	return transcript, nil
}
