package mt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleBaseURL = "https://translate.googleapis.com"

// Google translates through the free gtx endpoint of Google
// Translate. No key, no SLA; failures here are routine and callers
// log them and move on.
type Google struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewGoogle() *Google {
	return &Google{
		BaseURL:    googleBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)
	u := fmt.Sprintf("%s/translate_a/single?%s", g.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate: unexpected status %d: %s", resp.StatusCode, detail)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return parseGtx(body)
}

// parseGtx digs the translation out of the gtx response, a nested
// JSON array where the first element lists segments and each
// segment's first element is the translated text.
func parseGtx(b []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(b, &outer); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(outer) == 0 {
		return "", errors.New("parse response: empty body")
	}
	var segments []json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("parse segments: %w", err)
	}

	var out strings.Builder
	for _, seg := range segments {
		var parts []json.RawMessage
		if err := json.Unmarshal(seg, &parts); err != nil {
			return "", fmt.Errorf("parse segment: %w", err)
		}
		if len(parts) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(parts[0], &piece); err != nil {
			return "", fmt.Errorf("parse segment text: %w", err)
		}
		out.WriteString(piece)
	}
	if out.Len() == 0 {
		return "", errors.New("response held no translation")
	}
	return out.String(), nil
}
