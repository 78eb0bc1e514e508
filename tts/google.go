package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	googleBaseURL = "https://translate.google.com"

	// maxChunkRunes is the longest text the speech endpoint accepts in
	// one request. Longer lines are split on word boundaries and the
	// MP3 parts concatenated, which MP3 tolerates.
	maxChunkRunes = 200
)

// Google synthesizes speech through the Google Translate TTS
// endpoint. Keyless like the gtx translator, and just as informal.
type Google struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func NewGoogle() *Google {
	return &Google{
		BaseURL:    googleBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		UserAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	}
}

func (g *Google) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	chunks := splitChunks(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, errors.New("tts: nothing to say")
	}

	var audio []byte
	for i, chunk := range chunks {
		part, err := g.fetch(ctx, chunk, language, i, len(chunks))
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

func (g *Google) fetch(ctx context.Context, text, language string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", language)
	q.Set("q", text)
	q.Set("idx", strconv.Itoa(idx))
	q.Set("total", strconv.Itoa(total))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(text)))
	u := fmt.Sprintf("%s/translate_tts?%s", g.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: unexpected status %d: %s", resp.StatusCode, detail)
	}
	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into pieces of at most max runes, splitting
// between words where possible and inside them when a single word is
// too long.
func splitChunks(s string, max int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(s) {
		wordLen := utf8.RuneCountInString(word)
		if wordLen > max {
			flush()
			runes := []rune(word)
			for len(runes) > max {
				chunks = append(chunks, string(runes[:max]))
				runes = runes[max:]
			}
			cur.WriteString(string(runes))
			curLen = len(runes)
			continue
		}
		need := wordLen
		if curLen > 0 {
			need++
		}
		if curLen+need > max {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += wordLen
	}
	flush()
	return chunks
}
