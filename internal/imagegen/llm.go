package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/grazer/internal/logging"
)

const (
	DefaultModel   = "gpt-oss-120b"
	httpTimeout    = 30 * time.Second
	maxSVGBytes    = 64 << 10
	llmMaxTokens   = 2048
	chatPathSuffix = "/chat/completions"
	systemPrompt   = "You draw simple flat SVG illustrations. Reply with a single <svg> element, viewBox 0 0 400 300, no scripts, no external references, no prose."
)

var svgRe = regexp.MustCompile(`(?is)<svg[\s>].*?</svg>`)

// LLMGenerator asks an OpenAI-compatible chat endpoint for an SVG.
// Falls back to the provided generator on any error.
type LLMGenerator struct {
	endpoint string
	model    string
	apiKey   string
	fallback Generator
	client   *http.Client
	log      logging.Logger
}

// NewLLM creates an LLM generator. baseURL may be a full chat-completions URL
// or an API root; "/v1/chat/completions" is appended to the latter.
func NewLLM(baseURL, model, apiKey string, fallback Generator, log logging.Logger) *LLMGenerator {
	if model == "" {
		model = DefaultModel
	}
	if fallback == nil {
		fallback = TemplateGenerator{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &LLMGenerator{
		endpoint: chatEndpoint(baseURL),
		model:    model,
		apiKey:   apiKey,
		fallback: fallback,
		client:   &http.Client{Timeout: httpTimeout},
		log:      log,
	}
}

// New returns an LLM-backed generator when llmURL is set, otherwise the
// template generator.
func New(llmURL, model, apiKey string, log logging.Logger) Generator {
	if strings.TrimSpace(llmURL) == "" {
		return TemplateGenerator{}
	}
	return NewLLM(llmURL, model, apiKey, TemplateGenerator{}, log)
}

func chatEndpoint(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if strings.HasSuffix(u, chatPathSuffix) {
		return u
	}
	if strings.HasSuffix(u, "/v1") {
		return u + chatPathSuffix
	}
	return u + "/v1" + chatPathSuffix
}

// Generate implements Generator. A forced template or PreferLLM=false goes
// straight to the fallback.
func (l *LLMGenerator) Generate(ctx context.Context, prompt string, opts Options) (Result, error) {
	if opts.Template != "" || !opts.PreferLLM {
		return l.fallback.Generate(ctx, prompt, opts)
	}

	svg, err := l.callAPI(ctx, prompt, opts.Palette)
	if err != nil {
		l.log.Warn("llm image generation failed, using template", logging.Error(err))
		return l.fallback.Generate(ctx, prompt, opts)
	}
	return newResult(svg, MethodLLM, "", opts.Palette), nil
}

func (l *LLMGenerator) callAPI(ctx context.Context, prompt, palette string) (string, error) {
	user := "Draw: " + prompt
	if palette != "" {
		user += "\nColour palette: " + palette
	}
	reqBody := chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		MaxTokens: llmMaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4*maxSVGBytes)).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("empty choices in response")
	}

	return extractSVG(chatResp.Choices[0].Message.Content)
}

// extractSVG returns the first complete <svg> element in content.
func extractSVG(content string) (string, error) {
	svg := svgRe.FindString(content)
	if svg == "" {
		return "", errors.New("no svg element in response")
	}
	if len(svg) > maxSVGBytes {
		return "", fmt.Errorf("svg too large: %d bytes", len(svg))
	}
	if strings.Contains(strings.ToLower(svg), "<script") {
		return "", errors.New("svg contains script")
	}
	return svg, nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
