// Package ollama provides an LLM service adapter using Ollama.
//
// Responses are consumed as NDJSON streams. Each call mode (generate,
// chat) gets a bounded retry budget for transient transport failures;
// the Ask entry point falls back from generate to chat when generate
// completes without text.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dvsage-cli/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "gemma3:4b"
	DefaultTemperature = 0.2
	DefaultTimeout     = 2 * time.Minute

	// maxAttempts bounds each call mode; retryBackoff grows linearly with
	// the attempt number (300ms, 600ms between the three tries).
	maxAttempts  = 3
	retryBackoff = 300 * time.Millisecond
)

// DefaultSystemPrompt constrains answers to the schema assistant role.
const DefaultSystemPrompt = "Ты помощник по SQL для схемы Docsvision. Отвечай кратко и по делу."

// maxLineSize caps a single NDJSON line read from the stream.
const maxLineSize = 1 << 20

// Config holds configuration for the Ollama LLM service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// GenerateModel is used for /api/generate calls (default: gemma3:4b).
	GenerateModel string

	// ChatModel is used for /api/chat calls (default: gemma3:4b).
	ChatModel string

	// Temperature controls randomness (default 0.2).
	Temperature float64

	// SystemPrompt replaces the default system instruction when set.
	SystemPrompt string

	// Timeout is the request timeout (default: 2m).
	Timeout time.Duration
}

// LLMService provides streamed LLM operations using Ollama.
type LLMService struct {
	client      *http.Client
	baseURL     string
	genModel    string
	chatModel   string
	temperature float64
	system      string

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// options holds generation parameters.
type options struct {
	Temperature float64 `json:"temperature"`
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options"`
}

// streamLine is one decoded NDJSON object. Content may arrive under
// "response" (generate) or "message.content" (chat); both locations are
// checked regardless of the call mode, since either field may appear.
type streamLine struct {
	Response string `json:"response"`
	Message  struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

// content returns the fragment carried by this line, if any.
func (l *streamLine) content() string {
	if l.Response != "" {
		return l.Response
	}
	return l.Message.Content
}

// transientError marks failures worth retrying: transport errors and
// stream read errors. Remote error payloads and non-success statuses are
// never wrapped and therefore surface immediately.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg Config) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GenerateModel == "" {
		cfg.GenerateModel = DefaultModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		genModel:    cfg.GenerateModel,
		chatModel:   cfg.ChatModel,
		temperature: cfg.Temperature,
		system:      cfg.SystemPrompt,
		sleep:       sleepCtx,
	}
}

// Ask answers a question grounded on contextBlock. Generate mode runs
// first; when it finishes without producing text, chat mode runs with the
// same prompt. Each mode carries its own retry budget.
func (s *LLMService) Ask(ctx context.Context, question, contextBlock, system string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil
	}
	if system == "" {
		system = s.system
	}

	prompt := question
	if strings.TrimSpace(contextBlock) != "" {
		prompt = "Вопрос: " + question + "\nКонтекст:\n" + strings.TrimSpace(contextBlock)
	}

	text, err := s.withRetry(ctx, "generate", func() (string, error) {
		return s.generateStream(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}

	logger.Debug("Generate mode yielded no text, falling back to chat")
	text, err = s.withRetry(ctx, "chat", func() (string, error) {
		return s.chatStream(ctx, system, prompt)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Generate produces streamed text completion from a single prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	return s.withRetry(ctx, "generate", func() (string, error) {
		return s.generateStream(ctx, prompt)
	})
}

// Chat conducts a streamed {system, user} exchange.
func (s *LLMService) Chat(ctx context.Context, system, user string) (string, error) {
	if system == "" {
		system = s.system
	}
	return s.withRetry(ctx, "chat", func() (string, error) {
		return s.chatStream(ctx, system, user)
	})
}

// withRetry runs fn up to maxAttempts times, backing off linearly between
// tries. Only transient failures are retried; everything else, and the
// final attempt's error, surfaces to the caller.
func (s *LLMService) withRetry(ctx context.Context, mode string, fn func() (string, error)) (string, error) {
	for attempt := 1; ; attempt++ {
		text, err := fn()
		if err == nil {
			return text, nil
		}
		if attempt >= maxAttempts || !isTransient(err) || ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", mode, err)
		}

		logger.Warn("%s attempt %d failed, retrying: %v", mode, attempt, err)
		if serr := s.sleep(ctx, retryBackoff*time.Duration(attempt)); serr != nil {
			return "", fmt.Errorf("%s: %w", mode, serr)
		}
	}
}

func (s *LLMService) generateStream(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:   s.genModel,
		Prompt:  prompt,
		Stream:  true,
		Options: options{Temperature: s.temperature},
	}
	return s.stream(ctx, "/api/generate", reqBody)
}

func (s *LLMService) chatStream(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  true,
		Options: options{Temperature: s.temperature},
	}
	return s.stream(ctx, "/api/chat", reqBody)
}

// stream issues one streaming POST and accumulates the NDJSON fragments.
func (s *LLMService) stream(ctx context.Context, path string, payload any) (string, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &transientError{err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	return readStream(ctx, resp.Body)
}

// readStream consumes newline-delimited JSON objects, concatenating
// content fragments in arrival order. A remote error payload is fatal;
// a done marker ends the loop; cancellation is checked before each line.
func readStream(ctx context.Context, body io.Reader) (string, error) {
	var sb strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event streamLine
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return "", fmt.Errorf("decode stream line: %w", err)
		}

		if event.Error != "" {
			return "", fmt.Errorf("ollama error: %s", event.Error)
		}
		if fragment := event.content(); fragment != "" {
			sb.WriteString(fragment)
		}
		if event.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &transientError{err: fmt.Errorf("read stream: %w", err)}
	}

	return sb.String(), nil
}

// ModelName returns the name of the generate-mode model.
func (s *LLMService) ModelName() string {
	return s.genModel
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
