package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultModel         = "gpt-4o-mini"
	retryDelay           = 5 * time.Second
)

// ModelResolver returns the currently configured completion model, typically
// backed by the settings store.
type ModelResolver func() string

// OpenAIEngine translates cue batches via the OpenAI chat completions API (or
// any API speaking the same protocol via baseURL override).
type OpenAIEngine struct {
	apiKey        string
	baseURL       string
	modelResolver ModelResolver
	httpClient    *http.Client
}

// NewOpenAIEngine creates an engine. baseURL may be empty to use the public
// OpenAI endpoint; modelResolver may be nil.
func NewOpenAIEngine(apiKey, baseURL string, modelResolver ModelResolver) *OpenAIEngine {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIEngine{
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		modelResolver: modelResolver,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (o *OpenAIEngine) currentModel(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	if o.modelResolver != nil {
		if m := o.modelResolver(); m != "" {
			return m
		}
	}
	return defaultModel
}

func (o *OpenAIEngine) Name() string {
	return "openai"
}

// batchPayload is the user message content: the target language plus the cue
// items to translate.
type batchPayload struct {
	Target string `json:"TARGET"`
	Items  []Item `json:"items"`
}

// batchResponse is the shape the model is instructed to return.
type batchResponse struct {
	Items []struct {
		ID   *int   `json:"id"`
		Text string `json:"text"`
	} `json:"items"`
}

// TranslateBatch sends one batch and joins the response by item id. Transient
// upstream failures are retried once after a short delay.
func (o *OpenAIEngine) TranslateBatch(ctx context.Context, targetLang string, items []Item, opts Options) (map[int]string, error) {
	if o.apiKey == "" {
		return nil, &ConfigurationError{Missing: "OpenAI API key"}
	}

	result, err := o.translateBatch(ctx, targetLang, items, opts)
	if err != nil && isTransient(err) && ctx.Err() == nil {
		time.Sleep(retryDelay)
		result, err = o.translateBatch(ctx, targetLang, items, opts)
	}
	return result, err
}

func (o *OpenAIEngine) translateBatch(ctx context.Context, targetLang string, items []Item, opts Options) (map[int]string, error) {
	payload, err := json.Marshal(batchPayload{Target: targetLang, Items: items})
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"model": o.currentModel(opts),
		"messages": []map[string]string{
			{"role": "system", "content": SystemPrompt(targetLang, opts)},
			{"role": "user", "content": string(payload)},
		},
		"temperature": 0,
		"response_format": map[string]string{
			"type": "json_object",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("chat completions request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &TranslationError{Detail: "completion envelope is not JSON", Raw: string(body)}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &TranslationError{Detail: "completion has no choices", Raw: string(body)}
	}

	return parseItems(chatResp.Choices[0].Message.Content)
}

// parseItems extracts the {"items": [...]} object from model output, tolerating
// stray text around the JSON object.
func parseItems(content string) (map[int]string, error) {
	// models occasionally emit ASS-style \N line breaks, which are invalid JSON escapes
	content = strings.ReplaceAll(content, `\N`, `\n`)

	var parsed batchResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, &TranslationError{Detail: "response is not a JSON object", Raw: content}
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), &parsed); err2 != nil {
			return nil, &TranslationError{Detail: err2.Error(), Raw: content}
		}
	}

	if parsed.Items == nil {
		return nil, &TranslationError{Detail: `response missing "items" list`, Raw: content}
	}

	result := make(map[int]string, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID == nil {
			continue
		}
		result[*item.ID] = item.Text
	}
	return result, nil
}

// isTransient reports whether an upstream failure is worth one retry.
func isTransient(err error) bool {
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	if upstream.StatusCode == http.StatusTooManyRequests || upstream.StatusCode >= 500 {
		return true
	}
	var netErr net.Error
	if errors.As(upstream.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
