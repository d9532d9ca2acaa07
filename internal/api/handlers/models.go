package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vtt-relay/backend/internal/db"
)

// Model is the frontend-friendly model info
type Model struct {
	ID      string `json:"id"`      // e.g. "gpt-4o-mini"
	OwnedBy string `json:"owned_by"`
}

type ModelsHandler struct {
	database     *db.Database
	fallbackKey  string // env-configured API key used when no setting is stored
	baseURL      string
	cachedModels []Model
	cacheTime    time.Time
}

func NewModelsHandler(database *db.Database, fallbackKey, baseURL string) *ModelsHandler {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &ModelsHandler{database: database, fallbackKey: fallbackKey, baseURL: strings.TrimRight(baseURL, "/")}
}

// ListModels fetches the completion models available to the configured API key
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	apiKey := h.database.GetSetting("openai_api_key", h.fallbackKey)
	if apiKey == "" {
		// Return empty list if no API key configured
		jsonResponse(w, []Model{}, http.StatusOK)
		return
	}

	models, err := h.getModels(apiKey)
	if err != nil {
		jsonError(w, "failed to fetch models: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, models, http.StatusOK)
}

func (h *ModelsHandler) getModels(apiKey string) ([]Model, error) {
	// Return cache if fresh (1h)
	if len(h.cachedModels) > 0 && time.Since(h.cacheTime) < 1*time.Hour {
		result := make([]Model, len(h.cachedModels))
		copy(result, h.cachedModels)
		return result, nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("GET", h.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		// Serve a stale cache over an error when we have one
		if len(h.cachedModels) > 0 {
			result := make([]Model, len(h.cachedModels))
			copy(result, h.cachedModels)
			return result, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("models API error (status %d): %s", resp.StatusCode, string(body))
	}

	var listResp struct {
		Data []struct {
			ID      string `json:"id"`
			OwnedBy string `json:"owned_by"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("parse models response: %w", err)
	}

	var models []Model
	for _, m := range listResp.Data {
		// only chat-capable GPT models are useful as translation engines
		if !strings.HasPrefix(m.ID, "gpt-") && !strings.HasPrefix(m.ID, "o") {
			continue
		}
		models = append(models, Model{ID: m.ID, OwnedBy: m.OwnedBy})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	h.cachedModels = models
	h.cacheTime = time.Now()
	return models, nil
}
