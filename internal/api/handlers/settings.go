package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vtt-relay/backend/internal/db"
)

// settingsKeys defines which keys are allowed and their display metadata
var settingsKeys = []SettingDef{
	{Key: "openai_api_key", Label: "OpenAI API Key", Group: "translation", Placeholder: "sk-...", Secret: true},
	{Key: "openai_model", Label: "Completion Model", Group: "translation", Placeholder: "gpt-4o-mini", Secret: false},
	{Key: "default_langs", Label: "Default Target Languages", Group: "translation", Placeholder: "de-DE fr-FR ja-JP", Secret: false},
	{Key: "wrap_width", Label: "Line Wrap Width", Group: "translation", Placeholder: "42", Secret: false},
	{Key: "batch_size", Label: "Cues Per Batch", Group: "translation", Placeholder: "50", Secret: false},
}

type SettingDef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	Placeholder string `json:"placeholder"`
	Secret      bool   `json:"secret"`
}

const maskPrefix = "••••••••"

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// GetSettings returns all settings (secrets are masked)
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	type SettingResponse struct {
		SettingDef
		Value    string `json:"value"`
		HasValue bool   `json:"has_value"`
	}

	var result []SettingResponse
	for _, def := range settingsKeys {
		val := all[def.Key]
		masked := val
		hasValue := val != ""
		if def.Secret && hasValue {
			// Show only last 4 chars
			if len(val) > 4 {
				masked = maskPrefix + val[len(val)-4:]
			} else {
				masked = maskPrefix
			}
		}
		result = append(result, SettingResponse{
			SettingDef: def,
			Value:      masked,
			HasValue:   hasValue,
		})
	}

	jsonResponse(w, result, http.StatusOK)
}

// UpdateSettings saves settings from the request body
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Only allow known settings keys
	allowed := make(map[string]bool)
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		// A masked value coming back means the client did not change the secret
		if strings.HasPrefix(value, maskPrefix) {
			continue
		}
		if err := h.database.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting: "+key, http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
