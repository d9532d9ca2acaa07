package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobTranslate JobType = "translate"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued translation task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	FilePath    string          `json:"file_path"` // stored upload, relative to the uploads dir
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TranslateParams are parameters for a translation job
type TranslateParams struct {
	OriginalName string   `json:"original_name"`       // uploaded filename, used for output naming
	Langs        []string `json:"langs,omitempty"`     // empty means the default language set
	Model        string   `json:"model,omitempty"`     // empty means the configured model
	Wrap         int      `json:"wrap,omitempty"`      // soft line-wrap width
	BatchSize    int      `json:"batch_size,omitempty"`
	PresetID     int64    `json:"preset_id,omitempty"` // optional saved prompt preset
}

// LangOutcome describes one language's output within a completed job
type LangOutcome struct {
	Lang     string `json:"lang"`
	Fallback int    `json:"fallback"`        // cues left in the source language
	Error    string `json:"error,omitempty"` // set when the language produced no output
}

// TranslateResult is the output of a finished translation job
type TranslateResult struct {
	ArchivePath string        `json:"archive_path"` // zip of per-language VTT files, relative to the outputs dir
	Languages   []LangOutcome `json:"languages"`
	Duration    float64       `json:"duration"` // processing time in seconds
}

// JobHandler processes a job. The translate service provides the implementation.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
