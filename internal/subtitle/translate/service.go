package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vtt-relay/backend/internal/archive"
	"github.com/vtt-relay/backend/internal/job"
	"github.com/vtt-relay/backend/internal/subtitle/vtt"
)

// PresetResolver looks up a saved prompt preset's text by ID.
type PresetResolver func(id int64) (string, error)

// Service runs translation work: synchronous requests from the HTTP handler
// and queued jobs from the job worker.
type Service struct {
	engine        Engine
	uploadsPath   string
	outputsPath   string
	defaults      Options
	resolvePreset PresetResolver
}

// NewService creates a translation service. defaults supplies the fallback
// langs/model/wrap/batch size for requests that do not set their own.
func NewService(engine Engine, uploadsPath, outputsPath string, defaults Options, resolvePreset PresetResolver) *Service {
	os.MkdirAll(uploadsPath, 0755)
	os.MkdirAll(outputsPath, 0755)
	return &Service{
		engine:        engine,
		uploadsPath:   uploadsPath,
		outputsPath:   outputsPath,
		defaults:      defaults,
		resolvePreset: resolvePreset,
	}
}

// UploadsPath returns the directory where job source files are stored.
func (s *Service) UploadsPath() string {
	return s.uploadsPath
}

// OutputsPath returns the directory where job archives are written.
func (s *Service) OutputsPath() string {
	return s.outputsPath
}

// Defaults returns the service-level default options.
func (s *Service) Defaults() Options {
	return s.defaults
}

// TranslateFile parses the uploaded subtitle content and translates it into
// every requested language, returning one output file per language plus the
// per-language results. SRT input is converted to WebVTT first. A parse
// failure aborts the whole request; per-language failures do not.
func (s *Service) TranslateFile(ctx context.Context, filename string, content []byte, opts Options, progress func(float64)) ([]archive.File, []Result, error) {
	text := string(content)
	if strings.HasSuffix(strings.ToLower(filename), ".srt") {
		text = vtt.FromSRT(text)
	}

	header, cues, err := vtt.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	if len(cues) == 0 {
		return nil, nil, &vtt.FormatError{Reason: "no cues found"}
	}

	opts = s.withDefaults(opts)
	langs := opts.Langs

	log.Printf("[translate] %s: %d cues, %d target languages, batch size %d",
		filename, len(cues), len(langs), opts.BatchSize)

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	orch := NewOrchestrator(s.engine)

	var files []archive.File
	results := make([]Result, 0, len(langs))
	for i, lang := range langs {
		langOpts := opts
		langOpts.Langs = []string{lang}
		res := orch.Run(ctx, header, cues, langOpts)[0]
		results = append(results, res)

		if res.Err == nil {
			files = append(files, archive.File{
				Name: fmt.Sprintf("%s.%s.vtt", base, lang),
				Data: []byte(res.Output),
			})
		} else {
			log.Printf("[translate] %s: language %s failed: %v", filename, lang, res.Err)
		}

		if progress != nil {
			progress(float64(i+1) / float64(len(langs)))
		}
	}

	return files, results, nil
}

// HandleJob processes a queued translation job: load the stored upload,
// translate, and write the zip archive of per-language outputs.
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	start := time.Now()

	var params job.TranslateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	srcPath := filepath.Join(s.uploadsPath, filepath.Base(j.FilePath))
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read stored upload: %w", err)
	}

	opts := Options{
		Langs:     params.Langs,
		Model:     params.Model,
		Wrap:      params.Wrap,
		BatchSize: params.BatchSize,
	}
	if params.PresetID != 0 && s.resolvePreset != nil {
		prompt, err := s.resolvePreset(params.PresetID)
		if err != nil {
			return fmt.Errorf("resolve prompt preset %d: %w", params.PresetID, err)
		}
		opts.CustomPrompt = prompt
	}

	name := params.OriginalName
	if name == "" {
		name = filepath.Base(j.FilePath)
	}

	files, results, err := s.TranslateFile(ctx, name, content, opts, updateProgress)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("all %d languages failed: %v", len(results), results[0].Err)
	}

	archiveName := j.ID + ".zip"
	if err := archive.WriteZip(filepath.Join(s.outputsPath, archiveName), files); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	outcomes := make([]job.LangOutcome, 0, len(results))
	for _, res := range results {
		outcome := job.LangOutcome{Lang: res.Lang, Fallback: res.Fallback}
		if res.Err != nil {
			outcome.Error = res.Err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	resultJSON, _ := json.Marshal(job.TranslateResult{
		ArchivePath: archiveName,
		Languages:   outcomes,
		Duration:    time.Since(start).Seconds(),
	})
	j.Result = resultJSON

	log.Printf("[translate] job %s complete: %s (%d languages, %.1fs)",
		j.ID, archiveName, len(files), time.Since(start).Seconds())
	return nil
}

func (s *Service) withDefaults(opts Options) Options {
	if len(opts.Langs) == 0 {
		opts.Langs = s.defaults.Langs
	}
	if len(opts.Langs) == 0 {
		opts.Langs = DefaultLangs
	}
	if opts.Model == "" {
		opts.Model = s.defaults.Model
	}
	if opts.Wrap == 0 {
		opts.Wrap = s.defaults.Wrap
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = s.defaults.BatchSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return opts
}
