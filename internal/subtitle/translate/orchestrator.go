package translate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vtt-relay/backend/internal/subtitle/vtt"
)

// DefaultBatchSize is the number of cues grouped into one remote call.
const DefaultBatchSize = 50

// Result is the outcome of translating one file into one target language.
type Result struct {
	Lang     string `json:"lang"`
	Output   string `json:"-"`        // complete WebVTT document
	Fallback int    `json:"fallback"` // cues left in the source language
	Err      error  `json:"-"`
}

// Degraded reports whether the output exists but contains untranslated cues.
func (r Result) Degraded() bool {
	return r.Err == nil && r.Fallback > 0
}

// Orchestrator drives batch translation of a parsed subtitle file across a set
// of target languages.
type Orchestrator struct {
	engine Engine
}

func NewOrchestrator(engine Engine) *Orchestrator {
	return &Orchestrator{engine: engine}
}

// Run translates (header, cues) into every language in opts.Langs. Languages
// are processed independently: a failed language yields a Result with Err set
// and does not affect the others. The input cue slice is never mutated.
func (o *Orchestrator) Run(ctx context.Context, header string, cues []vtt.Cue, opts Options) []Result {
	langs := opts.Langs
	if len(langs) == 0 {
		langs = DefaultLangs
	}

	results := make([]Result, 0, len(langs))
	for _, lang := range langs {
		results = append(results, o.translateLang(ctx, header, cues, lang, opts))
	}
	return results
}

func (o *Orchestrator) translateLang(ctx context.Context, header string, cues []vtt.Cue, lang string, opts Options) Result {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// cues with no spoken text are never sent to the engine
	items := make([]Item, 0, len(cues))
	for _, cue := range cues {
		if len(cue.Lines) == 0 {
			continue
		}
		items = append(items, Item{ID: cue.Index, Text: strings.Join(cue.Lines, "\n")})
	}

	totalBatches := (len(items) + batchSize - 1) / batchSize
	log.Printf("[translate] %s: translating %d cues in %d batches via %s",
		lang, len(items), totalBatches, o.engine.Name())

	translated := make(map[int]string, len(items))
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batchNum := i/batchSize + 1

		batch, err := o.engine.TranslateBatch(ctx, lang, items[i:end], opts)
		if err != nil {
			var malformed *TranslationError
			if errors.As(err, &malformed) {
				// degraded batch: its cues fall back to source text below
				log.Printf("[translate] %s: batch %d/%d degraded: %v", lang, batchNum, totalBatches, err)
				continue
			}
			return Result{Lang: lang, Err: fmt.Errorf("%s batch %d/%d: %w", lang, batchNum, totalBatches, err)}
		}
		for id, text := range batch {
			translated[id] = text
		}
	}

	// build the output from a copy; substitute translated text where present
	out := make([]vtt.Cue, len(cues))
	fallback := 0
	for i, cue := range cues {
		out[i] = vtt.Cue{Index: cue.Index, Timecode: cue.Timecode, Lines: cue.Lines}
		if len(cue.Lines) == 0 {
			continue
		}
		text, ok := translated[cue.Index]
		if !ok || text == "" {
			fallback++
			continue
		}
		out[i].Lines = strings.Split(text, "\n")
	}

	if fallback > 0 {
		log.Printf("[translate] %s: %d/%d cues kept source text", lang, fallback, len(cues))
	}

	return Result{
		Lang:     lang,
		Output:   vtt.Serialize(header, out),
		Fallback: fallback,
	}
}

