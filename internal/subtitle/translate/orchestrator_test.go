package translate

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vtt-relay/backend/internal/subtitle/vtt"
)

// stubEngine translates by prefixing the target language, recording every
// batch it receives. Behavior per language can be overridden.
type stubEngine struct {
	batches  map[string][][]Item // language -> batches seen
	failLang map[string]error    // language -> error returned for every batch
	omitIDs  map[int]bool        // ids silently dropped from responses
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		batches:  make(map[string][][]Item),
		failLang: make(map[string]error),
		omitIDs:  make(map[int]bool),
	}
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) TranslateBatch(ctx context.Context, lang string, items []Item, opts Options) (map[int]string, error) {
	batch := make([]Item, len(items))
	copy(batch, items)
	s.batches[lang] = append(s.batches[lang], batch)

	if err := s.failLang[lang]; err != nil {
		return nil, err
	}

	out := make(map[int]string, len(items))
	for _, item := range items {
		if s.omitIDs[item.ID] {
			continue
		}
		out[item.ID] = "[" + lang + "] " + item.Text
	}
	return out, nil
}

func makeCues(n int) []vtt.Cue {
	cues := make([]vtt.Cue, n)
	for i := range cues {
		cues[i] = vtt.Cue{
			Index:    i,
			Timecode: fmt.Sprintf("00:00:%02d.000 --> 00:00:%02d.500", i%60, i%60),
			Lines:    []string{fmt.Sprintf("line %d", i)},
		}
	}
	return cues
}

func TestOrchestrator_BatchSizing(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	orch := NewOrchestrator(engine)

	cues := makeCues(120)
	results := orch.Run(context.Background(), "WEBVTT", cues, Options{
		Langs:     []string{"de-DE", "ja-JP"},
		BatchSize: 50,
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for _, lang := range []string{"de-DE", "ja-JP"} {
		batches := engine.batches[lang]
		if len(batches) != 3 {
			t.Fatalf("%s: expected 3 batches, got %d", lang, len(batches))
		}
		sizes := []int{len(batches[0]), len(batches[1]), len(batches[2])}
		if !reflect.DeepEqual(sizes, []int{50, 50, 20}) {
			t.Errorf("%s: expected batch sizes [50 50 20], got %v", lang, sizes)
		}
	}

	// join must cover every cue exactly once
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s: unexpected error: %v", res.Lang, res.Err)
		}
		_, parsed, err := vtt.Parse(res.Output)
		if err != nil {
			t.Fatalf("%s: output does not parse: %v", res.Lang, err)
		}
		if len(parsed) != 120 {
			t.Errorf("%s: expected 120 cues in output, got %d", res.Lang, len(parsed))
		}
		if res.Fallback != 0 {
			t.Errorf("%s: expected no fallback cues, got %d", res.Lang, res.Fallback)
		}
	}
}

func TestOrchestrator_FallbackOnMissingID(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	engine.omitIDs[1] = true
	orch := NewOrchestrator(engine)

	cues := makeCues(3)
	res := orch.Run(context.Background(), "WEBVTT", cues, Options{Langs: []string{"de-DE"}})[0]
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Fallback != 1 {
		t.Errorf("expected 1 fallback cue, got %d", res.Fallback)
	}

	_, parsed, err := vtt.Parse(res.Output)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if got := parsed[1].Lines[0]; got != "line 1" {
		t.Errorf("omitted cue should keep source text, got %q", got)
	}
	if got := parsed[0].Lines[0]; got != "[de-DE] line 0" {
		t.Errorf("translated cue wrong: %q", got)
	}
}

func TestOrchestrator_EmptyCuePassthrough(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	orch := NewOrchestrator(engine)

	cues := []vtt.Cue{
		{Index: 0, Timecode: "00:00:00.000 --> 00:00:01.000", Lines: []string{"spoken"}},
		{Index: 1, Timecode: "00:00:01.000 --> 00:00:02.000"}, // styling cue, no text
		{Index: 2, Timecode: "00:00:02.000 --> 00:00:03.000", Lines: []string{"more"}},
	}

	res := orch.Run(context.Background(), "WEBVTT", cues, Options{Langs: []string{"fr-FR"}})[0]
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	for _, batch := range engine.batches["fr-FR"] {
		for _, item := range batch {
			if item.ID == 1 {
				t.Error("empty cue was sent to the engine")
			}
		}
	}

	_, parsed, err := vtt.Parse(res.Output)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(parsed))
	}
	if len(parsed[1].Lines) != 0 {
		t.Errorf("empty cue gained text: %v", parsed[1].Lines)
	}
	if res.Fallback != 0 {
		t.Errorf("empty cue must not count as fallback, got %d", res.Fallback)
	}
}

func TestOrchestrator_LanguageIndependence(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	engine.failLang["de-DE"] = &UpstreamError{StatusCode: 500, Detail: "boom"}
	orch := NewOrchestrator(engine)

	cues := makeCues(5)
	results := orch.Run(context.Background(), "WEBVTT", cues, Options{
		Langs: []string{"de-DE", "ja-JP"},
	})

	if results[0].Err == nil {
		t.Error("expected de-DE to fail")
	}
	if results[1].Err != nil {
		t.Fatalf("ja-JP should not be affected: %v", results[1].Err)
	}

	_, parsed, err := vtt.Parse(results[1].Output)
	if err != nil {
		t.Fatalf("ja-JP output does not parse: %v", err)
	}
	for i, cue := range parsed {
		want := fmt.Sprintf("[ja-JP] line %d", i)
		if cue.Lines[0] != want {
			t.Errorf("cue %d: expected %q, got %q", i, want, cue.Lines[0])
		}
	}
}

func TestOrchestrator_MalformedBatchDegrades(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	engine.failLang["de-DE"] = &TranslationError{Detail: "not json"}
	orch := NewOrchestrator(engine)

	cues := makeCues(4)
	res := orch.Run(context.Background(), "WEBVTT", cues, Options{Langs: []string{"de-DE"}})[0]

	// a malformed response degrades the batch, it does not fail the language
	if res.Err != nil {
		t.Fatalf("expected degraded output, got error: %v", res.Err)
	}
	if res.Fallback != 4 {
		t.Errorf("expected all 4 cues to fall back, got %d", res.Fallback)
	}
	if !res.Degraded() {
		t.Error("result should report as degraded")
	}

	_, parsed, err := vtt.Parse(res.Output)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	for i, cue := range parsed {
		want := fmt.Sprintf("line %d", i)
		if cue.Lines[0] != want {
			t.Errorf("cue %d: expected source text %q, got %q", i, want, cue.Lines[0])
		}
	}
}

func TestOrchestrator_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	orch := NewOrchestrator(engine)

	cues := makeCues(3)
	snapshot := make([]vtt.Cue, len(cues))
	for i, cue := range cues {
		snapshot[i] = vtt.Cue{Index: cue.Index, Timecode: cue.Timecode, Lines: append([]string(nil), cue.Lines...)}
	}

	orch.Run(context.Background(), "WEBVTT", cues, Options{Langs: []string{"de-DE", "ja-JP"}})

	if !reflect.DeepEqual(cues, snapshot) {
		t.Error("input cues were mutated")
	}
}

func TestOrchestrator_DefaultLangs(t *testing.T) {
	t.Parallel()

	engine := newStubEngine()
	orch := NewOrchestrator(engine)

	results := orch.Run(context.Background(), "WEBVTT", makeCues(1), Options{})
	if len(results) != len(DefaultLangs) {
		t.Fatalf("expected %d results, got %d", len(DefaultLangs), len(results))
	}
	for i, res := range results {
		if res.Lang != DefaultLangs[i] {
			t.Errorf("result %d: expected lang %s, got %s", i, DefaultLangs[i], res.Lang)
		}
	}
}

func TestSystemPrompt(t *testing.T) {
	t.Parallel()

	prompt := SystemPrompt("de-DE", Options{Wrap: 42, CustomPrompt: "keep honorifics"})
	for _, want := range []string{"German", "de-DE", "42 characters", "keep honorifics", `{"items":`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	noWrap := SystemPrompt("xx-XX", Options{})
	if strings.Contains(noWrap, "Wrap lines") {
		t.Error("wrap instruction present without wrap width")
	}
	if !strings.Contains(noWrap, "xx-XX") {
		t.Error("unknown locale tag should pass through")
	}
}
