package translate

import "context"

// Item is one cue's worth of text sent to the translation engine. ID is the
// cue index and the join key for the response.
type Item struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Options configures a translation run.
type Options struct {
	Langs        []string `json:"langs"`         // target locale tags, e.g. "de-DE"
	Model        string   `json:"model"`         // completion model identifier
	Wrap         int      `json:"wrap"`          // advisory soft line-wrap width
	BatchSize    int      `json:"batch_size"`    // cues per remote call
	CustomPrompt string   `json:"custom_prompt"` // extra instructions appended to the system prompt
}

// Engine translates one batch of items into the target language and returns a
// mapping from item ID to translated text. Missing IDs are tolerated by the
// caller; the engine only fails when the whole batch is unusable.
type Engine interface {
	TranslateBatch(ctx context.Context, targetLang string, items []Item, opts Options) (map[int]string, error)
	Name() string
}
