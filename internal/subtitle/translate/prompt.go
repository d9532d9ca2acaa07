package translate

import "fmt"

// SystemPrompt builds the fixed instruction sent with every batch. The payload
// carries no timestamps, so the rules focus on what must survive translation
// inside the cue text itself.
func SystemPrompt(targetLang string, opts Options) string {
	prompt := fmt.Sprintf(
		"You are a professional subtitle translator. Translate subtitle cue text into %s (%s).\n"+
			"Rules:\n"+
			"- Translate only natural-language content.\n"+
			"- Keep inline markup tags (like <i>, <b>, <c.classname>) exactly as they appear.\n"+
			"- Keep speaker-label prefixes (like \"JOHN:\" or \"- \") in place.\n"+
			"- Keep bracketed sound cues (like [music], [laughter]) intact, translating only their content when natural.\n"+
			"- Keep numbers and acronyms unchanged.\n"+
			"- Preserve line breaks within each cue's text.\n",
		LangName(targetLang), targetLang,
	)

	if opts.Wrap > 0 {
		prompt += fmt.Sprintf("- Wrap lines at roughly %d characters.\n", opts.Wrap)
	}

	prompt += "\nThe user message is a JSON object with a TARGET language and an items list. " +
		"Respond with ONLY a JSON object of the shape {\"items\": [{\"id\": <int>, \"text\": <string>}, ...]} " +
		"containing exactly one item per input id, with each id unchanged. No explanations, no markdown."

	if opts.CustomPrompt != "" {
		prompt += "\n\nUser instructions: " + opts.CustomPrompt
	}

	return prompt
}
