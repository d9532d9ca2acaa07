package vtt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timecodeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[.,]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[.,]\d{3}`)

// Cue represents a single subtitle entry. The timecode line is kept verbatim
// (including any trailing cue settings) and is never parsed into offsets.
type Cue struct {
	Index    int      `json:"index"`
	Timecode string   `json:"timecode"`
	Lines    []string `json:"lines"`
}

// FormatError reports input that cannot be parsed as WebVTT.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid WebVTT: %s", e.Reason)
}

// scanner states for the cue block parser
const (
	stateHeader = iota
	stateExpectIndexOrTimecode
	stateCollectText
)

// Parse splits WebVTT content into its header block and an ordered list of cues.
// Cue indices are assigned sequentially in encounter order; numeric index lines
// in the source are discarded. Lines that match neither an index nor a timecode
// where a cue block is expected are skipped rather than aborting the parse.
func Parse(content string) (string, []Cue, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "WEBVTT") {
		return "", nil, &FormatError{Reason: "missing WEBVTT signature on first line"}
	}

	header := strings.TrimSpace(lines[0])
	lines = lines[1:]

	var cues []Cue
	var current *Cue
	state := stateHeader
	index := 0

	flush := func() {
		if current != nil {
			cues = append(cues, *current)
			current = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		blank := strings.TrimSpace(line) == ""

		switch state {
		case stateHeader:
			// metadata lines (STYLE, NOTE, kind/language) up to the first blank line
			if blank {
				state = stateExpectIndexOrTimecode
				continue
			}
			// tolerate files that jump straight into cues without a blank line
			if timecodeRe.MatchString(line) {
				current = &Cue{Index: index, Timecode: line}
				index++
				state = stateCollectText
			}

		case stateExpectIndexOrTimecode:
			if blank {
				continue
			}
			if timecodeRe.MatchString(line) {
				current = &Cue{Index: index, Timecode: line}
				index++
				state = stateCollectText
				continue
			}
			// numeric cue label: discard, the next line should be the timecode
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				continue
			}
			// unrecognized line where a cue should start: skip (lenient)

		case stateCollectText:
			if blank {
				flush()
				state = stateExpectIndexOrTimecode
				continue
			}
			// tolerate a missing blank line before the next cue
			if timecodeRe.MatchString(line) {
				flush()
				current = &Cue{Index: index, Timecode: line}
				index++
				continue
			}
			current.Lines = append(current.Lines, line)
		}
	}
	flush()

	return header, cues, nil
}

// Serialize reassembles a header and cue list into a complete WebVTT document.
// Cue numbers are regenerated 1-based; one blank line separates cues and the
// document ends with a trailing newline.
func Serialize(header string, cues []Cue) string {
	var sb strings.Builder
	if header == "" {
		header = "WEBVTT"
	}
	sb.WriteString(header)
	sb.WriteString("\n\n")

	for i, cue := range cues {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n")
		sb.WriteString(cue.Timecode)
		sb.WriteString("\n")
		for _, line := range cue.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FromSRT converts SRT subtitle content to WebVTT by prepending the signature
// and rewriting comma timestamp separators to dots.
func FromSRT(srt string) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	srtTimeRe := regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),(\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}),(\d{3})`)
	for _, line := range strings.Split(strings.ReplaceAll(srt, "\r\n", "\n"), "\n") {
		if srtTimeRe.MatchString(line) {
			line = srtTimeRe.ReplaceAllString(line, "$1.$2 --> $3.$4")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
