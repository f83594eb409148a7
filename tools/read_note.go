package tools

import (
	"encoding/json"
	"strings"

	"github.com/hallagren/vaultgate/internal/vault"
)

type ReadNoteInput struct {
	Directory string `json:"directory,omitempty" jsonschema_description:"Relative directory under the vault root; empty targets the root."`
	Filename  string `json:"filename" jsonschema_description:"Leaf name of the note file."`
	Offset    int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit     int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return from offset (default 200)."`
}

const defaultReadNoteLimit = 200 // fallback page size when limit <= 0
const truncationSentinel = "-- truncated; use offset/limit to fetch more --\n"
const maxLineRunes = 2000     // per-line clamp
const overallRuneCap = 12_000 // overall cap after join

// ReadNoteDefinition returns the read_note tool bound to v.
func ReadNoteDefinition(v *vault.Vault) ToolDefinition {
	return ToolDefinition{
		Name:        "read_note",
		Description: "Read a note from the vault. Directory paths and unsafe paths are rejected.",
		InputSchema: GenerateSchema[ReadNoteInput](),
		Function:    readNote(v),
	}
}

// Helper: clamp a string to at most n runes
func clampRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return "", len([]rune(s)) > 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

// readNote reads through the vault gateway and applies small,
// deterministic caps for LLM-facing pagination:
//   - offset: 0-based starting line (negatives clamped to 0)
//   - limit: number of lines to return (<=0 defaults to 200)
//
// If not all lines are returned, it appends a trailing sentinel to signal
// pagination. Keeps tool results predictably small.
func readNote(v *vault.Vault) func(json.RawMessage) (string, error) {
	return func(input json.RawMessage) (string, error) {
		var in ReadNoteInput
		if err := json.Unmarshal(input, &in); err != nil {
			return "", err
		}

		b, err := v.ReadFile(in.Directory, in.Filename)
		if err != nil {
			return "", err
		}
		content := string(b)

		limit := in.Limit
		if limit <= 0 {
			limit = defaultReadNoteLimit
		}
		offset := in.Offset
		if offset < 0 {
			offset = 0
		}

		lines := strings.Split(content, "\n")
		if offset > len(lines) {
			offset = len(lines)
		}
		end := offset + limit
		if end > len(lines) {
			end = len(lines)
		}

		truncated := end < len(lines)
		for i := offset; i < end; i++ {
			if clamped, did := clampRunes(lines[i], maxLineRunes); did {
				lines[i] = clamped
				truncated = true
			}
		}

		out := strings.Join(lines[offset:end], "\n")

		if _, did := clampRunes(out, overallRuneCap); did {
			r := []rune(out)
			out = string(r[:overallRuneCap])
			truncated = true
		}

		if truncated {
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			if !strings.HasSuffix(out, truncationSentinel) {
				out += truncationSentinel
			}
		}
		return out, nil
	}
}
