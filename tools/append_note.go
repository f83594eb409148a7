package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hallagren/vaultgate/internal/vault"
)

type AppendNoteInput struct {
	Directory string `json:"directory,omitempty" jsonschema_description:"Relative directory under the vault root; empty targets the root."`
	Filename  string `json:"filename" jsonschema_description:"Leaf name of the note file."`
	Content   string `json:"content" jsonschema_description:"Text appended to the end of the note. The note is created when missing."`
}

// AppendNoteDefinition returns the append_note tool bound to v.
func AppendNoteDefinition(v *vault.Vault) ToolDefinition {
	return ToolDefinition{
		Name: "append_note",
		Description: `Append text to a note in the vault, creating it when missing.

A newline is inserted between the existing body and the appended text when the body does not already end with one.`,
		InputSchema: GenerateSchema[AppendNoteInput](),
		Function:    appendNote(v),
	}
}

// appendNote composes read + overwrite at the caller level; the gateway
// itself knows only whole-file writes. Concurrent appenders are not
// serialised here (last write wins).
func appendNote(v *vault.Vault) func(json.RawMessage) (string, error) {
	return func(input json.RawMessage) (string, error) {
		var in AppendNoteInput
		if err := json.Unmarshal(input, &in); err != nil {
			return "", err
		}
		if in.Content == "" {
			return "", fmt.Errorf("content must not be empty")
		}

		existing, err := v.ReadFile(in.Directory, in.Filename)
		if err != nil {
			// A missing note is created; policy denials propagate.
			if code := vault.CodeOf(err); code != "" {
				return "", err
			}
			if !errors.Is(err, os.ErrNotExist) {
				return "", err
			}
			existing = nil
		}

		body := string(existing)
		if body != "" && body[len(body)-1] != '\n' {
			body += "\n"
		}
		body += in.Content

		abs, err := v.Write(vault.WriteRequest{
			Directory: in.Directory,
			Filename:  in.Filename,
			Content:   []byte(body),
			Overwrite: true,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Appended %d bytes to %s", len(in.Content), abs), nil
	}
}
