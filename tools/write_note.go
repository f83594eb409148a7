package tools

import (
	"encoding/json"
	"fmt"

	"github.com/hallagren/vaultgate/internal/telemetry"
	"github.com/hallagren/vaultgate/internal/vault"
)

type WriteNoteInput struct {
	Directory string `json:"directory,omitempty" jsonschema_description:"Relative directory under the vault root; empty targets the root."`
	Filename  string `json:"filename" jsonschema_description:"Leaf name of the note file, e.g. daily.md. No path separators."`
	Content   string `json:"content" jsonschema_description:"Full note content to persist."`
	Overwrite bool   `json:"overwrite,omitempty" jsonschema_description:"Replace an existing note at the same path. Defaults to false."`
}

// WriteNoteDefinition returns the write_note tool bound to v.
func WriteNoteDefinition(v *vault.Vault) ToolDefinition {
	return ToolDefinition{
		Name: "write_note",
		Description: `Create a note inside the vault. Missing directories are created automatically.

An existing note is never replaced unless overwrite is true; a denied write reports ERR_FILE_EXISTS and leaves the note untouched.`,
		InputSchema: GenerateSchema[WriteNoteInput](),
		Function:    writeNote(v),
	}
}

func writeNote(v *vault.Vault) func(json.RawMessage) (string, error) {
	return func(input json.RawMessage) (string, error) {
		var in WriteNoteInput
		if err := json.Unmarshal(input, &in); err != nil {
			return "", err
		}

		abs, err := v.Write(vault.WriteRequest{
			Directory: in.Directory,
			Filename:  in.Filename,
			Content:   []byte(in.Content),
			Overwrite: in.Overwrite,
		})
		if err != nil {
			telemetry.Emit("write_denied", map[string]any{
				"directory": in.Directory,
				"filename":  in.Filename,
				"code":      vault.CodeOf(err),
			})
			return "", err
		}

		telemetry.Emit("write_ok", map[string]any{
			"path":         abs,
			"content_size": len(in.Content),
			"overwrite":    in.Overwrite,
		})
		return fmt.Sprintf("Wrote %s (%d bytes)", abs, len(in.Content)), nil
	}
}
