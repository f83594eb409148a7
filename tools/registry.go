package tools

import "github.com/hallagren/vaultgate/internal/vault"

// Registry returns all tool definitions wired against the given vault.
func Registry(v *vault.Vault) []ToolDefinition {
	return []ToolDefinition{
		WriteNoteDefinition(v),
		ReadNoteDefinition(v),
		ListNotesDefinition(v),
		AppendNoteDefinition(v),
	}
}
