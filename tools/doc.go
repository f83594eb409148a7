// Package tools defines the tool contracts the agent exposes over a vault.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Note tools: write_note, read_note, list_notes, append_note.
//
// All filesystem access goes through the vault gateway; tools add input
// decoding, pagination caps, and result formatting, never path policy.
package tools
