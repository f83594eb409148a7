package tools

import (
	"encoding/json"
	"sort"

	"github.com/hallagren/vaultgate/internal/vault"
)

type ListNotesInput struct {
	Directory string `json:"directory,omitempty" jsonschema_description:"Optional relative directory to list (defaults to the vault root)."`
	Page      int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListNotesPageSize is the fallback page size when page_size <= 0.
const defaultListNotesPageSize = 200

// ListNotesDefinition returns the list_notes tool bound to v.
func ListNotesDefinition(v *vault.Vault) ToolDefinition {
	return ToolDefinition{
		Name:        "list_notes",
		Description: "List entries of a vault directory (non-recursive). Subdirectories are suffixed with /.",
		InputSchema: GenerateSchema[ListNotesInput](),
		Function:    listNotes(v),
	}
}

// listNotes lists entries via the vault gateway, then applies
// deterministic sorting and simple paging at the tool layer.
// Contract: returns a JSON-encoded []string.
func listNotes(v *vault.Vault) func(json.RawMessage) (string, error) {
	return func(input json.RawMessage) (string, error) {
		var in ListNotesInput
		if err := json.Unmarshal(input, &in); err != nil {
			return "", err
		}
		// Default benign inputs for LLM callers to keep behaviour predictable.
		page := in.Page
		if page <= 0 {
			page = 1
		}
		pageSize := in.PageSize
		if pageSize <= 0 {
			pageSize = defaultListNotesPageSize
		}

		names, err := v.List(in.Directory)
		if err != nil {
			return "", err
		}
		// Standardise order so paging is deterministic across filesystems.
		sort.Strings(names)

		start := (page - 1) * pageSize
		// Out-of-range page returns an empty JSON array; keep the output contract.
		if start >= len(names) {
			return "[]", nil
		}
		end := start + pageSize
		if end > len(names) {
			end = len(names)
		}

		b, err := json.Marshal(names[start:end])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
