// Package vault implements sandboxed file writes under a bounded root
// directory.
//
// Pipeline:
//   - Validate: lexical checks on the directory/filename pair (pure).
//   - Resolve: join against the vault root and verify containment,
//     including symlink-aware resolution of existing ancestors.
//   - WriteFile: create parent directories, honour the overwrite flag,
//     persist content byte-for-byte.
//
// Errors carry machine-readable codes (see Error) so callers can map
// denials to user-facing messages without inspecting raw OS errors.
package vault
