// Package runner coordinates message exchange with the Anthropic Messages
// API and dispatches tool calls against the vault.
//
// Invariant:
//   - tool_use and the corresponding tool_result are kept adjacent within
//     a turn to preserve execution context.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
//
// The full conversation is sent each step; note-taking exchanges are short
// and need no context windowing.
package runner
