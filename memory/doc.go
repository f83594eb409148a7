// Package memory persists the agent's conversation transcript between
// runs.
//
// Persistence model:
//   - Only text messages are stored (role + text). Tool blocks are
//     transient; the vault itself is the durable artifact.
//   - The transcript lives under the configured state directory, next to
//     telemetry output.
package memory
