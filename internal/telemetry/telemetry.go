// Package telemetry emits JSONL events describing gateway and agent
// activity. Emission is off unless VGT_OBSERVE_JSON=1; events never carry
// note content, only sizes and previews of structural fields.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/sjson"
)

const eventsFile = "events.jsonl"

// isObserveEnabled checks if JSONL emission is enabled.
func isObserveEnabled() bool {
	return os.Getenv("VGT_OBSERVE_JSON") == "1"
}

// stateDir returns the directory holding events.jsonl.
func stateDir() string {
	if d := os.Getenv("VGT_STATE_DIR"); d != "" {
		return d
	}
	return ".vaultgate"
}

// Emit appends a single JSON line to <stateDir>/events.jsonl when
// VGT_OBSERVE_JSON=1, augmenting fields with RFC3339Nano time and the
// event name. Failures are reported on stderr and never propagate.
func Emit(name string, fields map[string]any) {
	if !isObserveEnabled() {
		return
	}

	line := "{}"
	var err error
	for k, v := range fields {
		if line, err = sjson.Set(line, k, v); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry: set %s: %v\n", k, err)
			return
		}
	}
	if line, err = sjson.Set(line, "time", time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: set time: %v\n", err)
		return
	}
	if line, err = sjson.Set(line, "event", name); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: set event: %v\n", err)
		return
	}

	dir := stateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, eventsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append([]byte(line), '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
