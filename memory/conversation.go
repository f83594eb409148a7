package memory

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Message is a minimal persisted view of a chat turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// TranscriptPath returns the transcript location under the state directory.
func TranscriptPath(stateDir string) string {
	return filepath.Join(stateDir, "conversation.json")
}

// LoadConversation reads a persisted transcript. A missing file is not an
// error; it returns an empty conversation.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveConversation writes the transcript, creating the state directory
// when missing.
func SaveConversation(path string, msgs []Message) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
