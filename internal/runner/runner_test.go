package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hallagren/vaultgate/internal/provider"
	"github.com/hallagren/vaultgate/internal/runner"
	"github.com/hallagren/vaultgate/internal/telemetry"
	"github.com/hallagren/vaultgate/internal/vault"
	"github.com/hallagren/vaultgate/tools"
)

type capture struct {
	method string
	url    string
	body   []byte
}

type fakeTransport struct {
	respStatus int
	respBody   []byte
	captured   *capture
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if f.captured != nil {
		f.captured.method = req.Method
		f.captured.url = req.URL.String()
		f.captured.body = b
	}
	resp := &http.Response{
		StatusCode: f.respStatus,
		Body:       io.NopCloser(bytes.NewReader(f.respBody)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func newClientWithTransport(rt http.RoundTripper) *anthropic.Client {
	c := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithAPIKey("test-key"),
		// Base URL is irrelevant since transport intercepts
	)
	return &c
}

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	v, err := vault.New(root, "")
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	return v
}

func stateDirForTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VGT_STATE_DIR", dir)
	return dir
}

func readEventLines(t *testing.T, dir string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read events: %v", err)
	}
	var lines []string
	for _, l := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestRunner_SendsFullConversation(t *testing.T) {
	capReq := &capture{}
	fake := &fakeTransport{respStatus: 200, respBody: []byte(`{"content":[],"role":"assistant"}`), captured: capReq}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(newTestVault(t)))

	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("first")),
		anthropic.NewUserMessage(anthropic.NewTextBlock("second")),
	}
	_, _, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if capReq.body == nil {
		t.Fatal("no request captured")
	}

	var rb struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(capReq.body, &rb); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, string(capReq.body))
	}
	if len(rb.Messages) != 2 {
		t.Fatalf("expected full conversation (2 messages), got %d", len(rb.Messages))
	}
	if len(rb.Tools) != 4 {
		t.Fatalf("expected 4 tools advertised, got %d", len(rb.Tools))
	}
}

func TestRunner_ToolUse_ExecutesToolAndReturnsResults(t *testing.T) {
	v := newTestVault(t)
	// Fake provider returns a tool_use; runner executes tool and returns tool_result.
	resp := `{
	"role": "assistant",
	"content": [{"type": "tool_use", "id": "t1", "name": "write_note", "input": {"filename": "a.md", "content": "hello"}}]
	}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(v))
	conv := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("please write a note")),
	}
	msg, toolResults, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg == nil {
		t.Fatal("nil message returned")
	}
	if len(toolResults) == 0 {
		t.Fatal("expected at least one tool_result from execTool")
	}
	b, err := os.ReadFile(filepath.Join(v.Root(), "a.md"))
	if err != nil {
		t.Fatalf("note not written: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("note content: %q", string(b))
	}
}

func TestRunner_ToolExec_JSONL_Success(t *testing.T) {
	dir := stateDirForTest(t)
	t.Setenv("VGT_OBSERVE_JSON", "1")
	v := newTestVault(t)

	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "t1", "name": "list_notes", "input": {"directory": ""}}
		]
	}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(v))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("please list notes"))}

	_, _, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	lines := readEventLines(t, dir)
	if len(lines) < 2 { // turn_started + tool_exec
		t.Fatalf("expected at least 2 events, got %d", len(lines))
	}

	var started, exec map[string]any
	for _, line := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		switch m["event"] {
		case "turn_started":
			started = m
		case "tool_exec":
			exec = m
		}
	}
	if started == nil || exec == nil {
		t.Fatal("missing turn_started or tool_exec event")
	}
	if exec["tool_name"] != "list_notes" {
		t.Errorf("tool_name: want list_notes, got %v", exec["tool_name"])
	}
	if v, ok := exec["duration_ms"].(float64); !ok || v < 0 {
		t.Errorf("duration_ms should be >= 0, got %v", exec["duration_ms"])
	}
	if v, ok := exec["output_size"].(float64); !ok || v <= 0 {
		t.Errorf("output_size should be > 0, got %v", exec["output_size"])
	}
	if _, ok := exec["error"]; !ok {
		t.Errorf("missing error field")
	} else if exec["error"] != nil {
		t.Errorf("error should be null on success, got %v", exec["error"])
	}
	if exec["turn_id"] != started["turn_id"] {
		t.Errorf("turn_id mismatch: %v vs %v", exec["turn_id"], started["turn_id"])
	}
}

func TestRunner_ToolExec_JSONL_HandlerError(t *testing.T) {
	dir := stateDirForTest(t)
	t.Setenv("VGT_OBSERVE_JSON", "1")
	v := newTestVault(t)

	// Existing note + overwrite=false forces a denial inside the tool.
	if _, err := v.Write(vault.WriteRequest{Filename: "a.md", Content: []byte("x")}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "e1", "name": "write_note", "input": {"filename": "a.md", "content": "y"}}
		]
	}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(v))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("overwrite a note"))}

	_, toolResults, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(toolResults) == 0 {
		t.Fatal("expected a tool_result carrying the denial")
	}

	var exec map[string]any
	for _, line := range readEventLines(t, dir) {
		var m map[string]any
		_ = json.Unmarshal([]byte(line), &m)
		if m["event"] == "tool_exec" {
			exec = m
		}
	}
	if exec == nil {
		t.Fatal("no tool_exec event found")
	}
	if exec["error"] == nil || exec["error"].(string) == "" {
		t.Errorf("expected non-empty error string, got %v", exec["error"])
	}
	if v, ok := exec["output_size"].(float64); !ok || v != 0 {
		t.Errorf("output_size should be 0 on error, got %v", exec["output_size"])
	}
}

func TestRunner_ToolExec_ToolNotFound(t *testing.T) {
	dir := stateDirForTest(t)
	t.Setenv("VGT_OBSERVE_JSON", "1")

	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "nf1", "name": "does_not_exist", "input": {"a": 1}}
		]
	}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, []tools.ToolDefinition{})
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("call missing"))}

	_, toolResults, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(toolResults) == 0 {
		t.Fatal("expected an error tool_result")
	}

	var exec map[string]any
	for _, line := range readEventLines(t, dir) {
		var m map[string]any
		_ = json.Unmarshal([]byte(line), &m)
		if m["event"] == "tool_exec" {
			exec = m
		}
	}
	if exec == nil {
		t.Fatal("no tool_exec event found")
	}
	if exec["error"] == nil || exec["error"].(string) == "" {
		t.Errorf("expected non-empty error string for not found, got %v", exec["error"])
	}
}

func TestRunner_TurnID_Propagation(t *testing.T) {
	dir := stateDirForTest(t)
	t.Setenv("VGT_OBSERVE_JSON", "1")
	v := newTestVault(t)

	resp := `{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"list_notes","input":{}}]}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(v))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("list"))}

	ctx := telemetry.WithTurnID(context.Background(), "turn-xyz")
	_, _, err := r.RunOneStep(ctx, provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, line := range readEventLines(t, dir) {
		var m map[string]any
		_ = json.Unmarshal([]byte(line), &m)
		if m["turn_id"] != "turn-xyz" {
			t.Errorf("event %v: turn_id = %v", m["event"], m["turn_id"])
		}
	}
}

func TestRunner_Privacy_NoteContentNeverInTelemetry(t *testing.T) {
	dir := stateDirForTest(t)
	t.Setenv("VGT_OBSERVE_JSON", "1")
	v := newTestVault(t)

	secret := "__SECRET_NEVER_APPEAR__"
	resp := `{
		"role": "assistant",
		"content": [
			{"type": "tool_use", "id": "t1", "name": "write_note", "input": {"filename": "s.md", "content": "` + secret + `"}}
		]
	}`
	fake := &fakeTransport{respStatus: 200, respBody: []byte(resp), captured: &capture{}}
	cli := newClientWithTransport(fake)
	r := runner.New(cli, tools.Registry(v))
	conv := []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("write"))}

	_, _, err := r.RunOneStep(context.Background(), provider.DefaultModel, conv)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, line := range readEventLines(t, dir) {
		if strings.Contains(line, secret) {
			t.Fatalf("note content leaked into telemetry: %q", line)
		}
	}
}
