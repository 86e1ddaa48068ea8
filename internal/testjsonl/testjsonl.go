// Package testjsonl provides shared JSONL fixture builders for
// transcript and history test data, plus helpers that lay them out
// on disk the way Claude Code does.
package testjsonl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// ClaudeUserJSON returns a Claude user line with string content.
func ClaudeUserJSON(uuid, content, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"uuid":      uuid,
		"timestamp": timestamp,
		"message": map[string]any{
			"role":    "user",
			"content": content,
		},
	})
}

// ClaudeUserWithMetaJSON returns a Claude user line carrying the
// session-level slug and cwd fields.
func ClaudeUserWithMetaJSON(uuid, content, timestamp, slug, cwd string) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"uuid":      uuid,
		"timestamp": timestamp,
		"slug":      slug,
		"cwd":       cwd,
		"message": map[string]any{
			"role":    "user",
			"content": content,
		},
	})
}

// ClaudeAssistantJSON returns a Claude assistant line. content may be
// a string or a slice of blocks.
func ClaudeAssistantJSON(uuid string, content any, model, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "assistant",
		"uuid":      uuid,
		"timestamp": timestamp,
		"message": map[string]any{
			"role":    "assistant",
			"model":   model,
			"content": content,
		},
	})
}

// ClaudeAssistantUsageJSON returns a Claude assistant line with a
// usage block.
func ClaudeAssistantUsageJSON(
	uuid, msgID string, content any, model, timestamp string,
	input, output int64,
) string {
	return mustMarshal(map[string]any{
		"type":      "assistant",
		"uuid":      uuid,
		"timestamp": timestamp,
		"message": map[string]any{
			"id":      msgID,
			"role":    "assistant",
			"model":   model,
			"content": content,
			"usage": map[string]any{
				"input_tokens":                input,
				"output_tokens":               output,
				"cache_creation_input_tokens": 0,
				"cache_read_input_tokens":     0,
			},
		},
	})
}

// TextBlock returns a "text" content block.
func TextBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

// ToolUseBlock returns a "tool_use" content block.
func ToolUseBlock(name string) map[string]any {
	return map[string]any{"type": "tool_use", "id": "toolu_1", "name": name, "input": map[string]any{}}
}

// CodexSessionMetaJSON returns a Codex session_meta line.
func CodexSessionMetaJSON(id, cwd, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "session_meta",
		"timestamp": timestamp,
		"payload": map[string]any{
			"id":  id,
			"cwd": cwd,
		},
	})
}

// CodexTurnContextJSON returns a Codex turn_context line.
func CodexTurnContextJSON(model, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "turn_context",
		"timestamp": timestamp,
		"payload":   map[string]any{"model": model},
	})
}

// CodexEventJSON returns a Codex event_msg line of the given payload
// type (user_message or agent_message).
func CodexEventJSON(payloadType, message, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "event_msg",
		"timestamp": timestamp,
		"payload": map[string]any{
			"type":    payloadType,
			"message": message,
		},
	})
}

// CodexTokenCountJSON returns a Codex token_count event line.
func CodexTokenCountJSON(input, cached, output int64, timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "event_msg",
		"timestamp": timestamp,
		"payload": map[string]any{
			"type": "token_count",
			"info": map[string]any{
				"last_token_usage": map[string]any{
					"input_tokens":        input,
					"cached_input_tokens": cached,
					"output_tokens":       output,
				},
			},
		},
	})
}

// HistoryJSON returns a Claude history line with an epoch-millisecond
// timestamp.
func HistoryJSON(sessionID, project, display string, ts time.Time) string {
	return mustMarshal(map[string]any{
		"sessionId": sessionID,
		"project":   project,
		"display":   display,
		"timestamp": ts.UnixMilli(),
	})
}

// CodexHistoryJSON returns a Codex history line with an ISO-8601
// timestamp.
func CodexHistoryJSON(sessionID, text, timestamp string) string {
	return mustMarshal(map[string]any{
		"session_id": sessionID,
		"text":       text,
		"timestamp":  timestamp,
	})
}

// JoinJSONL joins lines with newlines and adds a trailing newline.
func JoinJSONL(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WriteSession writes <root>/<project>/<id>.jsonl and returns its path.
func WriteSession(tb testing.TB, root, project, id string, lines ...string) string {
	tb.Helper()
	dir := filepath.Join(root, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(path, []byte(JoinJSONL(lines...)), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SetMtime sets both access and modification time of path.
func SetMtime(tb testing.TB, path string, t time.Time) {
	tb.Helper()
	if err := os.Chtimes(path, t, t); err != nil {
		tb.Fatalf("chtimes %s: %v", path, err)
	}
}

// WriteHistory writes the history log at path.
func WriteHistory(tb testing.TB, path string, lines ...string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(JoinJSONL(lines...)), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// Unreadable removes every permission bit from path for the rest of
// the test. The test is skipped where permissions are not enforced:
// on Windows and when running as root.
func Unreadable(tb testing.TB, path string) {
	tb.Helper()
	if runtime.GOOS == "windows" {
		tb.Skip("skipping: chmod semantics differ on Windows")
	}
	if os.Geteuid() == 0 {
		tb.Skip("skipping: running as root")
	}
	info, err := os.Stat(path)
	if err != nil {
		tb.Fatalf("stat %s: %v", path, err)
	}
	if err := os.Chmod(path, 0o000); err != nil {
		tb.Skipf("cannot remove permissions: %v", err)
	}
	tb.Cleanup(func() { os.Chmod(path, info.Mode().Perm()) })
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
