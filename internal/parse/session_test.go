package parse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/claude-chat/internal/testjsonl"
)

const (
	ts0 = "2024-01-01T10:00:00Z"
	ts1 = "2024-01-01T10:00:05Z"
	ts2 = "2024-01-01T10:00:10Z"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "s.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_ClaudeBasic(t *testing.T) {
	content := testjsonl.JoinJSONL(
		testjsonl.ClaudeUserWithMetaJSON("u1", "Fix the login bug", ts0, "brave-fox", "/work/app"),
		testjsonl.ClaudeAssistantJSON("a1", []any{testjsonl.TextBlock("Looking now")}, "claude-sonnet-4", ts1),
		testjsonl.ClaudeUserWithMetaJSON("u2", "thanks", ts2, "other-slug", "/elsewhere"),
	)
	sess := ParseString(content)

	assert.Equal(t, "brave-fox", sess.Slug)
	assert.Equal(t, "/work/app", sess.Cwd)
	assert.Equal(t, "claude-sonnet-4", sess.Model)
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, Message{ID: "u1", Role: RoleUser, Content: "Fix the login bug", Timestamp: mustTime(ts0)}, sess.Messages[0])
	assert.Equal(t, RoleAssistant, sess.Messages[1].Role)
	assert.Equal(t, "Looking now", sess.Messages[1].Content)
	assert.Equal(t, "thanks", sess.Messages[2].Content)
}

func TestParse_TextBlocksOnly(t *testing.T) {
	line := `{"type":"assistant","uuid":"a1","message":{"role":"assistant","content":[{"type":"text","text":"hi"},{"type":"image","source":{"data":"xx"}}]}}`
	sess := ParseString(line)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "hi", sess.Messages[0].Content)
}

func TestParse_MultipleTextBlocksJoined(t *testing.T) {
	sess := ParseString(testjsonl.ClaudeAssistantJSON("a1", []any{
		testjsonl.TextBlock("one"),
		testjsonl.ToolUseBlock("Bash"),
		testjsonl.TextBlock("two"),
	}, "m", ts0))
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "one\ntwo", sess.Messages[0].Content)
}

func TestParse_SkipsBlankAndMalformed(t *testing.T) {
	content := "not json\n" +
		testjsonl.ClaudeUserJSON("u0", "", ts0) + "\n" +
		testjsonl.ClaudeUserJSON("u1", "   \n\t", ts0) + "\n" +
		"[1,2,3]\n" +
		`{"type":"summary","summary":"ignored"}` + "\n" +
		`{"type":"file-history-snapshot"}` + "\n" +
		testjsonl.ClaudeAssistantJSON("a0", []any{testjsonl.ToolUseBlock("Read")}, "m1", ts1) + "\n" +
		testjsonl.ClaudeUserJSON("u2", "real", ts2) + "\n" +
		`{"type":"user","message":` + "\n"

	sess := ParseString(content)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "u2", sess.Messages[0].ID)
	assert.Equal(t, "m1", sess.Model, "model comes from the first assistant line even without text")
}

func TestParse_RoleFallsBackToType(t *testing.T) {
	sess := ParseString(`{"type":"user","message":{"content":"hello"}}`)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, RoleUser, sess.Messages[0].Role)
	assert.Equal(t, "line-1", sess.Messages[0].ID)
}

func TestParse_ClaudeUsage(t *testing.T) {
	content := testjsonl.JoinJSONL(
		testjsonl.ClaudeUserJSON("u1", "go", ts0),
		testjsonl.ClaudeAssistantUsageJSON("a1", "msg_1", []any{testjsonl.TextBlock("part one")}, "claude-opus-4", ts1, 100, 50),
		testjsonl.ClaudeAssistantUsageJSON("a2", "msg_1", []any{testjsonl.ToolUseBlock("Bash")}, "claude-opus-4", ts1, 100, 50),
		testjsonl.ClaudeAssistantUsageJSON("a3", "msg_2", "done", "claude-haiku", ts2, 10, 5),
		testjsonl.ClaudeAssistantJSON("a4", "no usage here", "claude-haiku", ts2),
	)
	sess := ParseString(content)

	want := []UsageEvent{
		{Model: "claude-opus-4", Timestamp: mustTime(ts1), Usage: TokenUsage{Input: 100, Output: 50}},
		{Model: "claude-haiku", Timestamp: mustTime(ts2), Usage: TokenUsage{Input: 10, Output: 5}},
	}
	if diff := cmp.Diff(want, sess.Usage); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_CodexFamily(t *testing.T) {
	content := testjsonl.JoinJSONL(
		testjsonl.CodexSessionMetaJSON("019bf9a3", "/work/codex", ts0),
		testjsonl.CodexTurnContextJSON("gpt-5-codex", ts0),
		testjsonl.CodexTurnContextJSON("gpt-other", ts0),
		testjsonl.CodexEventJSON("user_message", "refactor the parser", ts1),
		testjsonl.CodexEventJSON("agent_reasoning", "thinking...", ts1),
		testjsonl.CodexEventJSON("agent_message", "Done.", ts2),
		testjsonl.CodexEventJSON("agent_message", "  ", ts2),
		testjsonl.CodexTokenCountJSON(1200, 200, 300, ts2),
		`{"type":"event_msg","timestamp":"`+ts2+`","payload":{"type":"token_count","info":null}}`,
		`{"type":"response_item","payload":{"type":"message","role":"assistant"}}`,
	)
	sess := ParseString(content)

	assert.Equal(t, "019bf9a3", sess.SourceID)
	assert.Equal(t, "/work/codex", sess.Cwd)
	assert.Equal(t, "gpt-5-codex", sess.Model)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, Message{ID: "line-4", Role: RoleUser, Content: "refactor the parser", Timestamp: mustTime(ts1)}, sess.Messages[0])
	assert.Equal(t, Message{ID: "line-6", Role: RoleAssistant, Content: "Done.", Timestamp: mustTime(ts2)}, sess.Messages[1])
	require.Len(t, sess.Usage, 1)
	assert.Equal(t, TokenUsage{Input: 1200, Output: 300, CacheRead: 200}, sess.Usage[0].Usage)
	assert.Equal(t, "gpt-5-codex", sess.Usage[0].Model)
}

func TestParseFile_Deterministic(t *testing.T) {
	path := writeFile(t, testjsonl.JoinJSONL(
		testjsonl.ClaudeUserJSON("u1", "hello", ts0),
		"garbage",
		testjsonl.ClaudeAssistantUsageJSON("a1", "m1", "hi", "model-x", ts1, 3, 4),
	))

	first, err := ParseFile(path)
	require.NoError(t, err)
	second, err := ParseFile(path)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parse not deterministic (-first +second):\n%s", diff)
	}
	assert.Len(t, first.Messages, 2)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "gone.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_PreservesOrder(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, testjsonl.ClaudeUserJSON("u", string(rune('a'+i)), ts0))
	}
	sess := ParseString(testjsonl.JoinJSONL(lines...))
	require.Len(t, sess.Messages, 20)
	for i, m := range sess.Messages {
		assert.Equal(t, string(rune('a'+i)), m.Content)
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}
