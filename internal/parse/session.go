package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/claude-chat/internal/scan"
	"github.com/tidwall/gjson"
)

// Record discriminators. Family A (transcripts written by Claude Code)
// uses user/assistant; Family B (Codex-style agent transcripts) uses
// the remaining three.
const (
	typeUser        = "user"
	typeAssistant   = "assistant"
	typeSessionMeta = "session_meta"
	typeTurnContext = "turn_context"
	typeEventMsg    = "event_msg"
)

// Family B event_msg payload types.
const (
	eventUserMessage  = "user_message"
	eventAgentMessage = "agent_message"
	eventTokenCount   = "token_count"
)

// Builder accumulates normalized records from transcript lines fed in
// file order. It performs no I/O, so identical input produces
// identical output.
type Builder struct {
	sess      Session
	lineNo    int
	seenUsage map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{seenUsage: make(map[string]bool)}
}

// Line normalizes a single raw line. Lines that are not valid JSON or
// carry an unknown discriminator are ignored.
func (b *Builder) Line(line string) {
	b.lineNo++
	if !gjson.Valid(line) {
		return
	}
	rec := gjson.Parse(line)
	if !rec.IsObject() {
		return
	}

	switch typ := rec.Get("type").Str; typ {
	case typeUser, typeAssistant:
		b.transcriptLine(rec, typ)
	case typeSessionMeta:
		b.sessionMeta(rec.Get("payload"))
	case typeTurnContext:
		if b.sess.Model == "" {
			b.sess.Model = rec.Get("payload.model").Str
		}
	case typeEventMsg:
		b.eventMsg(rec)
	}
}

// Session returns what has been accumulated so far.
func (b *Builder) Session() *Session {
	s := b.sess
	return &s
}

func (b *Builder) transcriptLine(rec gjson.Result, typ string) {
	if b.sess.Slug == "" {
		b.sess.Slug = rec.Get("slug").Str
	}
	if b.sess.Cwd == "" {
		b.sess.Cwd = rec.Get("cwd").Str
	}

	msg := rec.Get("message")
	role := msg.Get("role").Str
	if role == "" {
		role = typ
	}
	ts := timeValue(rec.Get("timestamp"))

	if typ == typeAssistant {
		model := msg.Get("model").Str
		if b.sess.Model == "" {
			b.sess.Model = model
		}
		if usage := msg.Get("usage"); usage.IsObject() {
			b.claudeUsage(msg.Get("id").Str, model, usage, ts)
		}
	}

	text := FlattenContent(msg.Get("content"))
	if isBlank(text) {
		return
	}

	id := rec.Get("uuid").Str
	if id == "" {
		id = b.lineID()
	}
	b.sess.Messages = append(b.sess.Messages, Message{
		ID:        id,
		Role:      Role(role),
		Content:   text,
		Timestamp: ts,
	})
}

// claudeUsage records one usage event per assistant turn. Claude Code
// writes one line per content block of a turn, each repeating the
// turn's usage under the same message id.
func (b *Builder) claudeUsage(msgID, model string, usage gjson.Result, ts time.Time) {
	if msgID != "" {
		if b.seenUsage[msgID] {
			return
		}
		b.seenUsage[msgID] = true
	}
	if model == "" {
		model = b.sess.Model
	}
	b.sess.Usage = append(b.sess.Usage, UsageEvent{
		Model:     model,
		Timestamp: ts,
		Usage: TokenUsage{
			Input:         usage.Get("input_tokens").Int(),
			Output:        usage.Get("output_tokens").Int(),
			CacheCreation: usage.Get("cache_creation_input_tokens").Int(),
			CacheRead:     usage.Get("cache_read_input_tokens").Int(),
		},
	})
}

func (b *Builder) sessionMeta(payload gjson.Result) {
	if b.sess.SourceID == "" {
		b.sess.SourceID = payload.Get("id").Str
	}
	if b.sess.Cwd == "" {
		b.sess.Cwd = payload.Get("cwd").Str
	}
}

func (b *Builder) eventMsg(rec gjson.Result) {
	payload := rec.Get("payload")
	ts := timeValue(rec.Get("timestamp"))

	var role Role
	switch payload.Get("type").Str {
	case eventUserMessage:
		role = RoleUser
	case eventAgentMessage:
		role = RoleAssistant
	case eventTokenCount:
		last := payload.Get("info.last_token_usage")
		if !last.IsObject() {
			return
		}
		b.sess.Usage = append(b.sess.Usage, UsageEvent{
			Model:     b.sess.Model,
			Timestamp: ts,
			Usage: TokenUsage{
				Input:     last.Get("input_tokens").Int(),
				Output:    last.Get("output_tokens").Int(),
				CacheRead: last.Get("cached_input_tokens").Int(),
			},
		})
		return
	default:
		return
	}

	text := payload.Get("message").Str
	if isBlank(text) {
		return
	}
	b.sess.Messages = append(b.sess.Messages, Message{
		ID:        b.lineID(),
		Role:      role,
		Content:   text,
		Timestamp: ts,
	})
}

func (b *Builder) lineID() string {
	return fmt.Sprintf("line-%d", b.lineNo)
}

// ParseFile normalizes a whole transcript file.
func ParseFile(path string) (*Session, error) {
	b := NewBuilder()
	err := scan.Lines(path, func(line string) error {
		b.Line(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.Session(), nil
}

// ParseString normalizes in-memory transcript content.
func ParseString(content string) *Session {
	b := NewBuilder()
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if isBlank(line) {
			continue
		}
		b.Line(line)
	}
	return b.Session()
}
