package parse

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one user or assistant turn with its text flattened.
// Messages whose text is blank are never produced.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// SessionMeta describes one session file. Slug, Cwd and MessageCount
// are only filled when the file has been parsed in full.
type SessionMeta struct {
	SessionID    string    `json:"session_id"`
	ProjectDir   string    `json:"project_dirname"`
	Project      string    `json:"project"`
	Model        string    `json:"model,omitempty"`
	Title        string    `json:"title"`
	Modified     time.Time `json:"modified"`
	Size         int64     `json:"size_bytes"`
	FilePath     string    `json:"file_path"`
	Slug         string    `json:"slug,omitempty"`
	Cwd          string    `json:"cwd,omitempty"`
	MessageCount int       `json:"message_count,omitempty"`
}

// TokenUsage holds the token counts reported for one turn.
type TokenUsage struct {
	Input         int64 `json:"input_tokens"`
	Output        int64 `json:"output_tokens"`
	CacheCreation int64 `json:"cache_creation_tokens"`
	CacheRead     int64 `json:"cache_read_tokens"`
}

func (u TokenUsage) Total() int64 { return u.Input + u.Output }

// UsageEvent is the token accounting of a single assistant turn.
type UsageEvent struct {
	SessionID  string     `json:"session_id"`
	Project    string     `json:"project"`
	ProjectDir string     `json:"project_dirname"`
	Model      string     `json:"model"`
	Timestamp  time.Time  `json:"timestamp,omitzero"`
	Usage      TokenUsage `json:"usage"`
}

// Date is the calendar day of the event as written in the log, or ""
// when the turn carried no timestamp.
func (e UsageEvent) Date() string {
	if e.Timestamp.IsZero() {
		return ""
	}
	return e.Timestamp.Format(DateLayout)
}

// ActivityEvent is one timestamped user interaction from the history
// log.
type ActivityEvent struct {
	SessionID string    `json:"session_id"`
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
	Hour      int       `json:"hour"`
	Date      string    `json:"date"`
}

// Session is the full normalized content of one transcript file.
type Session struct {
	Slug     string
	Cwd      string
	Model    string
	SourceID string // id announced inside the file, if any
	Messages []Message
	Usage    []UsageEvent
}

// HistoryEntry is one line of the history log.
type HistoryEntry struct {
	SessionID string
	Project   string
	Display   string
	Timestamp time.Time
}
