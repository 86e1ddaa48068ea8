package parse

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseHistoryLine decodes one line of the history log. Claude Code
// writes {sessionId, project, display, timestamp(ms)}; Codex writes
// {session_id, text, ts(s)}. Fields of either spelling are accepted.
func ParseHistoryLine(line string) (HistoryEntry, bool) {
	if !gjson.Valid(line) {
		return HistoryEntry{}, false
	}
	rec := gjson.Parse(line)
	if !rec.IsObject() {
		return HistoryEntry{}, false
	}

	e := HistoryEntry{
		SessionID: firstString(rec, "sessionId", "session_id"),
		Project:   firstString(rec, "project", "cwd"),
		Display:   firstString(rec, "display", "text"),
		Timestamp: timeValue(rec.Get("timestamp")),
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = timeValue(rec.Get("ts"))
	}
	return e, true
}

// IsTitleCandidate reports whether a history display string can serve
// as a session title: non-empty and not a slash command.
func IsTitleCandidate(display string) bool {
	return display != "" && !strings.HasPrefix(display, "/")
}

// Activity converts a history entry into an activity event. It
// reports false for entries without a timestamp.
func (e HistoryEntry) Activity() (ActivityEvent, bool) {
	if e.Timestamp.IsZero() {
		return ActivityEvent{}, false
	}
	return ActivityEvent{
		SessionID: e.SessionID,
		Project:   e.Project,
		Timestamp: e.Timestamp,
		Hour:      e.Timestamp.Hour(),
		Date:      e.Timestamp.Format(DateLayout),
	}, true
}

func firstString(rec gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := rec.Get(k); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
