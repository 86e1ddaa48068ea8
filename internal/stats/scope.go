package stats

import (
	"github.com/samber/lo"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
)

// Scope narrows analytics to one session or one project directory.
// The zero Scope covers everything.
type Scope struct {
	ProjectDir string
	SessionID  string
}

func (s Scope) IsZero() bool { return s.ProjectDir == "" && s.SessionID == "" }

// Filter applies scope to both series. A session scope wins over a
// project scope. Activity carries no directory name, so for a project
// scope it is matched by the session ids and project paths of the
// usage events that were kept.
func Filter(usage []parse.UsageEvent, activity []parse.ActivityEvent, scope Scope) ([]parse.UsageEvent, []parse.ActivityEvent) {
	switch {
	case scope.SessionID != "":
		return lo.Filter(usage, func(e parse.UsageEvent, _ int) bool { return e.SessionID == scope.SessionID }),
			lo.Filter(activity, func(a parse.ActivityEvent, _ int) bool { return a.SessionID == scope.SessionID })
	case scope.ProjectDir != "":
		kept := lo.Filter(usage, func(e parse.UsageEvent, _ int) bool { return e.ProjectDir == scope.ProjectDir })
		ids := lo.SliceToMap(kept, func(e parse.UsageEvent) (string, bool) { return e.SessionID, true })
		projects := lo.SliceToMap(kept, func(e parse.UsageEvent) (string, bool) { return e.Project, true })
		return kept, lo.Filter(activity, func(a parse.ActivityEvent, _ int) bool {
			return ids[a.SessionID] || projects[a.Project]
		})
	default:
		return usage, activity
	}
}
