package app

import (
	"fmt"

	"github.com/Zuo-Peng/claude-chat/internal/config"
	"github.com/Zuo-Peng/claude-chat/internal/export"
	"github.com/Zuo-Peng/claude-chat/internal/index"
	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/search"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
	"github.com/Zuo-Peng/claude-chat/internal/stats"
)

// App bundles the query services. All of them share one index cache,
// so a Refresh is seen by every caller.
type App struct {
	Config   *config.Config
	Cache    *index.Cache
	Sessions *sessions.Directory
	Search   *search.Engine
}

func New(cfg *config.Config) *App {
	cache := index.New(cfg.ProjectsDir, cfg.HistoryFile)
	return &App{
		Config:   cfg,
		Cache:    cache,
		Sessions: sessions.New(cache),
		Search:   search.New(cache),
	}
}

// Refresh drops every cached mapping.
func (a *App) Refresh() { a.Cache.Invalidate() }

// Delete removes a session and refreshes the cache when it existed.
func (a *App) Delete(idOrPrefix string) (bool, error) {
	ok, err := a.Sessions.Delete(idOrPrefix)
	if ok {
		a.Refresh()
	}
	return ok, err
}

// DeleteProject removes a project directory and refreshes the cache.
func (a *App) DeleteProject(dir string) (int, error) {
	n, err := a.Sessions.DeleteProject(dir)
	if err == nil {
		a.Refresh()
	}
	return n, err
}

// Export writes one session as Markdown into dir, or the configured
// export directory when dir is empty. It returns "" when the session
// does not exist.
func (a *App) Export(idOrPrefix, dir string) (string, error) {
	det, err := a.Sessions.Detail(idOrPrefix)
	if err != nil || det == nil {
		return "", err
	}
	if dir == "" {
		dir = a.Config.ExportDir
	}
	return export.Write(dir, det)
}

// ExportProject exports every session of a project directory.
func (a *App) ExportProject(projectDir, dir string) ([]string, error) {
	list, err := a.Sessions.ListSessions(projectDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = a.Config.ExportDir
	}
	var paths []string
	for _, s := range list {
		det, err := a.Sessions.Load(&sessions.Location{
			ProjectDir: s.ProjectDir,
			SessionID:  s.SessionID,
			Path:       s.FilePath,
		})
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", s.SessionID, err)
		}
		if det == nil {
			continue
		}
		path, err := export.Write(dir, det)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Report is every analytics series for one scope.
type Report struct {
	Scope          stats.Scope       `json:"-"`
	Overview       stats.Summary     `json:"overview"`
	ByProject      []stats.Group     `json:"by_project"`
	ByModel        []stats.Group     `json:"by_model"`
	ByDate         []stats.Group     `json:"by_date"`
	Hourly         []stats.HourCount `json:"hourly"`
	ModelShare     []stats.Count     `json:"model_share"`
	SessionsPerDay []stats.Count     `json:"sessions_per_day"`
}

// Stats loads the usage and activity series, narrows them to scope
// and aggregates them.
func (a *App) Stats(scope stats.Scope) (*Report, error) {
	usage, activity, err := a.Events(scope)
	if err != nil {
		return nil, err
	}
	return &Report{
		Scope:          scope,
		Overview:       stats.Overview(usage),
		ByProject:      stats.ByKey(usage, stats.KeyProject),
		ByModel:        stats.ByKey(usage, stats.KeyModel),
		ByDate:         stats.ByDate(usage),
		Hourly:         stats.Hourly(activity),
		ModelShare:     stats.ModelShare(usage, 8),
		SessionsPerDay: stats.SessionsPerDay(usage, stats.RecentDays),
	}, nil
}

// Events returns the cached usage and activity series narrowed to
// scope. A session scope given as a prefix is resolved first.
func (a *App) Events(scope stats.Scope) ([]parse.UsageEvent, []parse.ActivityEvent, error) {
	if scope.SessionID != "" {
		loc, err := a.Sessions.Resolve(scope.SessionID)
		if err != nil {
			return nil, nil, err
		}
		if loc != nil {
			scope.SessionID = loc.SessionID
		}
	}
	usage, err := a.Cache.UsageEvents()
	if err != nil {
		return nil, nil, err
	}
	activity, err := a.Cache.ActivityEvents()
	if err != nil {
		return nil, nil, err
	}
	usage, activity = stats.Filter(usage, activity, scope)
	return usage, activity, nil
}
