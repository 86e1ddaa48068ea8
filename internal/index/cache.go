package index

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

// Kind names one of the memoized mappings.
type Kind string

const (
	KindProjects      Kind = "session-projects"
	KindFirstMessages Kind = "first-messages"
	KindUsage         Kind = "usage"
	KindActivity      Kind = "activity"
)

// AllKinds lists every mapping in build-dependency order.
var AllKinds = []Kind{KindProjects, KindFirstMessages, KindUsage, KindActivity}

// Cache memoizes the mappings derived from the history log and the
// session tree. Each mapping is built by a full scan on first access
// and kept until Invalidate. It is safe for concurrent use.
type Cache struct {
	projectsDir string
	historyFile string

	group     singleflight.Group
	projects  lazy[map[string]string]
	firstMsgs lazy[map[string]string]
	usage     lazy[[]parse.UsageEvent]
	activity  lazy[[]parse.ActivityEvent]

	onBuild func(Kind) // test hook
}

func New(projectsDir, historyFile string) *Cache {
	return &Cache{projectsDir: projectsDir, historyFile: historyFile}
}

func (c *Cache) ProjectsDir() string { return c.projectsDir }
func (c *Cache) HistoryFile() string { return c.historyFile }

// SessionProjects maps session id to the real project path recorded
// in the history log. The first pair seen for an id wins.
func (c *Cache) SessionProjects() (map[string]string, error) {
	return c.projects.get(&c.group, string(KindProjects), func() (map[string]string, error) {
		c.built(KindProjects)
		m := make(map[string]string)
		err := c.eachHistory(func(e parse.HistoryEntry) {
			if e.SessionID == "" || e.Project == "" {
				return
			}
			if _, ok := m[e.SessionID]; !ok {
				m[e.SessionID] = e.Project
			}
		})
		return m, err
	})
}

// FirstMessages maps session id to the first non-command prompt the
// user typed in it.
func (c *Cache) FirstMessages() (map[string]string, error) {
	return c.firstMsgs.get(&c.group, string(KindFirstMessages), func() (map[string]string, error) {
		c.built(KindFirstMessages)
		m := make(map[string]string)
		err := c.eachHistory(func(e parse.HistoryEntry) {
			if e.SessionID == "" || !parse.IsTitleCandidate(e.Display) {
				return
			}
			if _, ok := m[e.SessionID]; !ok {
				m[e.SessionID] = e.Display
			}
		})
		return m, err
	})
}

// UsageEvents returns every usage event of every session file, in
// project-directory order, then file order, then line order.
func (c *Cache) UsageEvents() ([]parse.UsageEvent, error) {
	return c.usage.get(&c.group, string(KindUsage), func() ([]parse.UsageEvent, error) {
		c.built(KindUsage)
		projects, err := c.SessionProjects()
		if err != nil {
			return nil, err
		}
		dirs, err := scan.ProjectDirs(c.projectsDir)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}

		var events []parse.UsageEvent
		for _, dir := range dirs {
			files, err := scan.SessionFiles(filepath.Join(c.projectsDir, dir))
			if err != nil {
				slog.Warn("skipping project directory", "dir", dir, "err", err)
				continue
			}
			for _, f := range files {
				sess, err := parse.ParseFile(f.Path)
				if err != nil {
					if !errors.Is(err, fs.ErrNotExist) {
						slog.Warn("skipping session file", "path", f.Path, "err", err)
					}
					continue
				}
				project := projects[f.Name]
				if project == "" {
					project = dir
				}
				for _, u := range sess.Usage {
					u.SessionID = f.Name
					u.Project = project
					u.ProjectDir = dir
					if u.Model == "" {
						u.Model = sess.Model
					}
					events = append(events, u)
				}
			}
		}
		slog.Debug("usage index built", "events", len(events), "projects", len(dirs))
		return events, nil
	})
}

// ActivityEvents returns one event per timestamped history line, in
// file order.
func (c *Cache) ActivityEvents() ([]parse.ActivityEvent, error) {
	return c.activity.get(&c.group, string(KindActivity), func() ([]parse.ActivityEvent, error) {
		c.built(KindActivity)
		var events []parse.ActivityEvent
		err := c.eachHistory(func(e parse.HistoryEntry) {
			if a, ok := e.Activity(); ok {
				events = append(events, a)
			}
		})
		return events, err
	})
}

// Invalidate discards the given mappings, or all of them when none
// are named. The next access rebuilds from the files.
func (c *Cache) Invalidate(kinds ...Kind) {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	for _, k := range kinds {
		switch k {
		case KindProjects:
			c.projects.reset()
		case KindFirstMessages:
			c.firstMsgs.reset()
		case KindUsage:
			c.usage.reset()
		case KindActivity:
			c.activity.reset()
		}
	}
}

// Built reports which mappings currently hold a value.
func (c *Cache) Built() map[Kind]bool {
	return map[Kind]bool{
		KindProjects:      c.projects.isBuilt(),
		KindFirstMessages: c.firstMsgs.isBuilt(),
		KindUsage:         c.usage.isBuilt(),
		KindActivity:      c.activity.isBuilt(),
	}
}

// eachHistory streams the history log. A missing log is not an error.
func (c *Cache) eachHistory(fn func(parse.HistoryEntry)) error {
	if c.historyFile == "" {
		return nil
	}
	skipped := 0
	err := scan.Lines(c.historyFile, func(line string) error {
		e, ok := parse.ParseHistoryLine(line)
		if !ok {
			skipped++
			return nil
		}
		fn(e)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if skipped > 0 {
		slog.Debug("skipped malformed history lines", "file", c.historyFile, "count", skipped)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return nil
}

func (c *Cache) built(k Kind) {
	if c.onBuild != nil {
		c.onBuild(k)
	}
}
