package sessions

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/claude-chat/internal/index"
	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

// TitleLen is the maximum number of runes taken from the first user
// message when it is used as a session title.
const TitleLen = 50

// Project is one directory under the projects root.
type Project struct {
	DirName      string `json:"dirname"`
	DisplayName  string `json:"display_name"`
	SessionCount int    `json:"session_count"`
	Path         string `json:"path"`
}

// Directory answers listing, lookup and deletion queries over the
// projects tree. Display names and titles come from the shared cache.
type Directory struct {
	root  string
	cache *index.Cache
}

func New(cache *index.Cache) *Directory {
	return &Directory{root: cache.ProjectsDir(), cache: cache}
}

func (d *Directory) Root() string { return d.root }

// ListProjects returns one entry per project directory, sorted by
// directory name.
func (d *Directory) ListProjects() ([]Project, error) {
	dirs, err := scan.ProjectDirs(d.root)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	mapping, err := d.cache.SessionProjects()
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(dirs))
	for _, dir := range dirs {
		path := filepath.Join(d.root, dir)
		names, err := scan.SessionNames(path)
		if err != nil {
			slog.Warn("skipping project directory", "dir", dir, "err", err)
			continue
		}
		projects = append(projects, Project{
			DirName:      dir,
			DisplayName:  displayName(dir, names, mapping),
			SessionCount: len(names),
			Path:         path,
		})
	}
	return projects, nil
}

// ListSessions lists the sessions of one project directory, or of all
// of them when projectDir is empty. Sessions are newest first within
// each directory; directories follow name order. A projectDir that
// cannot name a directory under the root lists nothing.
func (d *Directory) ListSessions(projectDir string) ([]parse.SessionMeta, error) {
	dirs := []string{projectDir}
	if projectDir != "" && !scan.IsProjectDir(projectDir) {
		return nil, nil
	}
	if projectDir == "" {
		var err error
		if dirs, err = scan.ProjectDirs(d.root); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
	}
	mapping, err := d.cache.SessionProjects()
	if err != nil {
		return nil, err
	}
	firsts, err := d.cache.FirstMessages()
	if err != nil {
		return nil, err
	}

	var out []parse.SessionMeta
	for _, dir := range dirs {
		files, err := scan.SessionFiles(filepath.Join(d.root, dir))
		if err != nil {
			slog.Warn("skipping project directory", "dir", dir, "err", err)
			continue
		}
		for _, f := range files {
			out = append(out, parse.SessionMeta{
				SessionID:  f.Name,
				ProjectDir: dir,
				Project:    projectName(dir, f.Name, mapping),
				Title:      Title(firsts[f.Name], f.Name),
				Modified:   time.Unix(0, f.Mtime),
				Size:       f.Size,
				FilePath:   f.Path,
			})
		}
	}
	return out, nil
}

// Title returns the first message cut to TitleLen runes, or the
// short form of id when there is no message.
func Title(firstMessage, id string) string {
	if firstMessage == "" {
		return ShortID(id)
	}
	if utf8.RuneCountInString(firstMessage) <= TitleLen {
		return firstMessage
	}
	return string([]rune(firstMessage)[:TitleLen])
}

// ShortID returns the first 8 characters of a session id.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func projectName(dir, id string, mapping map[string]string) string {
	if p := mapping[id]; p != "" {
		return p
	}
	return dir
}

// displayName picks the mapped path of the first session, in name
// order, that the history log knows about.
func displayName(dir string, names []string, mapping map[string]string) string {
	for _, n := range names {
		if p := mapping[n]; p != "" {
			return p
		}
	}
	return dir
}
