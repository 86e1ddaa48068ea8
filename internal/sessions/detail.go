package sessions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

// Location identifies one session file on disk.
type Location struct {
	ProjectDir string
	SessionID  string
	Path       string
}

type Detail struct {
	parse.SessionMeta
	Messages []parse.Message    `json:"messages"`
	Usage    []parse.UsageEvent `json:"-"`
}

// Resolve maps a full session id or a prefix of one to a file. An
// exact file name in any project wins. Otherwise the first prefix
// match is taken, visiting directories by name and files by name.
// It returns nil when nothing matches.
func (d *Directory) Resolve(idOrPrefix string) (*Location, error) {
	if idOrPrefix == "" || strings.ContainsAny(idOrPrefix, `/\`) {
		return nil, nil
	}
	dirs, err := scan.ProjectDirs(d.root)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	for _, dir := range dirs {
		path := filepath.Join(d.root, dir, idOrPrefix+scan.Ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return &Location{ProjectDir: dir, SessionID: idOrPrefix, Path: path}, nil
		}
	}

	for _, dir := range dirs {
		names, err := scan.SessionNames(filepath.Join(d.root, dir))
		if err != nil {
			slog.Warn("skipping project directory", "dir", dir, "err", err)
			continue
		}
		for _, n := range names {
			if strings.HasPrefix(n, idOrPrefix) {
				return &Location{
					ProjectDir: dir,
					SessionID:  n,
					Path:       filepath.Join(d.root, dir, n+scan.Ext),
				}, nil
			}
		}
	}
	return nil, nil
}

// Detail resolves idOrPrefix and parses the whole session. It returns
// nil when no session matches or the file vanished after resolution.
func (d *Directory) Detail(idOrPrefix string) (*Detail, error) {
	loc, err := d.Resolve(idOrPrefix)
	if err != nil || loc == nil {
		return nil, err
	}
	return d.Load(loc)
}

// Load parses the session at loc.
func (d *Directory) Load(loc *Location) (*Detail, error) {
	info, err := os.Stat(loc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat session: %w", err)
	}
	sess, err := parse.ParseFile(loc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse session %s: %w", loc.SessionID, err)
	}

	mapping, err := d.cache.SessionProjects()
	if err != nil {
		return nil, err
	}

	det := &Detail{
		SessionMeta: parse.SessionMeta{
			SessionID:    loc.SessionID,
			ProjectDir:   loc.ProjectDir,
			Project:      projectName(loc.ProjectDir, loc.SessionID, mapping),
			Model:        sess.Model,
			Modified:     info.ModTime().Truncate(time.Second),
			Size:         info.Size(),
			FilePath:     loc.Path,
			Slug:         sess.Slug,
			Cwd:          sess.Cwd,
			MessageCount: len(sess.Messages),
		},
		Messages: sess.Messages,
		Usage:    sess.Usage,
	}
	det.Title = detailTitle(det)
	return det, nil
}

// detailTitle prefers the slug, then the first user message.
func detailTitle(det *Detail) string {
	if det.Slug != "" {
		return det.Slug
	}
	for _, m := range det.Messages {
		if m.Role == parse.RoleUser {
			return Title(strings.TrimSpace(m.Content), det.SessionID)
		}
	}
	return ShortID(det.SessionID)
}
