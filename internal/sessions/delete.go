package sessions

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

// Delete removes the session matching idOrPrefix together with its
// companion directory. It reports false when nothing matched. The
// index cache is left alone; callers refresh it when they need to.
func (d *Directory) Delete(idOrPrefix string) (bool, error) {
	loc, err := d.Resolve(idOrPrefix)
	if err != nil || loc == nil {
		return false, err
	}
	ok, err := scan.Remove(loc.Path)
	if err != nil {
		return ok, fmt.Errorf("delete session %s: %w", loc.SessionID, err)
	}
	if ok {
		slog.Debug("deleted session", "id", loc.SessionID, "project", loc.ProjectDir)
	}
	return ok, nil
}

// DeleteProject removes every session of a project directory and
// then the directory itself. It returns the number of sessions
// removed; a missing directory removes nothing. Names that could reach
// outside the projects root are rejected.
func (d *Directory) DeleteProject(projectDir string) (int, error) {
	if !scan.IsProjectDir(projectDir) {
		return 0, fmt.Errorf("invalid project directory %q", projectDir)
	}
	path := filepath.Join(d.root, projectDir)
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("stat project %s: %w", projectDir, err)
	}
	if !info.IsDir() {
		return 0, nil
	}
	files, err := scan.SessionFiles(path)
	if err != nil {
		return 0, fmt.Errorf("list sessions in %s: %w", projectDir, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("delete project %s: %w", projectDir, err)
	}
	slog.Debug("deleted project", "dir", projectDir, "sessions", len(files))
	return len(files), nil
}
