package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of every session transcript file.
const Ext = ".jsonl"

// FileInfo describes one session file found by SessionFiles.
type FileInfo struct {
	Path  string
	Name  string // base name without extension
	Mtime int64  // unix nanoseconds
	Size  int64
}

// ProjectDirs returns the immediate subdirectories of root sorted by
// name. A missing root yields no directories and no error.
func ProjectDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// IsProjectDir reports whether name can only denote a directory
// directly under the projects root: not empty, not "." or "..", and
// without a path separator.
func IsProjectDir(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// SessionFiles lists the session files directly inside dir, newest
// first. Files with equal mtime are ordered by name.
func SessionFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Path:  filepath.Join(dir, e.Name()),
			Name:  strings.TrimSuffix(e.Name(), Ext),
			Mtime: info.ModTime().UnixNano(),
			Size:  info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// SessionNames returns the base names of the session files in dir in
// lexicographic order.
func SessionNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a session file and then any directory next to it
// that shares its base name. It reports whether the file existed.
func Remove(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	companion := strings.TrimSuffix(path, filepath.Ext(path))
	if info, err := os.Stat(companion); err == nil && info.IsDir() {
		if err := os.RemoveAll(companion); err != nil {
			return true, err
		}
	}
	return true, nil
}
