package open

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/shlex"

	"github.com/Zuo-Peng/claude-chat/internal/scan"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

const defaultEditor = "less"

// Session opens the session matching idOrPrefix in $EDITOR. With a
// keyword the editor starts at the first line containing it. It
// reports false when no session matches.
func Session(dir *sessions.Directory, idOrPrefix, keyword string) (bool, error) {
	loc, err := dir.Resolve(idOrPrefix)
	if err != nil || loc == nil {
		return false, err
	}
	line := 1
	if keyword != "" {
		if n, err := FindLine(loc.Path, keyword); err == nil && n > 0 {
			line = n
		}
	}
	argv, err := Command(os.Getenv("EDITOR"), loc.Path, line)
	if err != nil {
		return true, err
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return true, cmd.Run()
}

// Command builds the editor invocation. editor may carry its own
// arguments ("code --wait"); it defaults to less.
func Command(editor, path string, line int) ([]string, error) {
	if strings.TrimSpace(editor) == "" {
		editor = defaultEditor
	}
	argv, err := shlex.Split(editor)
	if err != nil {
		return nil, fmt.Errorf("parse $EDITOR %q: %w", editor, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty $EDITOR")
	}

	switch name := filepath.Base(argv[0]); {
	case strings.Contains(name, "vim") || name == "vi" || name == "less" || name == "nano":
		argv = append(argv, "+"+strconv.Itoa(line), path)
	case name == "code" || name == "cursor":
		argv = append(argv, "--goto", path+":"+strconv.Itoa(line))
	default:
		argv = append(argv, path)
	}
	return argv, nil
}

// FindLine returns the 1-based number of the first line of path
// containing keyword, ignoring case, or 0. Blank lines are not
// counted.
func FindLine(path, keyword string) (int, error) {
	needle := strings.Map(unicode.ToLower, keyword)
	n, found := 0, 0
	err := scan.Lines(path, func(line string) error {
		n++
		if strings.Contains(strings.Map(unicode.ToLower, line), needle) {
			found = n
			return scan.Stop()
		}
		return nil
	})
	return found, err
}
