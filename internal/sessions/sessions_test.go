package sessions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/claude-chat/internal/index"
	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/testjsonl"
)

type env struct {
	root    string
	history string
	dir     *Directory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	base := t.TempDir()
	e := &env{
		root:    filepath.Join(base, "projects"),
		history: filepath.Join(base, "history.jsonl"),
	}
	require.NoError(t, os.MkdirAll(e.root, 0o755))
	e.dir = New(index.New(e.root, e.history))
	return e
}

func (e *env) session(t *testing.T, project, id string, mtime time.Time, lines ...string) string {
	t.Helper()
	if len(lines) == 0 {
		lines = []string{testjsonl.ClaudeUserJSON("u1", "hello "+id, "2024-01-01T10:00:00Z")}
	}
	path := testjsonl.WriteSession(t, e.root, project, id, lines...)
	testjsonl.SetMtime(t, path, mtime)
	return path
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

func TestListProjects(t *testing.T) {
	e := newEnv(t)
	e.session(t, "-work-b", "b1", base)
	e.session(t, "-work-a", "a1", base)
	e.session(t, "-work-a", "a2", base)
	testjsonl.WriteHistory(t, e.history,
		testjsonl.HistoryJSON("a2", "/work/a", "hi", base),
	)

	projects, err := e.dir.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "-work-a", projects[0].DirName)
	assert.Equal(t, "/work/a", projects[0].DisplayName)
	assert.Equal(t, 2, projects[0].SessionCount)
	assert.Equal(t, "-work-b", projects[1].DisplayName)
	assert.Equal(t, filepath.Join(e.root, "-work-b"), projects[1].Path)
}

func TestListProjects_MissingRoot(t *testing.T) {
	d := New(index.New(filepath.Join(t.TempDir(), "nope"), ""))
	projects, err := d.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestListSessions(t *testing.T) {
	e := newEnv(t)
	e.session(t, "p1", "old", base.Add(-time.Hour))
	e.session(t, "p1", "new-session-id", base)
	e.session(t, "p0", "zzz", base.Add(-48*time.Hour))
	long := strings.Repeat("界", 60)
	testjsonl.WriteHistory(t, e.history,
		testjsonl.HistoryJSON("old", "/real/p1", "/help", base),
		testjsonl.HistoryJSON("old", "/real/p1", long, base),
	)

	t.Run("all projects", func(t *testing.T) {
		list, err := e.dir.ListSessions("")
		require.NoError(t, err)
		ids := make([]string, len(list))
		for i, s := range list {
			ids[i] = s.SessionID
		}
		// p0 before p1 regardless of mtime; newest first inside p1.
		assert.Equal(t, []string{"zzz", "new-session-id", "old"}, ids)
	})

	t.Run("one project", func(t *testing.T) {
		list, err := e.dir.ListSessions("p1")
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, "new-sess", list[0].Title)
		assert.Equal(t, "p1", list[0].Project)

		assert.Equal(t, strings.Repeat("界", TitleLen), list[1].Title)
		assert.Equal(t, "/real/p1", list[1].Project)
		assert.Equal(t, "p1", list[1].ProjectDir)
		assert.True(t, list[1].Modified.Equal(base.Add(-time.Hour)))
	})

	t.Run("missing project", func(t *testing.T) {
		list, err := e.dir.ListSessions("nope")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestResolve(t *testing.T) {
	e := newEnv(t)
	e.session(t, "b", "abc", base)
	e.session(t, "a", "abcdef", base)
	e.session(t, "a", "abd", base)
	e.session(t, "c", "abx", base)

	tests := []struct {
		name     string
		in       string
		wantDir  string
		wantID   string
		notFound bool
	}{
		{name: "exact beats earlier prefix", in: "abc", wantDir: "b", wantID: "abc"},
		{name: "prefix picks first by dir then name", in: "ab", wantDir: "a", wantID: "abcdef"},
		{name: "unique prefix", in: "abx", wantDir: "c", wantID: "abx"},
		{name: "no match", in: "zz", notFound: true},
		{name: "empty", in: "", notFound: true},
		{name: "path separator", in: "../b/abc", notFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := e.dir.Resolve(tt.in)
			require.NoError(t, err)
			if tt.notFound {
				assert.Nil(t, loc)
				return
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.wantDir, loc.ProjectDir)
			assert.Equal(t, tt.wantID, loc.SessionID)
			assert.Equal(t, filepath.Join(e.root, tt.wantDir, tt.wantID+".jsonl"), loc.Path)
		})
	}
}

func TestDetail(t *testing.T) {
	e := newEnv(t)
	id := "5f0c1d2e-0000-4000-8000-000000000001"
	e.session(t, "-work-app", id, base,
		testjsonl.ClaudeUserWithMetaJSON("u1", "Refactor the parser", "2024-01-01T10:00:00Z", "", "/work/app"),
		testjsonl.ClaudeAssistantUsageJSON("a1", "msg_1",
			[]any{testjsonl.TextBlock("hi"), map[string]any{"type": "image"}},
			"claude-sonnet-4", "2024-01-01T10:00:01Z", 10, 5),
		testjsonl.ClaudeUserJSON("u2", "  ", "2024-01-01T10:00:02Z"),
	)
	testjsonl.WriteHistory(t, e.history,
		testjsonl.HistoryJSON(id, "/work/app", "Refactor the parser", base),
	)

	det, err := e.dir.Detail("5f0c")
	require.NoError(t, err)
	require.NotNil(t, det)

	assert.Equal(t, id, det.SessionID)
	assert.Equal(t, "/work/app", det.Project, "project is looked up with the full id")
	assert.Equal(t, "claude-sonnet-4", det.Model)
	assert.Equal(t, "Refactor the parser", det.Title)
	assert.Equal(t, 2, det.MessageCount)
	require.Len(t, det.Messages, 2)
	assert.Equal(t, "hi", det.Messages[1].Content)
	assert.Equal(t, parse.RoleAssistant, det.Messages[1].Role)
	require.Len(t, det.Usage, 1)

	again, err := e.dir.Detail(id)
	require.NoError(t, err)
	if diff := cmp.Diff(det, again); diff != "" {
		t.Errorf("detail not idempotent (-first +second):\n%s", diff)
	}
}

func TestDetail_SlugTitleAndFallback(t *testing.T) {
	e := newEnv(t)
	e.session(t, "p", "slugged", base,
		testjsonl.ClaudeUserWithMetaJSON("u1", "hello", "2024-01-01T10:00:00Z", "brave-fox", ""),
	)
	e.session(t, "p", "0123456789", base,
		testjsonl.ClaudeAssistantJSON("a1", "only assistant", "m", "2024-01-01T10:00:00Z"),
	)

	det, err := e.dir.Detail("slugged")
	require.NoError(t, err)
	assert.Equal(t, "brave-fox", det.Title)

	det, err = e.dir.Detail("0123456789")
	require.NoError(t, err)
	assert.Equal(t, "01234567", det.Title)
}

func TestDetail_NotFound(t *testing.T) {
	e := newEnv(t)
	det, err := e.dir.Detail("missing")
	require.NoError(t, err)
	assert.Nil(t, det)
}

func TestDetail_FileVanished(t *testing.T) {
	e := newEnv(t)
	path := e.session(t, "p", "gone", base)
	require.NoError(t, os.Remove(path))

	det, err := e.dir.Load(&Location{ProjectDir: "p", SessionID: "gone", Path: path})
	require.NoError(t, err)
	assert.Nil(t, det)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	path := e.session(t, "p", "victim-1234", base)
	companion := strings.TrimSuffix(path, ".jsonl")
	require.NoError(t, os.MkdirAll(filepath.Join(companion, "tool-results"), 0o755))
	e.session(t, "p", "survivor", base)

	ok, err := e.dir.Delete("victim")
	require.NoError(t, err)
	assert.True(t, ok)

	det, err := e.dir.Detail("victim-1234")
	require.NoError(t, err)
	assert.Nil(t, det)

	entries, err := os.ReadDir(filepath.Join(e.root, "p"))
	require.NoError(t, err)
	var names []string
	for _, en := range entries {
		names = append(names, en.Name())
	}
	assert.Equal(t, []string{"survivor.jsonl"}, names)

	ok, err = e.dir.Delete("victim")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_LeavesCacheAlone(t *testing.T) {
	e := newEnv(t)
	e.session(t, "p", "s1", base)
	testjsonl.WriteHistory(t, e.history, testjsonl.HistoryJSON("s1", "/real", "hi", base))

	_, err := e.dir.ListSessions("")
	require.NoError(t, err)
	ok, err := e.dir.Delete("s1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, e.dir.cache.Built()[index.KindProjects])
	assert.True(t, e.dir.cache.Built()[index.KindFirstMessages])
}

func TestDeleteProject(t *testing.T) {
	e := newEnv(t)
	e.session(t, "p", "s1", base)
	e.session(t, "p", "s2", base)
	e.session(t, "q", "s3", base)

	n, err := e.dir.DeleteProject("p")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoDirExists(t, filepath.Join(e.root, "p"))
	assert.DirExists(t, filepath.Join(e.root, "q"))

	n, err = e.dir.DeleteProject("p")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.dir.DeleteProject("../q")
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "abcdefgh", Title("", "abcdefghijkl"))
	assert.Equal(t, "short", Title("", "short"))
	assert.Equal(t, "hello", Title("hello", "abcdefghijkl"))
	assert.Equal(t, 50, len([]rune(Title(strings.Repeat("x", 80), "id"))))
}

func TestProjectDirOutsideRoot(t *testing.T) {
	for _, name := range []string{".", "..", "../q", "p/..", `..\q`} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t)
			e.session(t, "q", "s1", base)
			testjsonl.WriteHistory(t, e.history, testjsonl.HistoryJSON("s1", "/real", "hi", base))

			list, err := e.dir.ListSessions(name)
			require.NoError(t, err)
			assert.Empty(t, list)

			n, err := e.dir.DeleteProject(name)
			assert.Error(t, err)
			assert.Zero(t, n)
			assert.DirExists(t, e.root)
			assert.FileExists(t, e.history)
			assert.FileExists(t, filepath.Join(e.root, "q", "s1.jsonl"))
		})
	}
}

func TestDeleteProject_NotADirectory(t *testing.T) {
	e := newEnv(t)
	stray := filepath.Join(e.root, "notes.txt")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o644))

	n, err := e.dir.DeleteProject("notes.txt")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, stray)
}

func TestUnreadableProjectIsSkipped(t *testing.T) {
	e := newEnv(t)
	e.session(t, "a-bad", "s-bad", base)
	e.session(t, "b-good", "s-good", base)
	testjsonl.Unreadable(t, filepath.Join(e.root, "a-bad"))

	loc, err := e.dir.Resolve("s-g")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "b-good", loc.ProjectDir)

	list, err := e.dir.ListSessions("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s-good", list[0].SessionID)

	projects, err := e.dir.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "b-good", projects[0].DirName)
}
