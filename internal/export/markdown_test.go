package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

func sampleDetail() *sessions.Detail {
	return &sessions.Detail{
		SessionMeta: parse.SessionMeta{
			SessionID: "0123456789abcdef",
			Project:   "/work/app",
			Title:     "brave-fox",
		},
		Messages: []parse.Message{
			{Role: parse.RoleUser, Content: "Fix it"},
			{Role: parse.RoleAssistant, Content: "Done.\nTwo lines."},
		},
	}
}

func TestMarkdown(t *testing.T) {
	want := "# brave-fox\n" +
		"\n" +
		"> Project: /work/app\n" +
		"> Model: unknown\n" +
		"> Messages: 2\n" +
		"\n" +
		"---\n" +
		"\n## User\n\nFix it\n\n---\n" +
		"\n## Assistant\n\nDone.\nTwo lines.\n\n---\n"
	assert.Equal(t, want, Markdown(sampleDetail()))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"brave-fox", "01234567_brave-fox.md"},
		{`a<b>c:d"e/f\g|h?i*j`, "01234567_a_b_c_d_e_f_g_h_i_j.md"},
		{"line\nbreak", "01234567_line_break.md"},
		{"中文标题", "01234567_中文标题.md"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			det := sampleDetail()
			det.Title = tt.title
			assert.Equal(t, tt.want, Filename(det))
		})
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	det := sampleDetail()

	path, err := Write(dir, det)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "01234567_brave-fox.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Markdown(det), string(data))
}
