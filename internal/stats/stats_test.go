package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
)

func usage(session, project, model, ts string, in, out int64) parse.UsageEvent {
	e := parse.UsageEvent{
		SessionID:  session,
		Project:    project,
		ProjectDir: "-" + project,
		Model:      model,
		Usage:      parse.TokenUsage{Input: in, Output: out},
	}
	if ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			panic(err)
		}
		e.Timestamp = t
	}
	return e
}

func TestByKey_Project(t *testing.T) {
	events := []parse.UsageEvent{
		usage("s1", "A", "m1", "", 100, 50),
		usage("s2", "A", "m1", "", 10, 5),
	}
	assert.Equal(t, []Group{{Key: "A", Input: 110, Output: 55}}, ByKey(events, KeyProject))
}

func TestByKey_SortedAndConserving(t *testing.T) {
	events := []parse.UsageEvent{
		usage("s1", "A", "opus", "", 1, 1),
		usage("s2", "B", "sonnet", "", 500, 10),
		usage("s3", "C", "", "", 40, 40),
		usage("s4", "B", "opus", "", 5, 5),
	}

	byProject := ByKey(events, KeyProject)
	want := []Group{
		{Key: "B", Input: 505, Output: 15},
		{Key: "C", Input: 40, Output: 40},
		{Key: "A", Input: 1, Output: 1},
	}
	if diff := cmp.Diff(want, byProject); diff != "" {
		t.Errorf("ByKey(project) mismatch (-want +got):\n%s", diff)
	}

	byModel := ByKey(events, KeyModel)
	require.Len(t, byModel, 3)
	assert.Equal(t, "sonnet", byModel[0].Key)
	assert.Equal(t, Unknown, byModel[1].Key)

	var total, grouped int64
	for _, e := range events {
		total += e.Usage.Total()
	}
	for _, g := range byModel {
		grouped += g.Total()
	}
	assert.Equal(t, total, grouped)
}

func TestByDate(t *testing.T) {
	events := []parse.UsageEvent{
		usage("s4", "demo", "m", "2024-01-02T09:00:00Z", 1, 1),
		usage("s1", "demo", "m", "2024-01-01T09:00:00Z", 10, 1),
		usage("s2", "demo", "m", "2024-01-01T10:00:00Z", 10, 1),
		usage("s3", "demo", "m", "2024-01-01T11:00:00Z", 10, 1),
		usage("s5", "demo", "m", "2024-01-02T12:00:00Z", 1, 1),
		usage("s6", "demo", "m", "", 99, 99),
	}
	got := ByDate(events)
	want := []Group{
		{Key: "2024-01-01", Input: 30, Output: 3},
		{Key: "2024-01-02", Input: 2, Output: 2},
	}
	assert.Equal(t, want, got)

	perDay := SessionsPerDay(events, RecentDays)
	assert.Equal(t, []Count{{Key: "2024-01-01", Count: 3}, {Key: "2024-01-02", Count: 2}}, perDay)
}

func TestByDate_KeepsRecent(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var events []parse.UsageEvent
	for i := 0; i < 45; i++ {
		events = append(events, usage("s", "p", "m", start.AddDate(0, 0, i).Format(time.RFC3339), 1, 0))
	}
	got := ByDate(events)
	require.Len(t, got, RecentDays)
	assert.Equal(t, "2024-01-16", got[0].Key)
	assert.Equal(t, "2024-02-14", got[RecentDays-1].Key)
}

func TestHourly(t *testing.T) {
	assert.Len(t, Hourly(nil), 24)

	activity := []parse.ActivityEvent{{Hour: 0}, {Hour: 14}, {Hour: 14}, {Hour: 23}}
	hours := Hourly(activity)
	require.Len(t, hours, 24)
	sum := 0
	for i, h := range hours {
		assert.Equal(t, i, h.Hour)
		sum += h.Count
	}
	assert.Equal(t, len(activity), sum)
	assert.Equal(t, 2, hours[14].Count)
	assert.Equal(t, 1, hours[23].Count)
}

func TestModelShare(t *testing.T) {
	events := []parse.UsageEvent{
		usage("s", "p", "a", "", 0, 0),
		usage("s", "p", "b", "", 0, 0),
		usage("s", "p", "b", "", 0, 0),
		usage("s", "p", "c", "", 0, 0),
	}
	assert.Equal(t, []Count{{Key: "b", Count: 2}, {Key: "a", Count: 1}}, ModelShare(events, 2))
	assert.Len(t, ModelShare(events, 0), 3)
}

func TestOverview(t *testing.T) {
	events := []parse.UsageEvent{
		usage("s1", "p", "m", "2024-01-01T09:00:00Z", 100, 20),
		usage("s1", "p", "m", "2024-01-01T10:00:00Z", 10, 2),
		usage("s2", "p", "m", "2024-01-03T10:00:00Z", 1, 1),
		usage("s3", "p", "m", "", 1, 1),
	}
	assert.Equal(t, Summary{Sessions: 3, Messages: 4, TotalTokens: 136, ActiveDays: 2}, Overview(events))
	assert.Equal(t, Summary{}, Overview(nil))
}

func TestTop(t *testing.T) {
	groups := []Group{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	assert.Len(t, Top(groups, 2), 2)
	assert.Len(t, Top(groups, 5), 3)
	assert.Len(t, Top(groups, 0), 3)
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{4500, "4.5K"},
		{1_234_567, "1.23M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTokens(tt.in))
	}
}

func TestFilter(t *testing.T) {
	usageEvents := []parse.UsageEvent{
		{SessionID: "s1", Project: "/work/a", ProjectDir: "-work-a"},
		{SessionID: "s2", Project: "/work/a", ProjectDir: "-work-a"},
		{SessionID: "s3", Project: "/work/b", ProjectDir: "-work-b"},
	}
	activity := []parse.ActivityEvent{
		{SessionID: "s1", Project: "/work/a"},
		{SessionID: "s9", Project: "/work/a"},
		{SessionID: "s2", Project: ""},
		{SessionID: "s3", Project: "/work/b"},
	}

	t.Run("session", func(t *testing.T) {
		u, a := Filter(usageEvents, activity, Scope{SessionID: "s3", ProjectDir: "-work-a"})
		require.Len(t, u, 1)
		require.Len(t, a, 1)
		assert.Equal(t, "s3", u[0].SessionID)
		assert.Equal(t, "s3", a[0].SessionID)
	})

	t.Run("project", func(t *testing.T) {
		u, a := Filter(usageEvents, activity, Scope{ProjectDir: "-work-a"})
		assert.Len(t, u, 2)
		ids := make([]string, len(a))
		for i, ev := range a {
			ids[i] = ev.SessionID
		}
		assert.Equal(t, []string{"s1", "s9", "s2"}, ids)
	})

	t.Run("all", func(t *testing.T) {
		u, a := Filter(usageEvents, activity, Scope{})
		assert.Len(t, u, 3)
		assert.Len(t, a, 4)
	})
}
