package stats

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
)

const (
	// RecentDays bounds the per-date series to the latest days seen.
	RecentDays = 30
	// Unknown labels events whose grouping key is empty.
	Unknown = "unknown"
)

// Key selects the field ByKey groups on.
type Key string

const (
	KeyProject Key = "project"
	KeyModel   Key = "model"
)

// Group is the token total of one series entry.
type Group struct {
	Key    string `json:"key"`
	Input  int64  `json:"input_tokens"`
	Output int64  `json:"output_tokens"`
}

func (g Group) Total() int64 { return g.Input + g.Output }

// Count is the number of events or sessions under one key.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HourCount is the activity-event count for one hour of the day, 0-23.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// ByKey sums tokens per project or model, largest total first.
func ByKey(events []parse.UsageEvent, key Key) []Group {
	groups := group(events, func(e parse.UsageEvent) string {
		k := e.Project
		if key == KeyModel {
			k = e.Model
		}
		if k == "" {
			return Unknown
		}
		return k
	})
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total() != groups[j].Total() {
			return groups[i].Total() > groups[j].Total()
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// ByDate sums tokens per calendar day in ascending order, keeping the
// most recent RecentDays days. Events without a timestamp are left out.
func ByDate(events []parse.UsageEvent) []Group {
	dated := lo.Filter(events, func(e parse.UsageEvent, _ int) bool { return e.Date() != "" })
	groups := group(dated, parse.UsageEvent.Date)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return lastN(groups, RecentDays)
}

// Hourly counts activity per hour of day. All 24 hours are present.
func Hourly(activity []parse.ActivityEvent) []HourCount {
	counts := lo.CountValuesBy(activity, func(a parse.ActivityEvent) int { return a.Hour })
	out := make([]HourCount, 24)
	for h := range out {
		out[h] = HourCount{Hour: h, Count: counts[h]}
	}
	return out
}

// ModelShare counts usage events per model, most used first, keeping
// the top n.
func ModelShare(events []parse.UsageEvent, n int) []Count {
	counts := lo.CountValuesBy(events, func(e parse.UsageEvent) string {
		return lo.Ternary(e.Model == "", Unknown, e.Model)
	})
	out := lo.MapToSlice(counts, func(k string, v int) Count { return Count{Key: k, Count: v} })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SessionsPerDay counts distinct sessions per day, ascending, keeping
// the most recent n days.
func SessionsPerDay(events []parse.UsageEvent, n int) []Count {
	byDate := lo.GroupBy(
		lo.Filter(events, func(e parse.UsageEvent, _ int) bool { return e.Date() != "" }),
		parse.UsageEvent.Date,
	)
	out := lo.MapToSlice(byDate, func(d string, es []parse.UsageEvent) Count {
		ids := lo.Uniq(lo.Map(es, func(e parse.UsageEvent, _ int) string { return e.SessionID }))
		return Count{Key: d, Count: len(ids)}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return lastN(out, n)
}

// Summary holds the headline figures of the overview.
type Summary struct {
	Sessions    int   `json:"sessions"`
	Messages    int   `json:"messages"`
	TotalTokens int64 `json:"total_tokens"`
	ActiveDays  int   `json:"active_days"`
}

// Overview summarizes a usage series. Messages counts usage events,
// one per assistant turn.
func Overview(events []parse.UsageEvent) Summary {
	days := lo.Uniq(lo.Map(events, func(e parse.UsageEvent, _ int) string { return e.Date() }))
	return Summary{
		Sessions:    len(lo.UniqBy(events, func(e parse.UsageEvent) string { return e.SessionID })),
		Messages:    len(events),
		TotalTokens: lo.SumBy(events, func(e parse.UsageEvent) int64 { return e.Usage.Total() }),
		ActiveDays:  len(lo.Compact(days)),
	}
}

// Top returns at most the first n groups.
func Top(groups []Group, n int) []Group {
	if n <= 0 || len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// FormatTokens renders a token count as 1.23M, 4.5K or a plain number.
func FormatTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func group(events []parse.UsageEvent, keyFn func(parse.UsageEvent) string) []Group {
	return lo.MapToSlice(lo.GroupBy(events, keyFn), func(k string, es []parse.UsageEvent) Group {
		return Group{
			Key:    k,
			Input:  lo.SumBy(es, func(e parse.UsageEvent) int64 { return e.Usage.Input }),
			Output: lo.SumBy(es, func(e parse.UsageEvent) int64 { return e.Usage.Output }),
		}
	})
}

func lastN[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
