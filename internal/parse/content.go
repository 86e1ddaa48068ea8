package parse

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FlattenContent extracts the readable text of a message content
// value. content can be a plain string or an array of typed blocks;
// only "text" blocks contribute and they are joined with newlines.
func FlattenContent(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.Str
	}
	if !content.IsArray() {
		return ""
	}

	var parts []string
	content.ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").Str == "text" {
			parts = append(parts, block.Get("text").Str)
		}
		return true
	})
	return strings.Join(parts, "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
