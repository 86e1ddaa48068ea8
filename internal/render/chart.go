package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Bar is one labelled value of a chart series.
type Bar struct {
	Label string
	Value int64
	Text  string // value as printed; defaults to the number
}

const labelWidth = 24

// Bars draws a horizontal bar chart scaled so that the largest value
// spans width cells.
func Bars(w io.Writer, bars []Bar, width int) error {
	if width <= 0 {
		width = 40
	}
	var peak int64
	for _, b := range bars {
		peak = max(peak, b.Value)
	}
	for _, b := range bars {
		n := 0
		if peak > 0 {
			n = int(b.Value * int64(width) / peak)
		}
		if n == 0 && b.Value > 0 {
			n = 1
		}
		text := b.Text
		if text == "" {
			text = fmt.Sprintf("%d", b.Value)
		}
		label := runewidth.FillRight(runewidth.Truncate(b.Label, labelWidth, ".."), labelWidth)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", label, strings.Repeat("█", n), text); err != nil {
			return err
		}
	}
	return nil
}
