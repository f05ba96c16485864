package charts

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// DefaultTextWidth is the bar length used for the largest value
const DefaultTextWidth = 40

var barGlyphs = []string{"█", "▒", "░"}

// WriteText renders the chart as horizontal bars for a terminal
func WriteText(w io.Writer, c Chart, width int) error {
	if width <= 0 {
		width = DefaultTextWidth
	}
	bw := bufio.NewWriter(w)

	if c.Title != "" {
		fmt.Fprintln(bw, c.Title)
	}

	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, utf8.RuneCountInString(l))
	}
	multi := len(c.Series) > 1
	if multi {
		for si, s := range c.Series {
			fmt.Fprintf(bw, "  %s %s\n", barGlyphs[si%len(barGlyphs)], s.Name)
		}
	}

	top := c.Max()
	for li, label := range c.Labels {
		for si := range c.Series {
			name := ""
			if si == 0 {
				name = label
			}
			v := c.value(si, li)
			n := 0
			if top > 0 {
				n = int(math.Round(v / top * float64(width)))
			}
			pad := strings.Repeat(" ", labelW-utf8.RuneCountInString(name))
			fmt.Fprintf(bw, "  %s%s │%s %s\n", name, pad,
				strings.Repeat(barGlyphs[si%len(barGlyphs)], n), formatValue(v))
		}
	}

	return bw.Flush()
}
