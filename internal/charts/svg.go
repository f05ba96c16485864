package charts

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/ammerola/stockroom/internal/core/domain"
)

const (
	svgWidth   = 640
	svgHeight  = 360
	marginTop  = 48
	marginSide = 48
	marginBot  = 64
)

type palette struct {
	background string
	text       string
	axis       string
	bars       []string
}

var (
	lightPalette = palette{"#ffffff", "#333333", "#bbbbbb", []string{"#2f6fdf", "#e0752d", "#3a9d5d"}}
	darkPalette  = palette{"#1e1e1e", "#eeeeee", "#555555", []string{"#6ea0ff", "#ff9b57", "#6fd08f"}}
)

func paletteFor(theme domain.Theme) palette {
	if theme == domain.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// WriteSVG renders the chart as a standalone SVG document
func WriteSVG(w io.Writer, c Chart, theme domain.Theme) error {
	p := paletteFor(theme)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", p.background)
	fmt.Fprintf(bw, `<text x="%d" y="28" font-size="18" fill="%s">%s</text>`+"\n",
		marginSide, p.text, html.EscapeString(c.Title))

	plotW := float64(svgWidth - 2*marginSide)
	plotH := float64(svgHeight - marginTop - marginBot)
	baseY := float64(marginTop) + plotH

	fmt.Fprintf(bw, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s"/>`+"\n",
		marginSide, baseY, svgWidth-marginSide, baseY, p.axis)

	top := c.Max()
	if n := len(c.Labels); n > 0 && len(c.Series) > 0 {
		groupW := plotW / float64(n)
		barW := groupW * 0.8 / float64(len(c.Series))

		for li, label := range c.Labels {
			groupX := float64(marginSide) + groupW*float64(li) + groupW*0.1
			for si := range c.Series {
				v := c.value(si, li)
				h := 0.0
				if top > 0 {
					h = v / top * plotH
				}
				x := groupX + barW*float64(si)
				fmt.Fprintf(bw, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %s</title></rect>`+"\n",
					x, baseY-h, barW, h, p.bars[si%len(p.bars)],
					html.EscapeString(c.Series[si].Name), formatValue(v))
			}
			fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">%s</text>`+"\n",
				groupX+groupW*0.4, baseY+16, p.text, html.EscapeString(label))
		}
	}

	// legend
	for si, s := range c.Series {
		x := marginSide + si*140
		y := svgHeight - 24
		fmt.Fprintf(bw, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`+"\n", x, y-10, p.bars[si%len(p.bars)])
		fmt.Fprintf(bw, `<text x="%d" y="%d" font-size="12" fill="%s">%s</text>`+"\n", x+18, y, p.text, html.EscapeString(s.Name))
	}

	fmt.Fprint(bw, "</svg>\n")
	return bw.Flush()
}
