package charts_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom/internal/charts"
	"github.com/ammerola/stockroom/internal/core/domain"
)

func categoryChart() charts.Chart {
	return charts.FromPoints("Units by category", "Units", []domain.ChartPoint{
		{Label: "Fasteners", Value: 120},
		{Label: "Tools & <Kits>", Value: 60},
		{Label: "Safety", Value: 0},
	})
}

func TestFromMovements(t *testing.T) {
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	c := charts.FromMovements("Movements", "In", "Out", []domain.MovementPoint{
		{Day: day, Incoming: 5, Outgoing: 2},
		{Day: day.AddDate(0, 0, 1), Incoming: 0, Outgoing: 9},
	}, "02 Jan")

	assert.Equal(t, []string{"14 Oct", "15 Oct"}, c.Labels)
	require.Len(t, c.Series, 2)
	assert.Equal(t, []float64{5, 0}, c.Series[0].Values)
	assert.Equal(t, []float64{2, 9}, c.Series[1].Values)
	assert.Equal(t, 9.0, c.Max())
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, charts.WriteSVG(&buf, categoryChart(), domain.ThemeDark))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "Tools &amp; &lt;Kits&gt;")
	assert.Contains(t, out, "#1e1e1e")
	assert.Equal(t, 3, strings.Count(out, "<title>"))

	// well-formed
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestWriteSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, charts.WriteSVG(&buf, charts.Chart{Title: "Empty"}, domain.ThemeLight))
	assert.Contains(t, buf.String(), "Empty")
	assert.NotContains(t, buf.String(), "<title>")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, charts.WriteText(&buf, categoryChart(), 10))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Units by category", lines[0])
	assert.Equal(t, "  Fasteners      │"+strings.Repeat("█", 10)+" 120", lines[1])
	assert.Equal(t, "  Tools & <Kits> │"+strings.Repeat("█", 5)+" 60", lines[2])
	assert.Equal(t, "  Safety         │ 0", lines[3])
}

func TestWriteText_MultiSeries(t *testing.T) {
	c := charts.Chart{
		Labels: []string{"Mon"},
		Series: []charts.Series{
			{Name: "In", Values: []float64{4}},
			{Name: "Out", Values: []float64{2}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, charts.WriteText(&buf, c, 4))

	assert.Equal(t,
		"  █ In\n  ▒ Out\n  Mon │████ 4\n      │▒▒ 2\n",
		buf.String())
}
