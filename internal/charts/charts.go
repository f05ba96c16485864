// Package charts renders dashboard series as SVG documents and terminal bars.
package charts

import (
	"math"
	"strconv"
	"time"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// Series is one set of bars sharing a colour
type Series struct {
	Name   string
	Values []float64
}

// Chart is a grouped bar chart: one group per label, one bar per series
type Chart struct {
	Title  string
	Labels []string
	Series []Series
}

// FromPoints builds a single-series chart
func FromPoints(title, series string, points []domain.ChartPoint) Chart {
	c := Chart{
		Title:  title,
		Labels: make([]string, len(points)),
		Series: []Series{{Name: series, Values: make([]float64, len(points))}},
	}
	for i, p := range points {
		c.Labels[i] = p.Label
		c.Series[0].Values[i] = p.Value
	}
	return c
}

// FromMovements builds an incoming/outgoing chart with one group per day
func FromMovements(title, incoming, outgoing string, points []domain.MovementPoint, layout string) Chart {
	if layout == "" {
		layout = time.DateOnly
	}
	c := Chart{
		Title:  title,
		Labels: make([]string, len(points)),
		Series: []Series{
			{Name: incoming, Values: make([]float64, len(points))},
			{Name: outgoing, Values: make([]float64, len(points))},
		},
	}
	for i, p := range points {
		c.Labels[i] = p.Day.Format(layout)
		c.Series[0].Values[i] = float64(p.Incoming)
		c.Series[1].Values[i] = float64(p.Outgoing)
	}
	return c
}

// Max returns the largest value across all series, or 0 for an empty chart
func (c Chart) Max() float64 {
	var m float64
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func (c Chart) value(series, label int) float64 {
	vals := c.Series[series].Values
	if label >= len(vals) || math.IsNaN(vals[label]) || vals[label] < 0 {
		return 0
	}
	return vals[label]
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
