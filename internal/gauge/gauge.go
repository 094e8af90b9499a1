// Package gauge draws the two-segment risk indicator shown next to an
// assessment. A Renderer owns exactly one drawing surface and keeps at most
// one live chart on it.
package gauge

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
)

// Geometry of the donut, in SVG user units.
const (
	size        = 200
	center      = size / 2
	radius      = 80
	strokeWidth = 24
)

// Surface is where a chart is mounted. Clear removes whatever is mounted.
type Surface interface {
	Mount(svg []byte)
	Clear()
}

// Chart is one drawn gauge.
type Chart struct {
	Percent   int
	Remaining int
	Color     string
	Label     string
	SVG       []byte
}

// Renderer redraws the gauge on its surface. A nil Renderer or one without a
// surface silently does nothing.
type Renderer struct {
	mu      sync.Mutex
	surface Surface
	mounted bool
}

// NewRenderer returns a Renderer bound to surface. surface may be nil.
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Render tears down the previous chart and mounts a fresh one for
// (probability, level). It reports false when there was nowhere to draw.
func (r *Renderer) Render(probability float64, level string) (Chart, bool) {
	if r == nil || r.surface == nil {
		return Chart{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mounted {
		r.surface.Clear()
		r.mounted = false
	}

	c := Draw(probability, level)
	r.surface.Mount(c.SVG)
	r.mounted = true
	return c, true
}

// Draw builds the chart without mounting it.
func Draw(probability float64, level string) Chart {
	pct := format.Percent(probability)
	c := Chart{
		Percent:   pct,
		Remaining: 100 - pct,
		Color:     format.RiskColor(level),
		Label:     format.RiskLabel(level),
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(size, size)

	ring := fmt.Sprintf("fill:none;stroke-width:%d;stroke:", strokeWidth)
	canvas.Circle(center, center, radius, ring+format.NeutralColor)

	switch {
	case pct >= 100:
		canvas.Circle(center, center, radius, ring+c.Color)
	case pct > 0:
		// Clockwise from 12 o'clock.
		theta := 2 * math.Pi * float64(pct) / 100
		ex := center + int(math.Round(radius*math.Sin(theta)))
		ey := center - int(math.Round(radius*math.Cos(theta)))
		canvas.Arc(center, center-radius, radius, radius, 0, pct > 50, true, ex, ey, ring+c.Color)
	}

	canvas.Text(center, center+4, fmt.Sprintf("%d%%", pct),
		"text-anchor:middle;font-family:sans-serif;font-size:32px;font-weight:bold;fill:"+c.Color)
	canvas.Text(center, center+28, c.Label,
		"text-anchor:middle;font-family:sans-serif;font-size:14px;fill:#555555")
	canvas.End()

	c.SVG = buf.Bytes()
	return c
}
