package report

import (
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/Antoink/SDRV3/internal/profile"
)

const (
	radarSize   = 360.0
	radarRadius = 120.0
	accent      = "#D71920"
)

// radarPoint maps a polar coordinate (axis i of n, value on a 0-100 scale) to SVG space.
// The first axis points up and axes run clockwise.
func radarPoint(i, n int, value float64) (x, y float64) {
	angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	r := radarRadius * math.Max(0, math.Min(value, 100)) / 100
	return radarSize/2 + r*math.Cos(angle), radarSize/2 + r*math.Sin(angle)
}

func ring(n int, value float64) string {
	pts := make([]string, n)
	for i := 0; i < n; i++ {
		x, y := radarPoint(i, n, value)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	return strings.Join(pts, " ")
}

// RadarSVG draws the percentile radar of axes: a red band below 33, a green band above 66,
// dashed rings at 33 and 66 and the athlete polygon. Fewer than three axes draw nothing.
func RadarSVG(axes []profile.Axis) string {
	n := len(axes)
	if n < 3 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="Helvetica, Arial, sans-serif">`,
		radarSize, radarSize, radarSize, radarSize)
	fmt.Fprintf(&b, `<polygon points="%s" fill="#27AE60" fill-opacity="0.15"/>`, ring(n, 100))
	fmt.Fprintf(&b, `<polygon points="%s" fill="#FFFFFF"/>`, ring(n, 66))
	fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.15"/>`, ring(n, 33), accent)
	for _, lvl := range []float64{33, 66} {
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="#ccc" stroke-dasharray="4 3"/>`, ring(n, lvl))
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="#ccc"/>`, ring(n, 100))
	for i, a := range axes {
		x, y := radarPoint(i, n, 100)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ccc"/>`, radarSize/2, radarSize/2, x, y)
		lx, ly := radarPoint(i, n, 118)
		anchor := "middle"
		switch {
		case lx < radarSize/2-5:
			anchor = "end"
		case lx > radarSize/2+5:
			anchor = "start"
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" font-weight="bold" text-anchor="%s">%s</text>`, lx, ly+4, anchor, html.EscapeString(a.Label))
	}
	pts := make([]string, n)
	for i, a := range axes {
		x, y := radarPoint(i, n, a.Score)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.4" stroke="%s" stroke-width="2"/>`, strings.Join(pts, " "), accent, accent)
	for _, p := range pts {
		xy := strings.SplitN(p, ",", 2)
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="3.5" fill="%s"/>`, xy[0], xy[1], accent)
	}
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="9" fill="#888">33</text>`, radarSize/2+3, radarSize/2-radarRadius*0.33)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="9" fill="#888">66</text>`, radarSize/2+3, radarSize/2-radarRadius*0.66)
	b.WriteString(`</svg>`)
	return b.String()
}

// svgDataURI inlines an SVG document as a base64 data URI.
func svgDataURI(svg string) template.URL {
	if svg == "" {
		return ""
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)))
}
