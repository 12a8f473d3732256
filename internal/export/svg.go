// Package export renders eigenvalue spectra as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/pesmodel/internal/report"
)

const (
	activeColor   = "#00ff88"
	singularColor = "#ff4444"
	axisColor     = "#444466"
)

// SpectrumToSVG draws one vertical stick per mode, from the zero line to the
// eigenvalue, coloured by whether the mode is singular.
func SpectrumToSVG(rep *report.Hessian, width, height int) string {
	if rep == nil || len(rep.Modes) == 0 {
		return ""
	}

	lo, hi := 0.0, 0.0
	for _, m := range rep.Modes {
		lo = math.Min(lo, m.Eigenvalue)
		hi = math.Max(hi, m.Eigenvalue)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	y := func(v float64) float64 {
		return float64(height) - (v-lo)/span*float64(height)
	}
	pitch := float64(width) / float64(len(rep.Modes))
	zero := y(0)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<title>%s</title>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>
`, width, height, width, height, escape(rep.Name), zero, width, zero, axisColor))

	for i, m := range rep.Modes {
		color := activeColor
		if m.Singular {
			color = singularColor
		}
		x := (float64(i) + 0.5) * pitch
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"><title>mode %d: %.6e</title></line>
`, x, zero, x, y(m.Eigenvalue), color, math.Max(1, pitch*0.6), m.Index, m.Eigenvalue))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
