package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/sidsmp/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is one series of a run plotted against another.
type PhasePortrait2D struct {
	XName, YName string
	Points       []Point
}

// PhasePortrait pairs the named series of r sample by sample.
func PhasePortrait(r *sim.Result, xName, yName string) (*PhasePortrait2D, error) {
	xs, ok := r.Series(xName)
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", xName)
	}
	ys, ok := r.Series(yName)
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", yName)
	}

	portrait := &PhasePortrait2D{
		XName:  xName,
		YName:  yName,
		Points: make([]Point, len(xs)),
	}
	for i := range xs {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait, nil
}

// PhasePortraitToASCII rasterizes the portrait onto a width x height grid.
// The first point is drawn as 'o' and the last as 'x'.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p Point) (int, int) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		return row, col
	}

	for _, p := range portrait.Points {
		row, col := cell(p)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	if row, col := cell(portrait.Points[0]); row >= 0 && row < height && col >= 0 && col < width {
		canvas[row][col] = 'o'
	}
	if row, col := cell(portrait.Points[len(portrait.Points)-1]); row >= 0 && row < height && col >= 0 && col < width {
		canvas[row][col] = 'x'
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s  [%.3g, %.3g] x [%.3g, %.3g]\n", portrait.YName, portrait.XName, minX, maxX, minY, maxY)
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
