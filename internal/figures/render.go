package figures

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/sidsmp/internal/analysis"
)

const dpi = 300

var regimeColors = map[analysis.Regime]color.RGBA{
	analysis.Functional: {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	analysis.Saturation: {R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
	analysis.Decoupling: {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

func shade(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x1a}
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.TextStyle.Font.Size = vg.Points(11)
	p.X.Tick.Label.Font.Size = vg.Points(9)
	p.Y.Tick.Label.Font.Size = vg.Points(9)
	p.X.Tick.Marker = limitedTicker(6, "%.1f")
	p.Y.Tick.Marker = limitedTicker(6, "%.2f")
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(9)

	p.Add(plotter.NewGrid())
	return p
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// addLine adds xs/ys as a labeled line. dashed draws it in dashes.
func addLine(p *plot.Plot, label string, xs, ys []float64, c color.Color, dashed bool) error {
	line, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return nil
}

func addMarkers(p *plot.Plot, label string, xs, ys []float64, c color.Color) error {
	sc, err := plotter.NewScatter(xys(xs, ys))
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(3)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	if label != "" {
		p.Legend.Add(label, sc)
	}
	return nil
}

// addBand shades x in [from, to] over y in [0, top].
func addBand(p *plot.Plot, label string, from, to, top float64, c color.RGBA) error {
	poly, err := plotter.NewPolygon(plotter.XYs{{X: from, Y: 0}, {X: to, Y: 0}, {X: to, Y: top}, {X: from, Y: top}})
	if err != nil {
		return err
	}
	poly.Color = shade(c)
	poly.LineStyle.Width = 0
	p.Add(poly)
	if label != "" {
		p.Legend.Add(label, poly)
	}
	return nil
}

func seriesColor(i int) color.Color {
	return plotutil.Color(i)
}

func createCanvas(widthIn, heightIn float64) (*vgimg.Canvas, draw.Canvas) {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	return c, draw.New(c)
}

// drawRow lays plots out side by side on dc.
func drawRow(dc draw.Canvas, plots ...*plot.Plot) {
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}
}

func writePNG(c *vgimg.Canvas, filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("cannot create directory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return "", fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return abs, f.Close()
}

func savePlot(p *plot.Plot, widthIn, heightIn float64, filename string) (string, error) {
	c, dc := createCanvas(widthIn, heightIn)
	p.Draw(dc)
	return writePNG(c, filename)
}
